package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable means the underlying database is not open. The
	// operation can be retried after a successful Open.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrTypeMismatch means a document body carried a "type" field that
	// disagrees with the type segment of its identifier.
	ErrTypeMismatch = errors.New("document type does not match identifier")
)

// StorageError wraps an engine-level failure during a store operation.
// Expected conditions ("not found", "already absent") are never a
// StorageError; only genuine I/O or corruption faults are.
type StorageError struct {
	Op  string
	ID  DocumentID
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, id DocumentID, err error) error {
	return &StorageError{Op: op, ID: id, Err: err}
}

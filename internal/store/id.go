package store

import "strings"

// IDSeparator joins the type tag and the natural key inside a document
// identifier: {type}::{naturalKey}.
const IDSeparator = "::"

// DocumentID is the store's primary key for a document.
type DocumentID string

// NewID builds a namespaced document identifier from a type tag and a
// natural key.
func NewID(typeTag, naturalKey string) DocumentID {
	return DocumentID(typeTag + IDSeparator + naturalKey)
}

// Type returns the type tag segment of the identifier, or "" when the
// identifier is not namespaced.
func (id DocumentID) Type() string {
	typeTag, _, ok := strings.Cut(string(id), IDSeparator)
	if !ok {
		return ""
	}
	return typeTag
}

// NaturalKey returns the key segment after the type tag. For an identifier
// without a separator the whole value is the key.
func (id DocumentID) NaturalKey() string {
	_, key, ok := strings.Cut(string(id), IDSeparator)
	if !ok {
		return string(id)
	}
	return key
}

func (id DocumentID) String() string {
	return string(id)
}

// Package store implements the embedded document store: durable, queryable
// storage of type-tagged JSON documents in one or more named SQLite
// databases.
//
// # Usage
//
//	docs, err := store.Open("klyp", cfg.Database.Path, logger)
//	err = docs.Put(store.NewID("student", "jane_doe"), body)
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Document is an owned, decoded copy of a stored record. Bodies never alias
// store-internal buffers; callers may hold them indefinitely.
type Document struct {
	ID        DocumentID
	Type      string
	Body      map[string]any
	UpdatedAt time.Time
}

type record struct {
	ID        string            `gorm:"primaryKey;size:512"`
	Type      string            `gorm:"index;size:64"`
	Body      datatypes.JSONMap `gorm:"type:json"`
	UpdatedAt time.Time
}

func (record) TableName() string {
	return "documents"
}

// Store is a handle to one named document database. Handles are process-wide
// singletons per name: every Open with the same name returns the same handle,
// and all repositories sharing it rely on SQLite's own locking for
// cross-repository write safety.
type Store struct {
	name string
	db   *gorm.DB
	log  zerolog.Logger
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Store{}
)

// Open opens (or returns the already-open handle for) the named database at
// the given path. Idempotent per name.
func Open(name, path string, log zerolog.Logger) (*Store, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[name]; ok {
		return s, nil
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %q (%v): %w", name, err, ErrStoreUnavailable)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate database %q: %w", name, err)
	}

	s := &Store{name: name, db: db, log: log.With().Str("database", name).Logger()}
	registry[name] = s

	s.log.Info().Str("path", path).Msg("document store opened")
	return s, nil
}

// Close closes the handle and removes it from the registry so a later Open
// re-opens the file.
func (s *Store) Close() error {
	registryMu.Lock()
	delete(registry, s.name)
	registryMu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the underlying connection for collaborators that keep their own
// tables in the same database file (the audit trail does).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Get returns the document at id, or nil when absent. Absence is not an
// error.
func (s *Store) Get(id DocumentID) (*Document, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}

	var rec record
	err := s.db.Where("id = ?", string(id)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", id, err)
	}
	return docFromRecord(rec), nil
}

// Put upserts the document body at id. The identifier is the single source
// of truth for a document's name: any id-like field inside the body is
// stripped before persistence, and a "type" field must agree with the
// identifier's type segment.
func (s *Store) Put(id DocumentID, body map[string]any) error {
	if s == nil || s.db == nil {
		return ErrStoreUnavailable
	}

	clean := make(map[string]any, len(body))
	for k, v := range body {
		if k == "_id" || k == "id" {
			continue
		}
		clean[k] = v
	}

	typeTag := id.Type()
	if declared, ok := clean["type"].(string); ok && declared != typeTag {
		return fmt.Errorf("put %s: body type %q: %w", id, declared, ErrTypeMismatch)
	}
	clean["type"] = typeTag

	rec := record{
		ID:        string(id),
		Type:      typeTag,
		Body:      datatypes.JSONMap(clean),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return storageErr("put", id, err)
	}
	return nil
}

// Delete removes the document at id. Returns false, not an error, when the
// id did not exist.
func (s *Store) Delete(id DocumentID) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrStoreUnavailable
	}

	result := s.db.Where("id = ?", string(id)).Delete(&record{})
	if result.Error != nil {
		return false, storageErr("delete", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count returns the number of documents carrying the type tag.
func (s *Store) Count(typeTag string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrStoreUnavailable
	}

	var count int64
	err := s.db.Model(&record{}).Where("type = ?", typeTag).Count(&count).Error
	if err != nil {
		return 0, storageErr("count", "", err)
	}
	return count, nil
}

// Query returns all documents of the given type matching the predicate.
// Results are unordered; callers must not assume any order.
func (s *Store) Query(typeTag string, p Predicate) ([]Document, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}

	var recs []record
	q := s.db.Where("type = ?", typeTag)
	if p.clause != "" {
		q = q.Where(p.clause, p.args...)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, storageErr("query", "", err)
	}

	docs := make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, *docFromRecord(rec))
	}
	return docs, nil
}

// All returns every document carrying the type tag.
func (s *Store) All(typeTag string) ([]Document, error) {
	return s.Query(typeTag, Predicate{})
}

func docFromRecord(rec record) *Document {
	// Copy the body so callers never hold views into scan buffers.
	body := make(map[string]any, len(rec.Body))
	for k, v := range rec.Body {
		body[k] = v
	}
	return &Document{
		ID:        DocumentID(rec.ID),
		Type:      rec.Type,
		Body:      body,
		UpdatedAt: rec.UpdatedAt,
	}
}

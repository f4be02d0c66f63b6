// Package classes provides document store operations for class rosters.
package classes

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/store"
)

// Repository handles all class document operations under the "class" type
// tag. The internal ID is a UUID; the classCode is the join key shared with
// students.
type Repository struct {
	docs *store.Store
	log  zerolog.Logger
}

// NewRepository creates a new classes repository.
func NewRepository(docs *store.Store, log zerolog.Logger) *Repository {
	return &Repository{docs: docs, log: log}
}

// GetByID returns the class for the given internal id, or nil when absent.
func (r *Repository) GetByID(id string) (*entities.ClassDocument, error) {
	doc, err := r.docs.Get(store.NewID(entities.TypeClass, id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return decode(doc), nil
}

// GetByCode returns the class with the given classCode, or nil when absent.
// Class codes are unique by construction; when legacy data disagrees the
// first match wins.
func (r *Repository) GetByCode(classCode string) (*entities.ClassDocument, error) {
	docs, err := r.docs.Query(entities.TypeClass, store.FieldEquals("classCode", classCode))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decode(&docs[0]), nil
}

// Save upserts the class document, assigning a fresh internal id when the
// class has none yet.
func (r *Repository) Save(class *entities.ClassDocument) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	class.UpdatedAt = time.Now().UTC()
	class.StudentIDs = entities.EncodeStringSlice(class.StudentIDs)

	id := store.NewID(entities.TypeClass, class.ID)
	body := map[string]any{
		"type":         entities.TypeClass,
		"classCode":    class.ClassCode,
		"classTitle":   class.ClassTitle,
		"educatorId":   class.EducatorID,
		"studentIds":   class.StudentIDs,
		"updatedAt":    entities.EncodeTime(class.UpdatedAt),
		"lastSyncedAt": entities.EncodeTime(class.LastSyncedAt),
	}
	if err := r.docs.Put(id, body); err != nil {
		return fmt.Errorf("save class %s: %w", id, err)
	}
	return nil
}

// Delete removes the class for the given internal id. Returns false when
// absent.
func (r *Repository) Delete(id string) (bool, error) {
	return r.docs.Delete(store.NewID(entities.TypeClass, id))
}

// Count returns the number of stored classes.
func (r *Repository) Count() (int64, error) {
	return r.docs.Count(entities.TypeClass)
}

// ListForEducator returns all classes owned by the educator.
func (r *Repository) ListForEducator(educatorID string) ([]entities.ClassDocument, error) {
	docs, err := r.docs.Query(entities.TypeClass, store.FieldEquals("educatorId", educatorID))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

// GetAll returns every stored class.
func (r *Repository) GetAll() ([]entities.ClassDocument, error) {
	docs, err := r.docs.All(entities.TypeClass)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

func decode(doc *store.Document) *entities.ClassDocument {
	body := doc.Body
	return &entities.ClassDocument{
		ID:           doc.ID.NaturalKey(),
		ClassCode:    entities.StringField(body, "classCode"),
		ClassTitle:   entities.StringField(body, "classTitle"),
		EducatorID:   entities.StringField(body, "educatorId"),
		StudentIDs:   entities.StringSliceField(body, "studentIds"),
		UpdatedAt:    entities.TimeField(body, "updatedAt"),
		LastSyncedAt: entities.TimeField(body, "lastSyncedAt"),
	}
}

func decodeAll(docs []store.Document) []entities.ClassDocument {
	classes := make([]entities.ClassDocument, 0, len(docs))
	for i := range docs {
		classes = append(classes, *decode(&docs[i]))
	}
	return classes
}

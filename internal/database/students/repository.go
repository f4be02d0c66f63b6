// Package students provides document store operations for student accounts.
//
// # Usage
//
//	repo := students.NewRepository(docs, recorder, logger)
//	student, err := repo.GetByName("Jane", "Doe")
package students

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/audit"
	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/store"
)

// Repository handles all student document operations under the "student"
// type tag.
type Repository struct {
	docs     *store.Store
	recorder *audit.Recorder
	log      zerolog.Logger
}

// NewRepository creates a new students repository. The recorder may be nil;
// repairs are then only logged.
func NewRepository(docs *store.Store, recorder *audit.Recorder, log zerolog.Logger) *Repository {
	return &Repository{docs: docs, recorder: recorder, log: log}
}

// NaturalKey builds the identifier key for a student name:
// lowercase firstName_lastName. Two students sharing a name share a key;
// that merge is documented behaviour.
func NaturalKey(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "_" + strings.ToLower(strings.TrimSpace(lastName))
}

// GetByName returns the student for the given name, or nil when absent.
func (r *Repository) GetByName(firstName, lastName string) (*entities.Student, error) {
	return r.GetByKey(NaturalKey(firstName, lastName))
}

// GetByKey returns the student for the given natural key, or nil when
// absent. A document missing its identity fields is repaired from the
// identifier and re-persisted before being returned.
func (r *Repository) GetByKey(key string) (*entities.Student, error) {
	doc, err := r.docs.Get(store.NewID(entities.TypeStudent, key))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	student := decode(doc.Body)
	if student.FirstName == "" && student.LastName == "" {
		return r.repair(key, student)
	}
	return student, nil
}

// repair synthesizes the identity fields from the identifier and re-persists
// the corrected document. Partially-written offline-login records recover
// through this path.
func (r *Repository) repair(key string, student *entities.Student) (*entities.Student, error) {
	first, last, _ := strings.Cut(key, "_")
	student.FirstName = first
	student.LastName = last

	if err := r.Save(student); err != nil {
		return nil, fmt.Errorf("repair student %s: %w", key, err)
	}

	docID := store.NewID(entities.TypeStudent, key).String()
	r.log.Warn().Str("document_id", docID).Msg("repaired student document missing identity fields")
	r.recorder.RecordRepair(docID, "synthesized student identity from identifier")
	return student, nil
}

// Save upserts the student document.
func (r *Repository) Save(student *entities.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	student.EnrolledClassIDs = entities.EncodeStringSlice(student.EnrolledClassIDs)

	id := store.NewID(entities.TypeStudent, NaturalKey(student.FirstName, student.LastName))
	body := map[string]any{
		"type":             entities.TypeStudent,
		"firstName":        student.FirstName,
		"lastName":         student.LastName,
		"recoveryCode":     student.RecoveryCode,
		"enrolledClassIds": student.EnrolledClassIDs,
		"createdAt":        entities.EncodeTime(student.CreatedAt),
		"updatedAt":        entities.EncodeTime(student.UpdatedAt),
	}
	if err := r.docs.Put(id, body); err != nil {
		return fmt.Errorf("save student %s: %w", id, err)
	}
	return nil
}

// Delete removes the student for the given name. Returns false when no such
// student existed.
func (r *Repository) Delete(firstName, lastName string) (bool, error) {
	return r.docs.Delete(store.NewID(entities.TypeStudent, NaturalKey(firstName, lastName)))
}

// Count returns the number of stored students.
func (r *Repository) Count() (int64, error) {
	return r.docs.Count(entities.TypeStudent)
}

// SearchByName returns students whose first or last name contains the
// substring, case-insensitively.
func (r *Repository) SearchByName(substring string) ([]entities.Student, error) {
	docs, err := r.docs.Query(entities.TypeStudent, store.Or(
		store.FieldContainsFold("firstName", substring),
		store.FieldContainsFold("lastName", substring),
	))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

// GetAll returns every stored student.
func (r *Repository) GetAll() ([]entities.Student, error) {
	docs, err := r.docs.All(entities.TypeStudent)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

func decode(body map[string]any) *entities.Student {
	return &entities.Student{
		FirstName:        entities.StringField(body, "firstName"),
		LastName:         entities.StringField(body, "lastName"),
		RecoveryCode:     entities.StringField(body, "recoveryCode"),
		EnrolledClassIDs: entities.StringSliceField(body, "enrolledClassIds"),
		CreatedAt:        entities.TimeField(body, "createdAt"),
		UpdatedAt:        entities.TimeField(body, "updatedAt"),
	}
}

func decodeAll(docs []store.Document) []entities.Student {
	students := make([]entities.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, *decode(doc.Body))
	}
	return students
}

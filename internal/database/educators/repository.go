// Package educators provides document store operations for educator
// accounts. Educators are keyed by phone number, never by name.
package educators

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/audit"
	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/store"
)

// Repository handles all educator document operations under the "educator"
// type tag.
type Repository struct {
	docs     *store.Store
	recorder *audit.Recorder
	log      zerolog.Logger
}

// NewRepository creates a new educators repository. The recorder may be nil.
func NewRepository(docs *store.Store, recorder *audit.Recorder, log zerolog.Logger) *Repository {
	return &Repository{docs: docs, recorder: recorder, log: log}
}

// NaturalKey normalises a phone number into the identifier key: digits and a
// leading plus only.
func NaturalKey(phoneNumber string) string {
	var b strings.Builder
	for i, r := range phoneNumber {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GetByPhone returns the educator for the given phone number, or nil when
// absent. A document missing its identity fields is repaired from the
// identifier and re-persisted.
func (r *Repository) GetByPhone(phoneNumber string) (*entities.Educator, error) {
	key := NaturalKey(phoneNumber)
	doc, err := r.docs.Get(store.NewID(entities.TypeEducator, key))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	educator := decode(doc.Body)
	if educator.PhoneNumber == "" {
		return r.repair(key, educator)
	}
	return educator, nil
}

func (r *Repository) repair(key string, educator *entities.Educator) (*entities.Educator, error) {
	educator.PhoneNumber = key

	if err := r.Save(educator); err != nil {
		return nil, fmt.Errorf("repair educator %s: %w", key, err)
	}

	docID := store.NewID(entities.TypeEducator, key).String()
	r.log.Warn().Str("document_id", docID).Msg("repaired educator document missing phone number")
	r.recorder.RecordRepair(docID, "synthesized educator identity from identifier")
	return educator, nil
}

// Save upserts the educator document.
func (r *Repository) Save(educator *entities.Educator) error {
	now := time.Now().UTC()
	if educator.CreatedAt.IsZero() {
		educator.CreatedAt = now
	}
	educator.UpdatedAt = now
	educator.ClassIDs = entities.EncodeStringSlice(educator.ClassIDs)

	id := store.NewID(entities.TypeEducator, NaturalKey(educator.PhoneNumber))
	body := map[string]any{
		"type":          entities.TypeEducator,
		"fullName":      educator.FullName,
		"age":           educator.Age,
		"currentJob":    educator.CurrentJob,
		"instituteName": educator.InstituteName,
		"phoneNumber":   educator.PhoneNumber,
		"verified":      educator.Verified,
		"recoveryCode":  educator.RecoveryCode,
		"classIds":      educator.ClassIDs,
		"createdAt":     entities.EncodeTime(educator.CreatedAt),
		"updatedAt":     entities.EncodeTime(educator.UpdatedAt),
	}
	if err := r.docs.Put(id, body); err != nil {
		return fmt.Errorf("save educator %s: %w", id, err)
	}
	return nil
}

// Delete removes the educator for the given phone number. Returns false when
// absent.
func (r *Repository) Delete(phoneNumber string) (bool, error) {
	return r.docs.Delete(store.NewID(entities.TypeEducator, NaturalKey(phoneNumber)))
}

// Count returns the number of stored educators.
func (r *Repository) Count() (int64, error) {
	return r.docs.Count(entities.TypeEducator)
}

// SearchByName returns educators whose full name contains the substring,
// case-insensitively.
func (r *Repository) SearchByName(substring string) ([]entities.Educator, error) {
	docs, err := r.docs.Query(entities.TypeEducator, store.FieldContainsFold("fullName", substring))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

// GetAll returns every stored educator.
func (r *Repository) GetAll() ([]entities.Educator, error) {
	docs, err := r.docs.All(entities.TypeEducator)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

func decode(body map[string]any) *entities.Educator {
	return &entities.Educator{
		FullName:      entities.StringField(body, "fullName"),
		Age:           entities.IntField(body, "age"),
		CurrentJob:    entities.StringField(body, "currentJob"),
		InstituteName: entities.StringField(body, "instituteName"),
		PhoneNumber:   entities.StringField(body, "phoneNumber"),
		Verified:      entities.BoolField(body, "verified"),
		RecoveryCode:  entities.StringField(body, "recoveryCode"),
		ClassIDs:      entities.StringSliceField(body, "classIds"),
		CreatedAt:     entities.TimeField(body, "createdAt"),
		UpdatedAt:     entities.TimeField(body, "updatedAt"),
	}
}

func decodeAll(docs []store.Document) []entities.Educator {
	educators := make([]entities.Educator, 0, len(docs))
	for _, doc := range docs {
		educators = append(educators, *decode(doc.Body))
	}
	return educators
}

// Package klyps provides document store operations for learning units.
package klyps

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/store"
)

// Repository handles all klyp document operations under the "klyp" type tag.
type Repository struct {
	docs *store.Store
	log  zerolog.Logger
}

// NewRepository creates a new klyps repository.
func NewRepository(docs *store.Store, log zerolog.Logger) *Repository {
	return &Repository{docs: docs, log: log}
}

// GetByID returns the klyp for the given id, or nil when absent.
func (r *Repository) GetByID(id string) (*entities.Klyp, error) {
	doc, err := r.docs.Get(store.NewID(entities.TypeKlyp, id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return decode(doc), nil
}

// Save validates and upserts the klyp document. A klyp with a malformed
// question is rejected before anything reaches the store, so failed saves
// never partially persist.
func (r *Repository) Save(klyp *entities.Klyp) error {
	if err := klyp.Validate(); err != nil {
		return err
	}

	if klyp.ID == "" {
		klyp.ID = uuid.NewString()
	}
	if klyp.CreatedAt.IsZero() {
		klyp.CreatedAt = time.Now().UTC()
	}

	questions := make([]map[string]any, 0, len(klyp.Questions))
	for _, q := range klyp.Questions {
		questions = append(questions, map[string]any{
			"questionText":  q.QuestionText,
			"options":       q.Options,
			"correctAnswer": q.CorrectAnswer,
		})
	}

	id := store.NewID(entities.TypeKlyp, klyp.ID)
	body := map[string]any{
		"type":      entities.TypeKlyp,
		"classCode": klyp.ClassCode,
		"title":     klyp.Title,
		"mainBody":  klyp.MainBody,
		"questions": questions,
		"createdAt": entities.EncodeTime(klyp.CreatedAt),
	}
	if err := r.docs.Put(id, body); err != nil {
		return fmt.Errorf("save klyp %s: %w", id, err)
	}
	return nil
}

// Delete removes the klyp for the given id. Returns false when absent.
func (r *Repository) Delete(id string) (bool, error) {
	return r.docs.Delete(store.NewID(entities.TypeKlyp, id))
}

// Count returns the number of stored klyps.
func (r *Repository) Count() (int64, error) {
	return r.docs.Count(entities.TypeKlyp)
}

// ListByClassCode returns all klyps belonging to the class.
func (r *Repository) ListByClassCode(classCode string) ([]entities.Klyp, error) {
	docs, err := r.docs.Query(entities.TypeKlyp, store.FieldEquals("classCode", classCode))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

// ListByClassCodes returns all klyps belonging to any of the classes.
func (r *Repository) ListByClassCodes(classCodes []string) ([]entities.Klyp, error) {
	docs, err := r.docs.Query(entities.TypeKlyp, store.FieldIn("classCode", classCodes))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

// GetAll returns every stored klyp.
func (r *Repository) GetAll() ([]entities.Klyp, error) {
	docs, err := r.docs.All(entities.TypeKlyp)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

func decode(doc *store.Document) *entities.Klyp {
	body := doc.Body
	rawQuestions := entities.MapSliceField(body, "questions")
	questions := make([]entities.Question, 0, len(rawQuestions))
	for _, raw := range rawQuestions {
		questions = append(questions, entities.Question{
			QuestionText:  entities.StringField(raw, "questionText"),
			Options:       entities.StringSliceField(raw, "options"),
			CorrectAnswer: entities.StringField(raw, "correctAnswer"),
		})
	}
	return &entities.Klyp{
		ID:        doc.ID.NaturalKey(),
		ClassCode: entities.StringField(body, "classCode"),
		Title:     entities.StringField(body, "title"),
		MainBody:  entities.StringField(body, "mainBody"),
		Questions: questions,
		CreatedAt: entities.TimeField(body, "createdAt"),
	}
}

func decodeAll(docs []store.Document) []entities.Klyp {
	klyps := make([]entities.Klyp, 0, len(docs))
	for i := range docs {
		klyps = append(klyps, *decode(&docs[i]))
	}
	return klyps
}

// Package summaries provides document store operations for chat session
// summaries. Summaries are produced elsewhere; this layer only persists,
// updates and lists them.
package summaries

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/store"
)

// Repository handles all chat summary document operations under the
// "summary" type tag.
type Repository struct {
	docs *store.Store
	log  zerolog.Logger
}

// NewRepository creates a new summaries repository.
func NewRepository(docs *store.Store, log zerolog.Logger) *Repository {
	return &Repository{docs: docs, log: log}
}

// GetByID returns the summary for the given id, or nil when absent.
func (r *Repository) GetByID(id string) (*entities.ChatSummary, error) {
	doc, err := r.docs.Get(store.NewID(entities.TypeSummary, id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return decode(doc), nil
}

// Save upserts the summary, assigning an id when the summary has none yet.
func (r *Repository) Save(summary *entities.ChatSummary) error {
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = now
	}
	summary.UpdatedAt = now

	id := store.NewID(entities.TypeSummary, summary.ID)
	body := map[string]any{
		"type":               entities.TypeSummary,
		"sessionTitle":       summary.SessionTitle,
		"bulletPointSummary": summary.BulletPointSummary,
		"userId":             summary.UserID,
		"role":               string(summary.Role),
		"classCode":          summary.ClassCode,
		"createdAt":          entities.EncodeTime(summary.CreatedAt),
		"updatedAt":          entities.EncodeTime(summary.UpdatedAt),
	}
	if err := r.docs.Put(id, body); err != nil {
		return fmt.Errorf("save summary %s: %w", id, err)
	}
	return nil
}

// Delete removes the summary for the given id. Returns false when absent.
func (r *Repository) Delete(id string) (bool, error) {
	return r.docs.Delete(store.NewID(entities.TypeSummary, id))
}

// Count returns the number of stored summaries.
func (r *Repository) Count() (int64, error) {
	return r.docs.Count(entities.TypeSummary)
}

// ListForOwner returns all summaries belonging to the given user and role.
func (r *Repository) ListForOwner(userID string, role entities.Role) ([]entities.ChatSummary, error) {
	docs, err := r.docs.Query(entities.TypeSummary, store.And(
		store.FieldEquals("userId", userID),
		store.FieldEquals("role", string(role)),
	))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

// ListByClassCode returns all summaries attached to the class.
func (r *Repository) ListByClassCode(classCode string) ([]entities.ChatSummary, error) {
	docs, err := r.docs.Query(entities.TypeSummary, store.FieldEquals("classCode", classCode))
	if err != nil {
		return nil, err
	}
	return decodeAll(docs), nil
}

func decode(doc *store.Document) *entities.ChatSummary {
	body := doc.Body
	return &entities.ChatSummary{
		ID:                 doc.ID.NaturalKey(),
		SessionTitle:       entities.StringField(body, "sessionTitle"),
		BulletPointSummary: entities.StringField(body, "bulletPointSummary"),
		UserID:             entities.StringField(body, "userId"),
		Role:               entities.Role(entities.StringField(body, "role")),
		ClassCode:          entities.StringField(body, "classCode"),
		CreatedAt:          entities.TimeField(body, "createdAt"),
		UpdatedAt:          entities.TimeField(body, "updatedAt"),
	}
}

func decodeAll(docs []store.Document) []entities.ChatSummary {
	summaries := make([]entities.ChatSummary, 0, len(docs))
	for i := range docs {
		summaries = append(summaries, *decode(&docs[i]))
	}
	return summaries
}

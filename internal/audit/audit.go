// Package audit keeps a local trail of data-repair and authentication events.
//
// Self-healing document repairs and offline logins are deliberate recovery
// paths, not bugs; the trail is what makes them observable and testable after
// the fact.
package audit

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type EventType string

const (
	EventRepair EventType = "repair"
	EventLogin  EventType = "login"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Event is a single audit trail entry.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventType   EventType `gorm:"index;size:32" json:"event_type"`
	UserID      string    `gorm:"index;size:256" json:"user_id"`
	DocumentID  string    `gorm:"index;size:512" json:"document_id,omitempty"`
	Description string    `gorm:"size:500" json:"description"`
	Offline     bool      `json:"offline"`
	Status      Status    `gorm:"size:20" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Event) TableName() string {
	return "audit_events"
}

// Recorder writes audit events. It shares the document store's database file
// but owns its own table.
type Recorder struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewRecorder migrates the audit table and returns a recorder.
func NewRecorder(db *gorm.DB, log zerolog.Logger) (*Recorder, error) {
	if err := db.AutoMigrate(&Event{}); err != nil {
		return nil, err
	}
	return &Recorder{db: db, log: log}, nil
}

// Record persists an audit event.
func (r *Recorder) Record(event *Event) error {
	if r == nil {
		return nil
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Status == "" {
		event.Status = StatusSuccess
	}
	return r.db.Create(event).Error
}

// RecordRepair notes a self-healing rewrite of the named document. Failures
// to record are logged, never propagated: the repair itself already happened.
func (r *Recorder) RecordRepair(documentID, description string) {
	if r == nil {
		return
	}
	err := r.Record(&Event{
		EventType:   EventRepair,
		DocumentID:  documentID,
		Description: description,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("document_id", documentID).Msg("failed to record repair event")
	}
}

// RecordLogin notes a completed login, offline or online.
func (r *Recorder) RecordLogin(userID string, offline bool) {
	if r == nil {
		return
	}
	err := r.Record(&Event{
		EventType:   EventLogin,
		UserID:      userID,
		Description: "login",
		Offline:     offline,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("failed to record login event")
	}
}

// Events returns the most recent events, newest first.
func (r *Recorder) Events(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []Event
	err := r.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// DeleteOlderThan removes events past the retention window and returns how
// many were removed.
func (r *Recorder) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := r.db.Where("created_at < ?", cutoff).Delete(&Event{})
	return result.RowsAffected, result.Error
}

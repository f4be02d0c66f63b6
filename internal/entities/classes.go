package entities

import "time"

// ClassDocument is a class roster. The internal ID is an opaque UUID; the
// classCode is the short human-shared join key students use to enrol.
type ClassDocument struct {
	ID           string    `json:"-"`
	ClassCode    string    `json:"classCode"`
	ClassTitle   string    `json:"classTitle"`
	EducatorID   string    `json:"educatorId"`
	StudentIDs   []string  `json:"studentIds"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitempty"`
}

// ChatSummary is a persisted chat session summary produced by an external
// summariser. This layer only stores and lists them.
type ChatSummary struct {
	ID                 string    `json:"-"`
	SessionTitle       string    `json:"sessionTitle"`
	BulletPointSummary string    `json:"bulletPointSummary"`
	UserID             string    `json:"userId"`
	Role               Role      `json:"role"`
	ClassCode          string    `json:"classCode,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

package entities

import "time"

// Role identifies which kind of account is signed in.
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleEducator Role = "EDUCATOR"
)

// Valid reports whether the role is one of the known account kinds.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleEducator
}

// Document type tags. Every persisted document carries one of these in its
// "type" field and as the prefix of its identifier.
const (
	TypeStudent  = "student"
	TypeEducator = "educator"
	TypeClass    = "class"
	TypeKlyp     = "klyp"
	TypeSummary  = "summary"
)

// Student is a learner account. Students are identified by name: the document
// identifier is student::{firstName}_{lastName}, lowercased. Two students
// sharing a name share a document; that merge behaviour is deliberate and
// documented, not accidental.
type Student struct {
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	RecoveryCode     string    `json:"recoveryCode,omitempty"`
	EnrolledClassIDs []string  `json:"enrolledClassIds"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Educator is a teaching account. Educators are identified by their full
// phone number (country code included), never by name.
type Educator struct {
	FullName      string    `json:"fullName"`
	Age           int       `json:"age,omitempty"`
	CurrentJob    string    `json:"currentJob,omitempty"`
	InstituteName string    `json:"instituteName,omitempty"`
	PhoneNumber   string    `json:"phoneNumber"`
	Verified      bool      `json:"verified"`
	RecoveryCode  string    `json:"recoveryCode,omitempty"`
	ClassIDs      []string  `json:"classIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

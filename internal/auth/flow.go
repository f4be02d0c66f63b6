// Package auth orchestrates login: remote-first, with a transparent fallback
// to the locally persisted account when the network is unavailable.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/audit"
	"github.com/klyphq/klypstore/internal/database/educators"
	"github.com/klyphq/klypstore/internal/database/students"
	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/remote"
	"github.com/klyphq/klypstore/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLoginFailed means both the remote and the local path were
	// exhausted. The wrapping message is role-specific and safe to show.
	ErrLoginFailed = errors.New("login failed")
)

const (
	studentLoginFailedMsg  = "we couldn't sign you in: no account found for that name on this device, and the Klyp service can't be reached"
	educatorLoginFailedMsg = "we couldn't sign you in: educators must sign up online first, and the Klyp service can't be reached"
)

// RemoteAuthenticator is the consumed remote login contract.
type RemoteAuthenticator interface {
	Login(ctx context.Context, req remote.LoginRequest) (*remote.LoginResponse, error)
}

// StudentStore is the slice of the students repository the flow needs.
type StudentStore interface {
	GetByName(firstName, lastName string) (*entities.Student, error)
	Save(student *entities.Student) error
}

// EducatorStore is the slice of the educators repository the flow needs.
type EducatorStore interface {
	GetByPhone(phoneNumber string) (*entities.Educator, error)
	Save(educator *entities.Educator) error
}

// CredentialStore persists the identity and token for later restoration.
type CredentialStore interface {
	SaveStudentIdentity(firstName, lastName string) error
	SaveEducatorIdentity(phone, fullName string) error
	SaveToken(token string) error
	ClearAll() error
}

// Credentials are the login inputs. Students supply a name; educators a
// phone number.
type Credentials struct {
	Role      entities.Role
	FirstName string
	LastName  string
	Phone     string
	FullName  string
}

// Result is a completed login. Offline is true when the session was
// satisfied from the local record alone, so the UI can show a degraded-mode
// indicator; an offline login is a success, not an error.
type Result struct {
	UserID  string
	Role    entities.Role
	Offline bool
}

// Flow orchestrates the two-phase (online-then-offline) login protocol.
type Flow struct {
	remote    RemoteAuthenticator
	students  StudentStore
	educators EducatorStore
	creds     CredentialStore
	session   *session.Context
	recorder  *audit.Recorder
	log       zerolog.Logger
}

// NewFlow creates an authentication flow. The recorder may be nil.
func NewFlow(
	remoteAuth RemoteAuthenticator,
	studentStore StudentStore,
	educatorStore EducatorStore,
	credStore CredentialStore,
	sessionCtx *session.Context,
	recorder *audit.Recorder,
	log zerolog.Logger,
) *Flow {
	return &Flow{
		remote:    remoteAuth,
		students:  studentStore,
		educators: educatorStore,
		creds:     credStore,
		session:   sessionCtx,
		recorder:  recorder,
		log:       log,
	}
}

// Login runs the login protocol for the given credentials. The context
// bounds only the remote attempt; local store operations are not
// cancellable.
func (f *Flow) Login(ctx context.Context, creds Credentials) (*Result, error) {
	switch creds.Role {
	case entities.RoleStudent:
		return f.loginStudent(ctx, creds)
	case entities.RoleEducator:
		return f.loginEducator(ctx, creds)
	default:
		return nil, fmt.Errorf("unknown role %q: %w", creds.Role, ErrInvalidCredentials)
	}
}

// Logout clears the session and all persisted credentials.
func (f *Flow) Logout() error {
	f.session.Clear()
	if err := f.creds.ClearAll(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (f *Flow) loginStudent(ctx context.Context, creds Credentials) (*Result, error) {
	if creds.FirstName == "" || creds.LastName == "" {
		return nil, fmt.Errorf("student login needs a first and last name: %w", ErrInvalidCredentials)
	}

	local, err := f.students.GetByName(creds.FirstName, creds.LastName)
	if err != nil {
		f.log.Warn().Err(err).Msg("local student lookup failed before login")
	}

	resp, remoteErr := f.remote.Login(ctx, remote.LoginRequest{
		FirstName: creds.FirstName,
		LastName:  creds.LastName,
	})

	key := students.NaturalKey(creds.FirstName, creds.LastName)

	if remoteErr == nil {
		student := local
		if student == nil {
			student = &entities.Student{FirstName: creds.FirstName, LastName: creds.LastName}
		}
		if err := f.students.Save(student); err != nil {
			return nil, fmt.Errorf("persist student after remote login: %w", err)
		}
		if err := f.creds.SaveToken(resp.Token); err != nil {
			return nil, fmt.Errorf("persist token: %w", err)
		}
		if err := f.creds.SaveStudentIdentity(creds.FirstName, creds.LastName); err != nil {
			return nil, fmt.Errorf("persist identity: %w", err)
		}
		return f.finish(key, entities.RoleStudent, false), nil
	}

	if local != nil {
		if err := f.creds.SaveStudentIdentity(creds.FirstName, creds.LastName); err != nil {
			return nil, fmt.Errorf("persist identity: %w", err)
		}
		f.log.Info().Str("user_id", key).Msg("remote login unavailable, using local student record")
		return f.finish(key, entities.RoleStudent, true), nil
	}

	f.log.Info().Err(remoteErr).Str("user_id", key).Msg("login failed: remote unavailable and no local record")
	return nil, fmt.Errorf("%s: %w", studentLoginFailedMsg, ErrLoginFailed)
}

func (f *Flow) loginEducator(ctx context.Context, creds Credentials) (*Result, error) {
	if creds.Phone == "" {
		return nil, fmt.Errorf("educator login needs a phone number: %w", ErrInvalidCredentials)
	}

	local, err := f.educators.GetByPhone(creds.Phone)
	if err != nil {
		f.log.Warn().Err(err).Msg("local educator lookup failed before login")
	}

	// Educators authenticate by phone; the remote contract carries the
	// phone number in the firstName slot.
	resp, remoteErr := f.remote.Login(ctx, remote.LoginRequest{FirstName: creds.Phone})

	key := educators.NaturalKey(creds.Phone)

	if remoteErr == nil {
		educator := local
		if educator == nil {
			educator = &entities.Educator{PhoneNumber: creds.Phone}
		}
		if resp.FullName != "" {
			educator.FullName = resp.FullName
		} else if educator.FullName == "" {
			educator.FullName = creds.FullName
		}
		educator.Verified = educator.Verified || resp.Verified
		if err := f.educators.Save(educator); err != nil {
			return nil, fmt.Errorf("persist educator after remote login: %w", err)
		}
		if err := f.creds.SaveToken(resp.Token); err != nil {
			return nil, fmt.Errorf("persist token: %w", err)
		}
		if err := f.creds.SaveEducatorIdentity(creds.Phone, educator.FullName); err != nil {
			return nil, fmt.Errorf("persist identity: %w", err)
		}
		return f.finish(key, entities.RoleEducator, false), nil
	}

	if local != nil {
		if err := f.creds.SaveEducatorIdentity(creds.Phone, local.FullName); err != nil {
			return nil, fmt.Errorf("persist identity: %w", err)
		}
		f.log.Info().Str("user_id", key).Msg("remote login unavailable, using local educator record")
		return f.finish(key, entities.RoleEducator, true), nil
	}

	f.log.Info().Err(remoteErr).Str("user_id", key).Msg("login failed: remote unavailable and no local record")
	return nil, fmt.Errorf("%s: %w", educatorLoginFailedMsg, ErrLoginFailed)
}

func (f *Flow) finish(userID string, role entities.Role, offline bool) *Result {
	f.session.SetCurrentUser(userID, role)
	f.recorder.RecordLogin(userID, offline)
	return &Result{UserID: userID, Role: role, Offline: offline}
}

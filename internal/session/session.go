// Package session tracks who is using the app for the lifetime of the
// process, and restores that identity from local credentials across process
// restarts.
package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/credentials"
	"github.com/klyphq/klypstore/internal/database/educators"
	"github.com/klyphq/klypstore/internal/database/students"
	"github.com/klyphq/klypstore/internal/entities"
)

// ErrNoAuthenticatedUser means no user is signed in and no persisted identity
// could be restored. The caller must route to login, not retry.
var ErrNoAuthenticatedUser = errors.New("no authenticated user")

// StudentDirectory resolves a persisted student identity to a stored entity.
type StudentDirectory interface {
	GetByName(firstName, lastName string) (*entities.Student, error)
}

// EducatorDirectory resolves a persisted educator identity to a stored
// entity.
type EducatorDirectory interface {
	GetByPhone(phoneNumber string) (*entities.Educator, error)
}

// CredentialSource reads the locally persisted identity.
type CredentialSource interface {
	Identity() (*credentials.Identity, error)
}

// Context is the single source of truth for the signed-in user. It starts
// Anonymous; login sets it Authenticated, logout clears it. Accessors attempt
// restoration from persisted credentials before failing.
type Context struct {
	mu            sync.RWMutex
	userID        string
	role          entities.Role
	authenticated bool

	creds     CredentialSource
	students  StudentDirectory
	educators EducatorDirectory
	log       zerolog.Logger
}

// New creates an Anonymous session context.
func New(creds CredentialSource, studentDir StudentDirectory, educatorDir EducatorDirectory, log zerolog.Logger) *Context {
	return &Context{
		creds:     creds,
		students:  studentDir,
		educators: educatorDir,
		log:       log,
	}
}

// SetCurrentUser transitions to Authenticated. Called by the authentication
// flow after a successful login, online or offline.
func (c *Context) SetCurrentUser(userID string, role entities.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.role = role
	c.authenticated = true
}

// Clear transitions back to Anonymous. Called on logout. Persisted
// credentials are owned by the caller; Clear only forgets in-memory state.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = ""
	c.role = ""
	c.authenticated = false
}

// CurrentUserID returns the signed-in user's id, restoring a persisted
// identity if needed. Fails with ErrNoAuthenticatedUser when neither exists.
func (c *Context) CurrentUserID() (string, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, nil
}

// CurrentUserRole returns the signed-in user's role, restoring a persisted
// identity if needed.
func (c *Context) CurrentUserRole() (entities.Role, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role, nil
}

// Authenticated reports whether a user is currently signed in, without
// attempting restoration.
func (c *Context) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

func (c *Context) ensureAuthenticated() error {
	c.mu.RLock()
	ok := c.authenticated
	c.mu.RUnlock()
	if ok {
		return nil
	}
	return c.restore()
}

// restore reads the persisted identity and confirms the referenced entity
// still exists before transitioning to Authenticated. Idempotent and
// side-effect-free on failure: a failed restore never clears credentials.
// Local evidence is sufficient; no server-issued token is required.
func (c *Context) restore() error {
	identity, err := c.creds.Identity()
	if err != nil {
		c.log.Warn().Err(err).Msg("session restore: credential read failed")
		return ErrNoAuthenticatedUser
	}
	if identity == nil {
		return ErrNoAuthenticatedUser
	}

	switch identity.Role {
	case entities.RoleStudent:
		student, err := c.students.GetByName(identity.FirstName, identity.LastName)
		if err != nil || student == nil {
			return ErrNoAuthenticatedUser
		}
		key := students.NaturalKey(student.FirstName, student.LastName)
		c.SetCurrentUser(key, entities.RoleStudent)
		c.log.Info().Str("user_id", key).Msg("session restored from local credentials")
		return nil

	case entities.RoleEducator:
		educator, err := c.educators.GetByPhone(identity.Phone)
		if err != nil || educator == nil {
			return ErrNoAuthenticatedUser
		}
		key := educators.NaturalKey(educator.PhoneNumber)
		c.SetCurrentUser(key, entities.RoleEducator)
		c.log.Info().Str("user_id", key).Msg("session restored from local credentials")
		return nil
	}

	return ErrNoAuthenticatedUser
}

package session

import "github.com/klyphq/klypstore/internal/entities"

// SetCurrentUserForTesting forces the session into the Authenticated state
// without credentials or a repository lookup. Test-only: production code must
// go through the authentication flow.
func (c *Context) SetCurrentUserForTesting(userID string, role entities.Role) {
	c.SetCurrentUser(userID, role)
}

package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/klyphq/klypstore/internal/auth"
	"github.com/klyphq/klypstore/internal/credentials"
	"github.com/klyphq/klypstore/internal/database/educators"
	"github.com/klyphq/klypstore/internal/database/students"
	"github.com/klyphq/klypstore/internal/remote"
	"github.com/klyphq/klypstore/internal/session"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Student directory implementations
var _ session.StudentDirectory = (*students.Repository)(nil)
var _ auth.StudentStore = (*students.Repository)(nil)

// Educator directory implementations
var _ session.EducatorDirectory = (*educators.Repository)(nil)
var _ auth.EducatorStore = (*educators.Repository)(nil)

// =============================================================================
// Credential Storage
// =============================================================================

var _ session.CredentialSource = (*credentials.Store)(nil)
var _ auth.CredentialStore = (*credentials.Store)(nil)

// =============================================================================
// External Services
// =============================================================================

// RemoteAuthenticator implementations
var _ auth.RemoteAuthenticator = (*remote.Client)(nil)

package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klyphq/klypstore/internal/credentials"
	"github.com/klyphq/klypstore/internal/database/educators"
	"github.com/klyphq/klypstore/internal/database/students"
	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/remote"
	"github.com/klyphq/klypstore/internal/session"
	"github.com/klyphq/klypstore/internal/store"
)

type fakeRemote struct {
	response *remote.LoginResponse
	err      error
	lastReq  remote.LoginRequest
	calls    int
}

func (f *fakeRemote) Login(_ context.Context, req remote.LoginRequest) (*remote.LoginResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fixture struct {
	flow      *Flow
	remote    *fakeRemote
	students  *students.Repository
	educators *educators.Repository
	creds     *credentials.Store
	session   *session.Context
}

func setupTestFlow(t *testing.T) *fixture {
	dbPath := "./test_auth_" + t.Name() + ".db"

	docs, err := store.Open(t.Name(), dbPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		os.Remove(dbPath)
	})

	dir := t.TempDir()
	creds, err := credentials.New(credentials.Config{
		DatabasePath: filepath.Join(dir, "credentials.db"),
		KeyFilePath:  filepath.Join(dir, "key"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { creds.Close() })

	studentRepo := students.NewRepository(docs, nil, zerolog.Nop())
	educatorRepo := educators.NewRepository(docs, nil, zerolog.Nop())
	sessionCtx := session.New(creds, studentRepo, educatorRepo, zerolog.Nop())
	remoteAuth := &fakeRemote{}

	flow := NewFlow(remoteAuth, studentRepo, educatorRepo, creds, sessionCtx, nil, zerolog.Nop())

	return &fixture{
		flow:      flow,
		remote:    remoteAuth,
		students:  studentRepo,
		educators: educatorRepo,
		creds:     creds,
		session:   sessionCtx,
	}
}

func TestFlow_StudentOnlineLoginPersistsLocally(t *testing.T) {
	fx := setupTestFlow(t)
	fx.remote.response = &remote.LoginResponse{Token: "issued-token", FirstName: "Jane", LastName: "Doe"}

	result, err := fx.flow.Login(context.Background(), Credentials{
		Role:      entities.RoleStudent,
		FirstName: "Jane",
		LastName:  "Doe",
	})

	require.NoError(t, err)
	assert.Equal(t, "jane_doe", result.UserID)
	assert.Equal(t, entities.RoleStudent, result.Role)
	assert.False(t, result.Offline)

	student, err := fx.students.GetByName("Jane", "Doe")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Empty(t, student.EnrolledClassIDs)

	token, err := fx.creds.Token()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)

	id, err := fx.session.CurrentUserID()
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", id)
}

func TestFlow_StudentOfflineFallback(t *testing.T) {
	fx := setupTestFlow(t)

	require.NoError(t, fx.students.Save(&entities.Student{FirstName: "Alice", LastName: "Smith"}))
	fx.remote.err = remote.ErrRemoteUnavailable

	result, err := fx.flow.Login(context.Background(), Credentials{
		Role:      entities.RoleStudent,
		FirstName: "Alice",
		LastName:  "Smith",
	})

	require.NoError(t, err)
	assert.True(t, result.Offline)
	assert.Equal(t, "alice_smith", result.UserID)

	role, err := fx.session.CurrentUserRole()
	require.NoError(t, err)
	assert.Equal(t, entities.RoleStudent, role)
}

func TestFlow_StudentNoLocalRecordFailsHard(t *testing.T) {
	fx := setupTestFlow(t)
	fx.remote.err = remote.ErrRemoteUnavailable

	_, err := fx.flow.Login(context.Background(), Credentials{
		Role:      entities.RoleStudent,
		FirstName: "Bob",
		LastName:  "Nobody",
	})

	require.ErrorIs(t, err, ErrLoginFailed)
	assert.Contains(t, err.Error(), "no account found for that name")
	assert.False(t, fx.session.Authenticated())
}

func TestFlow_EducatorPhoneCarriedInFirstNameSlot(t *testing.T) {
	fx := setupTestFlow(t)
	fx.remote.response = &remote.LoginResponse{Token: "issued-token", FullName: "Mary Major", Verified: true}

	result, err := fx.flow.Login(context.Background(), Credentials{
		Role:  entities.RoleEducator,
		Phone: "+447700900123",
	})

	require.NoError(t, err)
	assert.False(t, result.Offline)
	assert.Equal(t, "+447700900123", result.UserID)

	// The remote contract puts the phone in the firstName slot.
	assert.Equal(t, "+447700900123", fx.remote.lastReq.FirstName)
	assert.Empty(t, fx.remote.lastReq.LastName)

	educator, err := fx.educators.GetByPhone("+447700900123")
	require.NoError(t, err)
	require.NotNil(t, educator)
	assert.Equal(t, "Mary Major", educator.FullName)
	assert.True(t, educator.Verified)
}

func TestFlow_EducatorOfflineFallback(t *testing.T) {
	fx := setupTestFlow(t)

	require.NoError(t, fx.educators.Save(&entities.Educator{
		FullName:    "Mary Major",
		PhoneNumber: "+447700900123",
	}))
	fx.remote.err = remote.ErrRemoteUnavailable

	result, err := fx.flow.Login(context.Background(), Credentials{
		Role:  entities.RoleEducator,
		Phone: "+447700900123",
	})

	require.NoError(t, err)
	assert.True(t, result.Offline)
}

func TestFlow_EducatorNoLocalRecordFailsWithEducatorMessage(t *testing.T) {
	fx := setupTestFlow(t)
	fx.remote.err = remote.ErrRemoteUnavailable

	_, err := fx.flow.Login(context.Background(), Credentials{
		Role:  entities.RoleEducator,
		Phone: "+15550000000",
	})

	require.ErrorIs(t, err, ErrLoginFailed)
	assert.Contains(t, err.Error(), "educators must sign up online first")
}

func TestFlow_RejectsUnknownRole(t *testing.T) {
	fx := setupTestFlow(t)

	_, err := fx.flow.Login(context.Background(), Credentials{Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFlow_Logout(t *testing.T) {
	fx := setupTestFlow(t)
	fx.remote.response = &remote.LoginResponse{Token: "issued-token"}

	_, err := fx.flow.Login(context.Background(), Credentials{
		Role:      entities.RoleStudent,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	require.NoError(t, fx.flow.Logout())

	assert.False(t, fx.session.Authenticated())

	identity, err := fx.creds.Identity()
	require.NoError(t, err)
	assert.Nil(t, identity)
}

// A student who signed in once online can sign in again with the network
// gone, and the restored session matches.
func TestFlow_OnlineThenOfflineEndToEnd(t *testing.T) {
	fx := setupTestFlow(t)
	fx.remote.response = &remote.LoginResponse{Token: "issued-token"}

	first, err := fx.flow.Login(context.Background(), Credentials{
		Role:      entities.RoleStudent,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.False(t, first.Offline)

	// The process "restarts": session forgets, credentials survive.
	fx.session.Clear()
	fx.remote.response = nil
	fx.remote.err = remote.ErrRemoteUnavailable

	second, err := fx.flow.Login(context.Background(), Credentials{
		Role:      entities.RoleStudent,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.True(t, second.Offline)
	assert.Equal(t, "jane_doe", second.UserID)

	id, err := fx.session.CurrentUserID()
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", id)

	role, err := fx.session.CurrentUserRole()
	require.NoError(t, err)
	assert.Equal(t, entities.RoleStudent, role)
}

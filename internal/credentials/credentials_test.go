package credentials

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klyphq/klypstore/internal/entities"
)

func setupTestStore(t *testing.T) *Store {
	dir := t.TempDir()

	store, err := New(Config{
		DatabasePath: filepath.Join(dir, "credentials.db"),
		KeyFilePath:  filepath.Join(dir, "key"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStore_NoIdentityReturnsNil(t *testing.T) {
	store := setupTestStore(t)

	identity, err := store.Identity()
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestStore_StudentIdentityRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveStudentIdentity("Jane", "Doe"))

	identity, err := store.Identity()
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, entities.RoleStudent, identity.Role)
	assert.Equal(t, "Jane", identity.FirstName)
	assert.Equal(t, "Doe", identity.LastName)
	assert.Empty(t, identity.Phone)
}

func TestStore_EducatorIdentityReplacesStudent(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveStudentIdentity("Jane", "Doe"))
	require.NoError(t, store.SaveEducatorIdentity("+447700900123", "Mary Major"))

	identity, err := store.Identity()
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, entities.RoleEducator, identity.Role)
	assert.Equal(t, "+447700900123", identity.Phone)
	assert.Equal(t, "Mary Major", identity.FullName)
	assert.Empty(t, identity.FirstName)
}

func TestStore_TokenRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SaveToken("remote-token"))

	token, err = store.Token()
	require.NoError(t, err)
	assert.Equal(t, "remote-token", token)
}

func TestStore_ValuesAreEncryptedAtRest(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveToken("remote-token"))

	var rec secret
	require.NoError(t, store.db.Where("key = ?", keyToken).First(&rec).Error)
	assert.NotEqual(t, "remote-token", rec.Value)
	assert.NotEmpty(t, rec.Value)
}

func TestStore_ClearAll(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveStudentIdentity("Jane", "Doe"))
	require.NoError(t, store.SaveToken("remote-token"))

	require.NoError(t, store.ClearAll())

	identity, err := store.Identity()
	require.NoError(t, err)
	assert.Nil(t, identity)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

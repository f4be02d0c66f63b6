package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *Encryptor {
	key, err := GenerateKey()
	require.NoError(t, err)

	enc, err := NewEncryptor(key)
	require.NoError(t, err)
	return enc
}

func TestEncryptor_RoundTrip(t *testing.T) {
	enc := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("jane_doe")
	require.NoError(t, err)
	assert.NotEqual(t, "jane_doe", ciphertext)

	plaintext, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", plaintext)
}

func TestEncryptor_EmptyString(t *testing.T) {
	enc := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	plaintext, err := enc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestEncryptor_TamperedCiphertextFails(t *testing.T) {
	enc := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("secret")
	require.NoError(t, err)

	_, err = enc.Decrypt("AAAA" + ciphertext[4:])
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptor_WrongKeyFails(t *testing.T) {
	enc := newTestEncryptor(t)
	other := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("secret")
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestNewEncryptor_RejectsShortKey(t *testing.T) {
	_, err := NewEncryptor("c2hvcnQ=") // "short"
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestLoadOrCreateKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")

	key, err := LoadOrCreateKeyFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Second load returns the same key.
	again, err := LoadOrCreateKeyFile(path)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

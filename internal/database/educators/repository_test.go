package educators

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/store"
)

func setupTestRepo(t *testing.T) (*Repository, *store.Store, func()) {
	dbPath := "./test_educators_" + t.Name() + ".db"

	docs, err := store.Open(t.Name(), dbPath, zerolog.Nop())
	require.NoError(t, err)

	repo := NewRepository(docs, nil, zerolog.Nop())

	cleanup := func() {
		docs.Close()
		os.Remove(dbPath)
	}

	return repo, docs, cleanup
}

func TestNaturalKey(t *testing.T) {
	assert.Equal(t, "+447700900123", NaturalKey("+44 7700 900123"))
	assert.Equal(t, "0777123456", NaturalKey("0777-123-456"))
}

func TestRepository_SaveAndGetByPhone(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	educator := &entities.Educator{
		FullName:      "Mary Major",
		Age:           41,
		CurrentJob:    "Teacher",
		InstituteName: "Northside High",
		PhoneNumber:   "+447700900123",
		Verified:      true,
		ClassIDs:      []string{"c1"},
	}
	require.NoError(t, repo.Save(educator))

	got, err := repo.GetByPhone("+44 7700 900123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mary Major", got.FullName)
	assert.Equal(t, 41, got.Age)
	assert.True(t, got.Verified)
	assert.Equal(t, []string{"c1"}, got.ClassIDs)
}

func TestRepository_GetAbsentReturnsNil(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	got, err := repo.GetByPhone("+15550000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_SelfHealingDecode(t *testing.T) {
	repo, docs, cleanup := setupTestRepo(t)
	defer cleanup()

	id := store.NewID(entities.TypeEducator, "+447700900123")
	require.NoError(t, docs.Put(id, map[string]any{"verified": true}))

	got, err := repo.GetByPhone("+447700900123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "+447700900123", got.PhoneNumber)
	assert.True(t, got.Verified)

	doc, err := docs.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "+447700900123", doc.Body["phoneNumber"])
}

func TestRepository_SearchByName(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Save(&entities.Educator{FullName: "Mary Major", PhoneNumber: "+15550000001"}))
	require.NoError(t, repo.Save(&entities.Educator{FullName: "John Minor", PhoneNumber: "+15550000002"}))

	results, err := repo.SearchByName("MAJ")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mary Major", results[0].FullName)
}

func TestRepository_DeleteAndCount(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Save(&entities.Educator{FullName: "Mary Major", PhoneNumber: "+15550000001"}))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.Delete("+1 555 000 0001")
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

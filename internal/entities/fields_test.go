package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringField(t *testing.T) {
	body := map[string]any{"name": "Jane", "age": 12}

	assert.Equal(t, "Jane", StringField(body, "name"))
	assert.Equal(t, "", StringField(body, "missing"))
	assert.Equal(t, "", StringField(body, "age"))
}

func TestIntFieldAcceptsJSONNumbers(t *testing.T) {
	body := map[string]any{"a": float64(41), "b": 7, "c": int64(9), "d": "nope"}

	assert.Equal(t, 41, IntField(body, "a"))
	assert.Equal(t, 7, IntField(body, "b"))
	assert.Equal(t, 9, IntField(body, "c"))
	assert.Equal(t, 0, IntField(body, "d"))
	assert.Equal(t, 0, IntField(body, "missing"))
}

func TestStringSliceField(t *testing.T) {
	body := map[string]any{
		"list":   []any{"a", "b", 3},
		"scalar": "only",
		"empty":  "",
	}

	assert.Equal(t, []string{"a", "b"}, StringSliceField(body, "list"))
	assert.Equal(t, []string{"only"}, StringSliceField(body, "scalar"))
	assert.Equal(t, []string{}, StringSliceField(body, "empty"))

	missing := StringSliceField(body, "missing")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestMapSliceField(t *testing.T) {
	body := map[string]any{
		"questions": []any{
			map[string]any{"questionText": "Q1"},
			"not-an-object",
			map[string]any{"questionText": "Q2"},
		},
	}

	maps := MapSliceField(body, "questions")
	assert.Len(t, maps, 2)
	assert.Equal(t, "Q1", StringField(maps[0], "questionText"))

	assert.Empty(t, MapSliceField(body, "missing"))
}

func TestTimeFieldRoundtrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	body := map[string]any{
		"createdAt": EncodeTime(now),
		"updatedAt": "garbage",
	}

	assert.Equal(t, now, TimeField(body, "createdAt"))
	assert.True(t, TimeField(body, "updatedAt").IsZero())
	assert.True(t, TimeField(body, "missing").IsZero())
}

func TestEncodeTimeZeroIsEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeTime(time.Time{}))
}

func TestEncodeStringSliceNeverNil(t *testing.T) {
	assert.Equal(t, []string{}, EncodeStringSlice(nil))
	assert.Equal(t, []string{"x"}, EncodeStringSlice([]string{"x"}))
}

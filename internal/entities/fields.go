package entities

import "time"

// Defensive field accessors for raw document bodies. A field that is absent
// or of the wrong shape decodes to the type's zero value instead of failing:
// this is how partially-written legacy documents survive a read. Fields that
// must never default silently (question shapes) are validated separately.

// StringField returns the string at key, or "".
func StringField(body map[string]any, key string) string {
	if s, ok := body[key].(string); ok {
		return s
	}
	return ""
}

// IntField returns the integer at key, or 0. JSON round-trips integers as
// float64, so both representations are accepted.
func IntField(body map[string]any, key string) int {
	switch v := body[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// BoolField returns the boolean at key, or false.
func BoolField(body map[string]any, key string) bool {
	if b, ok := body[key].(bool); ok {
		return b
	}
	return false
}

// StringSliceField returns the string sequence at key. Absence decodes to an
// empty slice, never nil-as-missing. A legacy scalar value is wrapped into a
// one-element sequence rather than dropped.
func StringSliceField(body map[string]any, key string) []string {
	switch v := body[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	}
	return []string{}
}

// MapSliceField returns the sequence of nested objects at key, or empty.
func MapSliceField(body map[string]any, key string) []map[string]any {
	items, ok := body[key].([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// TimeField parses the RFC3339 timestamp at key, or returns the zero time.
func TimeField(body map[string]any, key string) time.Time {
	s, ok := body[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EncodeTime formats a timestamp for storage inside a document body. The zero
// time encodes to "" so that optional timestamps stay readable.
func EncodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// EncodeStringSlice normalises a string sequence for storage: nil becomes an
// empty sequence so a written document never has a missing list field.
func EncodeStringSlice(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

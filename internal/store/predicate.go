package store

import (
	"fmt"
	"strings"
)

// Predicate is a filter over named document body fields, compiled to SQL over
// the JSON body column. Field names are code-level constants, never user
// input; user-supplied text only ever appears as bound arguments.
type Predicate struct {
	clause string
	args   []any
}

func fieldExpr(field string) string {
	return fmt.Sprintf("json_extract(body, '$.%s')", field)
}

// FieldEquals matches documents whose field equals the literal value.
func FieldEquals(field string, value any) Predicate {
	return Predicate{
		clause: fieldExpr(field) + " = ?",
		args:   []any{value},
	}
}

// FieldContains matches documents whose string field contains the literal as
// a case-sensitive substring.
func FieldContains(field, substring string) Predicate {
	return Predicate{
		clause: fmt.Sprintf("instr(COALESCE(%s, ''), ?) > 0", fieldExpr(field)),
		args:   []any{substring},
	}
}

// FieldContainsFold matches documents whose string field contains the literal
// as a case-insensitive substring. Used by the name searches.
func FieldContainsFold(field, substring string) Predicate {
	return Predicate{
		clause: fmt.Sprintf("LOWER(COALESCE(%s, '')) LIKE ?", fieldExpr(field)),
		args:   []any{"%" + strings.ToLower(substring) + "%"},
	}
}

// FieldIn matches documents whose field equals any of the given values. An
// empty value set matches nothing.
func FieldIn(field string, values []string) Predicate {
	if len(values) == 0 {
		return Predicate{clause: "1 = 0"}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return Predicate{
		clause: fmt.Sprintf("%s IN (%s)", fieldExpr(field), placeholders),
		args:   args,
	}
}

// And matches documents satisfying both predicates.
func And(a, b Predicate) Predicate {
	return combine("AND", a, b)
}

// Or matches documents satisfying either predicate.
func Or(a, b Predicate) Predicate {
	return combine("OR", a, b)
}

func combine(op string, a, b Predicate) Predicate {
	return Predicate{
		clause: fmt.Sprintf("(%s %s %s)", a.clause, op, b.clause),
		args:   append(append([]any{}, a.args...), b.args...),
	}
}

package domain

import (
	"fmt"
	"strings"
)

// QuerySpec describes the managed-row query a controller executes.
// Grouping into multiple sections is deliberately not supported: every
// query produces a single section.
type QuerySpec struct {
	// Table is the table the query reads from.
	Table string

	// Key is the column that uniquely identifies a row across refreshes.
	// Defaults to "id" when empty.
	Key string

	// Columns are the columns to select. Empty selects all columns.
	Columns []string

	// Where is an optional SQL predicate (without the WHERE keyword).
	Where string

	// OrderBy is an optional SQL ordering clause (without ORDER BY).
	OrderBy string
}

// Normalize fills defaults and trims whitespace in place.
func (q *QuerySpec) Normalize() {
	q.Table = strings.TrimSpace(q.Table)
	q.Key = strings.TrimSpace(q.Key)
	if q.Key == "" {
		q.Key = "id"
	}
	q.Where = strings.TrimSpace(q.Where)
	q.OrderBy = strings.TrimSpace(q.OrderBy)
}

// Validate checks the spec is executable. It returns an error wrapping
// ErrInvalidInput describing the first problem found.
func (q *QuerySpec) Validate() error {
	if strings.TrimSpace(q.Table) == "" {
		return fmt.Errorf("%w: query table is required", ErrInvalidInput)
	}
	for _, c := range q.Columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidInput)
		}
	}
	return nil
}

// DisplayName returns a short human-readable label for the query,
// used in the TUI title bar.
func (q *QuerySpec) DisplayName() string {
	if q.Where == "" {
		return q.Table
	}
	return fmt.Sprintf("%s (%s)", q.Table, q.Where)
}

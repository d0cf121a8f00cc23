package domain

// EntityRef references one persisted row of the live result set.
// The referenced entity is owned by the query engine; an EntityRef is a
// read-only snapshot of its key and column values.
type EntityRef struct {
	// Key is the value of the query's key column, rendered as a string.
	Key string

	// Values maps column names to the row's values at snapshot time.
	Values map[string]any
}

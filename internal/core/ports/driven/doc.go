// Package driven defines the capabilities rowsync consumes from the
// query engine. Adapters under internal/adapters/driven implement them.
package driven

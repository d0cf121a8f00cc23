// Package domain contains the core types for rowsync: row paths, change
// records, change batches, query specifications, and domain errors.
// Domain types have no dependencies on adapters or external services.
package domain

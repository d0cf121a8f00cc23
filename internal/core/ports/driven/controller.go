package driven

import (
	"context"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
)

// ChangeType is the change kind a query controller reports through its
// delegate callbacks. Delegates must ignore values they do not know;
// engines may report kinds that are not meaningful at a given granularity.
type ChangeType uint8

const (
	// ChangeInsert reports a new section or row.
	ChangeInsert ChangeType = iota + 1
	// ChangeDelete reports a removed section or row.
	ChangeDelete
	// ChangeMove reports a row that changed position.
	ChangeMove
	// ChangeUpdate reports a row that changed in place.
	ChangeUpdate
)

// SectionInfo describes one section of a controller's result set.
type SectionInfo struct {
	// Name is the section's display name. Empty for ungrouped queries.
	Name string

	// RowCount is the number of rows currently in the section.
	RowCount int
}

// ControllerDelegate receives change-cycle callbacks from a query
// controller. Per cycle the controller invokes exactly one
// ControllerWillChange, then zero or more section- and row-level
// callbacks in engine-determined order, then exactly one
// ControllerDidChange. All callbacks arrive on the caller's goroutine.
type ControllerDelegate interface {
	// ControllerWillChange signals the start of a change cycle.
	ControllerWillChange()

	// ControllerDidChangeSection reports a section-level change.
	ControllerDidChangeSection(index int, change ChangeType)

	// ControllerDidChangeRow reports a row-level change. For inserts
	// only "to" is meaningful (post-change position); for deletes and
	// updates only "from" (pre-change position); for moves both.
	ControllerDidChangeRow(change ChangeType, from, to domain.RowPath)

	// ControllerDidChange signals the end of the change cycle.
	ControllerDidChange()
}

// QueryController is a live query over persisted rows. It executes a
// query specification, exposes the current result set as ordered
// sections of rows, and reports incremental changes to its delegate.
type QueryController interface {
	// PerformFetch loads or reloads the result set. A nil return means
	// the result set is populated and readable.
	PerformFetch(ctx context.Context) error

	// Sections returns the current result shape. Nil before the first
	// successful fetch.
	Sections() []SectionInfo

	// ObjectAt returns the entity at the given path. The path must be
	// valid for the current result set; behaviour is undefined otherwise.
	ObjectAt(path domain.RowPath) domain.EntityRef

	// SetDelegate installs the sole change delegate. Pass nil to detach.
	SetDelegate(d ControllerDelegate)
}

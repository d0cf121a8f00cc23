// Package memory provides an in-memory implementation of
// driven.QueryController with scripted result sets and change cycles.
// It backs tests and demos that need an engine without a database.
package memory

import (
	"context"
	"slices"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driven"
)

// Ensure Controller implements the interface.
var _ driven.QueryController = (*Controller)(nil)

type section struct {
	name string
	rows []domain.EntityRef
}

// Controller is a scripted in-memory query controller. Seed the pending
// result set, then PerformFetch makes it readable; mutation helpers
// update the set and emit one delegate change cycle per call.
type Controller struct {
	delegate driven.ControllerDelegate
	fetchErr error

	pending []section
	loaded  []section
	fetched bool
}

// NewController creates an empty scripted controller.
func NewController() *Controller {
	return &Controller{}
}

// AddSection appends a pending section with the given rows. It becomes
// visible after the next PerformFetch.
func (c *Controller) AddSection(name string, rows ...domain.EntityRef) {
	c.pending = append(c.pending, section{name: name, rows: slices.Clone(rows)})
}

// SetFetchError makes every subsequent PerformFetch fail with err.
// Pass nil to restore success.
func (c *Controller) SetFetchError(err error) {
	c.fetchErr = err
}

// SetDelegate installs the change delegate.
func (c *Controller) SetDelegate(d driven.ControllerDelegate) {
	c.delegate = d
}

// Delegate returns the installed delegate. Tests use it to drive raw
// callback sequences the mutation helpers do not produce.
func (c *Controller) Delegate() driven.ControllerDelegate {
	return c.delegate
}

// PerformFetch copies the pending result set into the readable one.
// A scripted error leaves the readable set untouched.
func (c *Controller) PerformFetch(_ context.Context) error {
	if c.fetchErr != nil {
		return c.fetchErr
	}
	c.loaded = make([]section, len(c.pending))
	for i, s := range c.pending {
		c.loaded[i] = section{name: s.name, rows: slices.Clone(s.rows)}
	}
	c.fetched = true
	return nil
}

// Sections returns the readable result shape, nil before the first
// successful fetch.
func (c *Controller) Sections() []driven.SectionInfo {
	if !c.fetched {
		return nil
	}
	infos := make([]driven.SectionInfo, len(c.loaded))
	for i, s := range c.loaded {
		infos[i] = driven.SectionInfo{Name: s.name, RowCount: len(s.rows)}
	}
	return infos
}

// ObjectAt returns the entity at path. The path must be valid.
func (c *Controller) ObjectAt(path domain.RowPath) domain.EntityRef {
	return c.loaded[path.Section].rows[path.Row]
}

// InsertRow places the entity at path and emits a one-record cycle.
// The result set reflects the insert by the time the cycle ends.
func (c *Controller) InsertRow(path domain.RowPath, e domain.EntityRef) {
	s := &c.loaded[path.Section]
	s.rows = slices.Insert(s.rows, path.Row, e)
	c.emit(func(d driven.ControllerDelegate) {
		d.ControllerDidChangeRow(driven.ChangeInsert, domain.RowPath{}, path)
	})
}

// DeleteRow removes the row at path and emits a one-record cycle.
func (c *Controller) DeleteRow(path domain.RowPath) {
	s := &c.loaded[path.Section]
	s.rows = slices.Delete(s.rows, path.Row, path.Row+1)
	c.emit(func(d driven.ControllerDelegate) {
		d.ControllerDidChangeRow(driven.ChangeDelete, path, domain.RowPath{})
	})
}

// UpdateRow replaces the entity at path and emits a one-record cycle.
func (c *Controller) UpdateRow(path domain.RowPath, e domain.EntityRef) {
	c.loaded[path.Section].rows[path.Row] = e
	c.emit(func(d driven.ControllerDelegate) {
		d.ControllerDidChangeRow(driven.ChangeUpdate, path, domain.RowPath{})
	})
}

// MoveRow relocates a row within the result set and emits a one-record
// cycle. Both paths are interpreted against the pre-move set, matching
// the engine convention of pre-change origins and post-change targets.
func (c *Controller) MoveRow(from, to domain.RowPath) {
	src := &c.loaded[from.Section]
	e := src.rows[from.Row]
	src.rows = slices.Delete(src.rows, from.Row, from.Row+1)
	dst := &c.loaded[to.Section]
	dst.rows = slices.Insert(dst.rows, to.Row, e)
	c.emit(func(d driven.ControllerDelegate) {
		d.ControllerDidChangeRow(driven.ChangeMove, from, to)
	})
}

// InsertSection adds an empty section at index and emits a one-record
// cycle.
func (c *Controller) InsertSection(index int, name string) {
	c.loaded = slices.Insert(c.loaded, index, section{name: name})
	c.emit(func(d driven.ControllerDelegate) {
		d.ControllerDidChangeSection(index, driven.ChangeInsert)
	})
}

// DeleteSection removes the section at index and emits a one-record
// cycle.
func (c *Controller) DeleteSection(index int) {
	c.loaded = slices.Delete(c.loaded, index, index+1)
	c.emit(func(d driven.ControllerDelegate) {
		d.ControllerDidChangeSection(index, driven.ChangeDelete)
	})
}

func (c *Controller) emit(changes func(driven.ControllerDelegate)) {
	if c.delegate == nil {
		return
	}
	c.delegate.ControllerWillChange()
	changes(c.delegate)
	c.delegate.ControllerDidChange()
}

package services

import (
	"context"
	"weak"

	"github.com/google/uuid"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driven"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driving"
	"github.com/rowsync-labs/rowsync-cli/internal/logger"
)

// Ensure QueryObserver implements the delegate and reader interfaces.
var (
	_ driven.ControllerDelegate = (*QueryObserver)(nil)
	_ driving.ResultReader      = (*QueryObserver)(nil)
)

// Subscription ties one observer registration to the lifetime of this
// handle. The registry holds the handle weakly: once the caller drops
// its last reference, the registration lapses and the observer receives
// no further notifications. Callers typically store the handle on the
// observer itself so both go away together.
type Subscription struct {
	id       uuid.UUID
	observer driving.ResultsObserver
	owner    *QueryObserver
}

// ID returns the registration token.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Cancel removes the registration. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	s.owner.remove(s.id)
}

// QueryObserver observes a query controller and republishes its change
// cycles to registered observers. It installs itself as the controller's
// sole delegate on construction.
//
// A QueryObserver is not safe for concurrent use: construction,
// registration, fetching and the controller's callbacks must all happen
// on one goroutine. That matches the engine contract, which delivers
// callbacks synchronously on the goroutine that triggered the change.
type QueryObserver struct {
	controller driven.QueryController
	subs       map[uuid.UUID]weak.Pointer[Subscription]

	// batch is non-nil only between ControllerWillChange and
	// ControllerDidChange.
	batch *domain.ChangeBatch
}

// NewQueryObserver wraps the given controller and becomes its delegate.
func NewQueryObserver(controller driven.QueryController) *QueryObserver {
	q := &QueryObserver{
		controller: controller,
		subs:       make(map[uuid.UUID]weak.Pointer[Subscription]),
	}
	controller.SetDelegate(q)
	return q
}

// Register adds the observer and returns its subscription handle.
// Registering an observer that is already registered returns the
// existing live handle. The caller must retain the handle: the registry
// only holds it weakly, and a registration whose handle has been
// collected is skipped and pruned on the next notification.
func (q *QueryObserver) Register(o driving.ResultsObserver) *Subscription {
	for id, ptr := range q.subs {
		s := ptr.Value()
		if s == nil {
			delete(q.subs, id)
			continue
		}
		if s.observer == o {
			return s
		}
	}
	s := &Subscription{id: uuid.New(), observer: o, owner: q}
	q.subs[s.id] = weak.Make(s)
	logger.Debug("observer registered: %s", s.id)
	return s
}

// Unregister removes the registration for the given observer, if any.
// Unregistering an unknown observer is a no-op.
func (q *QueryObserver) Unregister(o driving.ResultsObserver) {
	for id, ptr := range q.subs {
		s := ptr.Value()
		if s == nil || s.observer == o {
			delete(q.subs, id)
		}
	}
}

func (q *QueryObserver) remove(id uuid.UUID) {
	delete(q.subs, id)
}

// PerformFetch executes the controller's fetch and reports the outcome
// to every live observer: OnLoaded on success, OnFailed on error. The
// error is not propagated further; a failed fetch leaves the observer
// usable for another attempt.
func (q *QueryObserver) PerformFetch(ctx context.Context) {
	if err := q.controller.PerformFetch(ctx); err != nil {
		logger.Warn("fetch failed: %v", err)
		q.notify(func(o driving.ResultsObserver) {
			o.OnFailed(q, err)
		})
		return
	}
	logger.Debug("fetch loaded %d sections", q.NumberOfSections())
	q.notify(func(o driving.ResultsObserver) {
		o.OnLoaded(q)
	})
}

// NumberOfSections returns the section count of the current result set,
// 0 before the first successful fetch.
func (q *QueryObserver) NumberOfSections() int {
	return len(q.controller.Sections())
}

// NumberOfRows returns the row count of the given section. The section
// index must be valid for the current result set.
func (q *QueryObserver) NumberOfRows(section int) int {
	return q.controller.Sections()[section].RowCount
}

// RowAt returns the entity at the given path. The path must be valid
// for the current result set.
func (q *QueryObserver) RowAt(path domain.RowPath) domain.EntityRef {
	return q.controller.ObjectAt(path)
}

// ControllerWillChange opens a change cycle. A second start before the
// previous cycle ends is a defect in the engine's callback contract and
// panics rather than silently dropping the in-progress batch.
func (q *QueryObserver) ControllerWillChange() {
	if q.batch != nil {
		panic("rowsync: change cycle started while another is in progress")
	}
	q.batch = &domain.ChangeBatch{}
}

// ControllerDidChangeSection records a section-level change. Kinds that
// are not meaningful at section granularity are ignored.
func (q *QueryObserver) ControllerDidChangeSection(index int, change driven.ChangeType) {
	if q.batch == nil {
		return
	}
	switch change {
	case driven.ChangeInsert:
		q.batch.Append(domain.NewSectionInserted(index))
	case driven.ChangeDelete:
		q.batch.Append(domain.NewSectionDeleted(index))
	}
}

// ControllerDidChangeRow records a row-level change. Unknown kinds are
// ignored.
func (q *QueryObserver) ControllerDidChangeRow(change driven.ChangeType, from, to domain.RowPath) {
	if q.batch == nil {
		return
	}
	switch change {
	case driven.ChangeInsert:
		q.batch.Append(domain.NewRowInserted(to))
	case driven.ChangeDelete:
		q.batch.Append(domain.NewRowDeleted(from))
	case driven.ChangeUpdate:
		q.batch.Append(domain.NewRowUpdated(from))
	case driven.ChangeMove:
		q.batch.Append(domain.NewRowMoved(from, to))
	}
}

// ControllerDidChange closes the cycle and publishes the batch to every
// live observer in the exact order the records were accumulated.
func (q *QueryObserver) ControllerDidChange() {
	if q.batch == nil {
		return
	}
	batch := q.batch
	q.batch = nil
	logger.Debug("change cycle published: %d records", batch.Len())
	q.notify(func(o driving.ResultsObserver) {
		o.OnChanged(q, batch)
	})
}

// notify fans out to every live observer, pruning registrations whose
// subscription handle has been collected.
func (q *QueryObserver) notify(fn func(driving.ResultsObserver)) {
	live := make([]driving.ResultsObserver, 0, len(q.subs))
	for id, ptr := range q.subs {
		s := ptr.Value()
		if s == nil {
			logger.Debug("observer pruned: %s", id)
			delete(q.subs, id)
			continue
		}
		live = append(live, s.observer)
	}
	for _, o := range live {
		fn(o)
	}
}

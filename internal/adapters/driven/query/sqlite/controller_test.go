package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driven"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driving"
	"github.com/rowsync-labs/rowsync-cli/internal/core/services"
)

// setupTestDB creates a temporary database with a seeded tasks table
// and returns its path plus a writer connection for external mutations.
func setupTestDB(t *testing.T) (string, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rowsync-test.db")
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	_, err = db.Exec(`CREATE TABLE tasks (id INTEGER PRIMARY KEY, title TEXT, done INTEGER NOT NULL DEFAULT 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (id, title) VALUES (1, 'write spec'), (2, 'review spec'), (3, 'ship it')`)
	require.NoError(t, err)

	return path, db
}

func setupController(t *testing.T, spec domain.QuerySpec) (*Controller, *sql.DB) {
	t.Helper()

	path, db := setupTestDB(t)
	ctrl, err := NewController(path, spec)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, ctrl.Close()) })
	return ctrl, db
}

// delegateRecorder captures raw delegate callbacks.
type delegateRecorder struct {
	wills   int
	dids    int
	records []domain.ChangeRecord
}

func (r *delegateRecorder) ControllerWillChange() { r.wills++ }
func (r *delegateRecorder) ControllerDidChange()  { r.dids++ }

func (r *delegateRecorder) ControllerDidChangeSection(index int, change driven.ChangeType) {
	switch change {
	case driven.ChangeInsert:
		r.records = append(r.records, domain.NewSectionInserted(index))
	case driven.ChangeDelete:
		r.records = append(r.records, domain.NewSectionDeleted(index))
	}
}

func (r *delegateRecorder) ControllerDidChangeRow(change driven.ChangeType, from, to domain.RowPath) {
	switch change {
	case driven.ChangeInsert:
		r.records = append(r.records, domain.NewRowInserted(to))
	case driven.ChangeDelete:
		r.records = append(r.records, domain.NewRowDeleted(from))
	case driven.ChangeUpdate:
		r.records = append(r.records, domain.NewRowUpdated(from))
	case driven.ChangeMove:
		r.records = append(r.records, domain.NewRowMoved(from, to))
	}
}

func TestNewController_InvalidSpec(t *testing.T) {
	_, err := NewController("ignored.db", domain.QuerySpec{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestController_SectionsNilBeforeFetch(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "tasks"})
	assert.Nil(t, ctrl.Sections())
}

func TestController_FetchAfterClose(t *testing.T) {
	path, _ := setupTestDB(t)
	ctrl, err := NewController(path, domain.QuerySpec{Table: "tasks"})
	require.NoError(t, err)
	require.NoError(t, ctrl.Close())

	err = ctrl.PerformFetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrControllerClosed)
	assert.ErrorIs(t, ctrl.Refresh(context.Background()), domain.ErrControllerClosed)
}

func TestController_FetchLoadsSnapshot(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "tasks"})

	require.NoError(t, ctrl.PerformFetch(context.Background()))

	sections := ctrl.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, 3, sections[0].RowCount)

	first := ctrl.ObjectAt(domain.RowPath{Section: 0, Row: 0})
	assert.Equal(t, "1", first.Key)
	assert.Equal(t, "write spec", first.Values["title"])
}

func TestController_FetchRespectsWhereAndOrder(t *testing.T) {
	ctrl, db := setupController(t, domain.QuerySpec{
		Table:   "tasks",
		Where:   "done = 0",
		OrderBy: "title",
	})

	_, err := db.Exec(`UPDATE tasks SET done = 1 WHERE id = 3`)
	require.NoError(t, err)

	require.NoError(t, ctrl.PerformFetch(context.Background()))
	require.Equal(t, 2, ctrl.Sections()[0].RowCount)
	assert.Equal(t, "review spec", ctrl.ObjectAt(domain.RowPath{Row: 0}).Values["title"])
	assert.Equal(t, "write spec", ctrl.ObjectAt(domain.RowPath{Row: 1}).Values["title"])
}

func TestController_FetchMissingTable(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "missing"})

	err := ctrl.PerformFetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestController_FetchMissingKeyColumn(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "tasks", Key: "uuid"})

	err := ctrl.PerformFetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestController_KeyColumnAlwaysSelected(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "tasks", Columns: []string{"title"}})

	require.NoError(t, ctrl.PerformFetch(context.Background()))
	first := ctrl.ObjectAt(domain.RowPath{Row: 0})
	assert.Equal(t, "1", first.Key)
}

func TestController_RefreshEmitsInsertCycle(t *testing.T) {
	ctrl, db := setupController(t, domain.QuerySpec{Table: "tasks"})
	require.NoError(t, ctrl.PerformFetch(context.Background()))

	rec := &delegateRecorder{}
	ctrl.SetDelegate(rec)

	_, err := db.Exec(`INSERT INTO tasks (id, title) VALUES (4, 'celebrate')`)
	require.NoError(t, err)

	require.NoError(t, ctrl.Refresh(context.Background()))

	assert.Equal(t, 1, rec.wills)
	assert.Equal(t, 1, rec.dids)
	want := []domain.ChangeRecord{
		domain.NewRowInserted(domain.RowPath{Section: 0, Row: 3}),
	}
	assert.Equal(t, want, rec.records)
	assert.Equal(t, 4, ctrl.Sections()[0].RowCount)
}

func TestController_RefreshEmitsDeleteAndUpdate(t *testing.T) {
	ctrl, db := setupController(t, domain.QuerySpec{Table: "tasks"})
	require.NoError(t, ctrl.PerformFetch(context.Background()))

	rec := &delegateRecorder{}
	ctrl.SetDelegate(rec)

	_, err := db.Exec(`DELETE FROM tasks WHERE id = 2`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE tasks SET title = 'ship it today' WHERE id = 3`)
	require.NoError(t, err)

	require.NoError(t, ctrl.Refresh(context.Background()))

	want := []domain.ChangeRecord{
		domain.NewRowDeleted(domain.RowPath{Section: 0, Row: 1}),
		domain.NewRowUpdated(domain.RowPath{Section: 0, Row: 2}),
	}
	assert.Equal(t, want, rec.records)
	assert.Equal(t, 2, ctrl.Sections()[0].RowCount)
}

func TestController_RefreshWithoutChangesEmitsNothing(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "tasks"})
	require.NoError(t, ctrl.PerformFetch(context.Background()))

	rec := &delegateRecorder{}
	ctrl.SetDelegate(rec)

	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Equal(t, 0, rec.wills)
	assert.Empty(t, rec.records)
}

func TestController_RefreshBeforeFetchActsAsFetch(t *testing.T) {
	ctrl, _ := setupController(t, domain.QuerySpec{Table: "tasks"})

	rec := &delegateRecorder{}
	ctrl.SetDelegate(rec)

	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Equal(t, 0, rec.wills, "initial load is not a change cycle")
	assert.Equal(t, 3, ctrl.Sections()[0].RowCount)
}

// listObserver is a minimal driving.ResultsObserver for the end-to-end test.
type listObserver struct {
	loaded  int
	failed  int
	batches []*domain.ChangeBatch
}

func (o *listObserver) OnLoaded(driving.ResultReader)        { o.loaded++ }
func (o *listObserver) OnFailed(driving.ResultReader, error) { o.failed++ }

func (o *listObserver) OnChanged(_ driving.ResultReader, b *domain.ChangeBatch) {
	o.batches = append(o.batches, b)
}

func TestEndToEnd_ObserverOverSQLite(t *testing.T) {
	path, db := setupTestDB(t)

	ctrl, err := NewController(path, domain.QuerySpec{Table: "tasks"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, ctrl.Close()) })

	q := services.NewQueryObserver(ctrl)
	obs := &listObserver{}
	sub := q.Register(obs)
	defer sub.Cancel()

	q.PerformFetch(context.Background())
	require.Equal(t, 1, obs.loaded)
	require.Equal(t, 1, q.NumberOfSections())
	require.Equal(t, 3, q.NumberOfRows(0))

	_, err = db.Exec(`INSERT INTO tasks (id, title) VALUES (4, 'celebrate')`)
	require.NoError(t, err)
	require.NoError(t, ctrl.Refresh(context.Background()))

	require.Len(t, obs.batches, 1)
	want := []domain.ChangeRecord{
		domain.NewRowInserted(domain.RowPath{Section: 0, Row: 3}),
	}
	assert.Equal(t, want, obs.batches[0].Records())
	assert.Equal(t, 4, q.NumberOfRows(0))
	assert.Equal(t, "celebrate", q.RowAt(domain.RowPath{Section: 0, Row: 3}).Values["title"])
}

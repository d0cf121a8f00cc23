// Package sqlite implements driven.QueryController over a SQLite
// database. A controller binds one query specification to one database
// file, snapshots the result set on fetch, and on refresh reports the
// difference to its delegate as a single change cycle. Results are
// always a single section; grouping is fixed off.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driven"
	"github.com/rowsync-labs/rowsync-cli/internal/logger"
)

// Ensure Controller implements the interface.
var _ driven.QueryController = (*Controller)(nil)

// Controller is a live SQLite query. Not safe for concurrent use; all
// calls, including Refresh, must come from one goroutine. Watch posts
// change signals instead of refreshing so the caller keeps that control.
type Controller struct {
	db       *sql.DB
	path     string
	spec     domain.QuerySpec
	delegate driven.ControllerDelegate

	rows    []domain.EntityRef
	fetched bool
	closed  bool
}

// NewController opens the database at path and binds spec to it.
// The connection uses WAL mode with a busy timeout so concurrent
// writers outside this process do not fail reads.
func NewController(path string, spec domain.QuerySpec) (*Controller, error) {
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Controller{db: db, path: path, spec: spec}, nil
}

// Close releases the database connection. The controller is unusable
// afterwards.
func (c *Controller) Close() error {
	err := c.db.Close()
	c.closed = true
	c.fetched = false
	c.rows = nil
	return err
}

// Path returns the database file path.
func (c *Controller) Path() string {
	return c.path
}

// Spec returns the bound query specification.
func (c *Controller) Spec() domain.QuerySpec {
	return c.spec
}

// SetDelegate installs the sole change delegate.
func (c *Controller) SetDelegate(d driven.ControllerDelegate) {
	c.delegate = d
}

// PerformFetch loads the result set. It does not emit a change cycle;
// the caller is expected to re-read the whole shape after a fetch.
func (c *Controller) PerformFetch(ctx context.Context) error {
	if c.closed {
		return domain.ErrControllerClosed
	}
	rows, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	c.rows = rows
	c.fetched = true
	logger.Debug("fetched %d rows from %s", len(rows), c.spec.Table)
	return nil
}

// Sections returns the single-section result shape, nil before the
// first successful fetch.
func (c *Controller) Sections() []driven.SectionInfo {
	if !c.fetched {
		return nil
	}
	return []driven.SectionInfo{{RowCount: len(c.rows)}}
}

// ObjectAt returns the entity at path. The path must be valid for the
// current result set.
func (c *Controller) ObjectAt(path domain.RowPath) domain.EntityRef {
	if path.Section != 0 {
		panic(fmt.Sprintf("sqlite: section %d out of range for ungrouped query", path.Section))
	}
	return c.rows[path.Row]
}

// Refresh re-runs the query, swaps in the new snapshot and reports the
// difference to the delegate as one change cycle. A refresh before the
// first fetch behaves like PerformFetch. No cycle is emitted when
// nothing changed.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.closed {
		return domain.ErrControllerClosed
	}
	if !c.fetched {
		return c.PerformFetch(ctx)
	}

	fresh, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	records := diffRows(c.rows, fresh)
	c.rows = fresh
	if len(records) == 0 || c.delegate == nil {
		return nil
	}

	logger.Debug("refresh of %s produced %d changes", c.spec.Table, len(records))
	c.delegate.ControllerWillChange()
	for _, r := range records {
		switch r.Kind {
		case domain.RowInserted:
			c.delegate.ControllerDidChangeRow(driven.ChangeInsert, domain.RowPath{}, r.Path)
		case domain.RowDeleted:
			c.delegate.ControllerDidChangeRow(driven.ChangeDelete, r.Path, domain.RowPath{})
		case domain.RowUpdated:
			c.delegate.ControllerDidChangeRow(driven.ChangeUpdate, r.Path, domain.RowPath{})
		case domain.RowMoved:
			c.delegate.ControllerDidChangeRow(driven.ChangeMove, r.From, r.To)
		}
	}
	c.delegate.ControllerDidChange()
	return nil
}

// load executes the query and scans the snapshot.
func (c *Controller) load(ctx context.Context) ([]domain.EntityRef, error) {
	rows, err := c.db.QueryContext(ctx, c.buildSQL())
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.spec.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	keyIdx := slices.Index(cols, c.spec.Key)
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: key column %q not in result", domain.ErrInvalidInput, c.spec.Key)
	}

	var result []domain.EntityRef //nolint:prealloc // size unknown from query
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		entity := domain.EntityRef{Values: make(map[string]any, len(cols))}
		for i, col := range cols {
			entity.Values[col] = normalizeValue(values[i])
		}
		entity.Key = fmt.Sprintf("%v", entity.Values[cols[keyIdx]])
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// buildSQL renders the spec as a SELECT statement. The key column is
// always selected so rows stay identifiable across refreshes.
func (c *Controller) buildSQL() string {
	columns := "*"
	if len(c.spec.Columns) > 0 {
		selected := slices.Clone(c.spec.Columns)
		if !slices.Contains(selected, c.spec.Key) {
			selected = append(selected, c.spec.Key)
		}
		columns = strings.Join(selected, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", columns, c.spec.Table)
	if c.spec.Where != "" {
		fmt.Fprintf(&b, " WHERE %s", c.spec.Where)
	}
	if c.spec.OrderBy != "" {
		fmt.Fprintf(&b, " ORDER BY %s", c.spec.OrderBy)
	} else {
		fmt.Fprintf(&b, " ORDER BY %s", c.spec.Key)
	}
	return b.String()
}

// normalizeValue maps driver values onto comparable snapshot values.
// Byte slices become strings so DeepEqual works across scans.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

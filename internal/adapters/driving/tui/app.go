// Package tui provides the live results view: a terminal table that
// stays in sync with a query controller through the query observer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driving/tui/messages"
	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driving/tui/styles"
	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driven"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driving"
	"github.com/rowsync-labs/rowsync-cli/internal/core/services"
)

// LiveController is the controller surface the TUI drives: the query
// capability plus refresh and change watching. The SQLite adapter
// satisfies it.
type LiveController interface {
	driven.QueryController

	// Refresh re-runs the query and reports changes via the delegate.
	Refresh(ctx context.Context) error

	// Watch signals changed after external writes until ctx ends.
	Watch(ctx context.Context, changed func()) error
}

const maxColumnWidth = 32

// Ensure App implements the observer and model interfaces.
var (
	_ driving.ResultsObserver = (*App)(nil)
	_ tea.Model               = (*App)(nil)
)

// App is the Bubbletea model for the live results view. It registers
// itself as a results observer; all fetches and refreshes run on the
// program's event loop goroutine, keeping the observer single-threaded.
type App struct {
	styles   *styles.Styles
	observer *services.QueryObserver
	refresh  func(context.Context) error
	title    string

	// sub keeps the observer registration alive for the App's lifetime.
	sub *services.Subscription

	table    table.Model
	rowCount int
	status   string
	err      error
	width    int
	height   int
}

// NewApp creates the results view over an already-constructed observer.
// refresh is invoked when the store changes; for live queries pass the
// controller's Refresh.
func NewApp(observer *services.QueryObserver, refresh func(context.Context) error, title string) *App {
	t := table.New(table.WithFocused(true))
	a := &App{
		styles:   styles.New(nil),
		observer: observer,
		refresh:  refresh,
		title:    title,
		table:    t,
	}
	a.sub = observer.Register(a)
	return a
}

// OnLoaded reacts to a completed fetch by rebuilding the table.
func (a *App) OnLoaded(source driving.ResultReader) {
	a.err = nil
	a.rebuild(source)
	a.status = fmt.Sprintf("loaded %d rows", a.rowCount)
}

// OnFailed keeps the previous rows and surfaces the error.
func (a *App) OnFailed(_ driving.ResultReader, err error) {
	a.err = err
}

// OnChanged rebuilds the table and summarises the batch.
func (a *App) OnChanged(source driving.ResultReader, batch *domain.ChangeBatch) {
	a.err = nil
	a.rebuild(source)
	a.status = summarize(batch)
}

// Init implements tea.Model. The initial fetch happens before the
// program starts, so there is nothing to do here.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.SetWidth(msg.Width - 2)
		if msg.Height > 6 {
			a.table.SetHeight(msg.Height - 6)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "r":
			a.doRefresh()
			return a, nil
		}

	case messages.StoreChanged:
		a.doRefresh()
		return a, nil

	case messages.WatchStopped:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			a.err = fmt.Errorf("watcher stopped: %w", msg.Err)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	out := a.styles.Title.Render("rowsync · "+a.title) + "\n"
	out += a.styles.Table.Render(a.table.View()) + "\n"
	if a.err != nil {
		out += a.styles.Error.Render("error: "+a.err.Error()) + "\n"
	} else if a.status != "" {
		out += a.styles.Status.Render(a.status) + "\n"
	}
	out += a.styles.Help.Render("↑/↓ navigate · r refresh · q quit")
	return out
}

// Status returns the current status line. Exposed for tests.
func (a *App) Status() string {
	return a.status
}

// Err returns the surfaced error, nil when healthy. Exposed for tests.
func (a *App) Err() error {
	return a.err
}

// RowCount returns the number of rows currently displayed.
func (a *App) RowCount() int {
	return a.rowCount
}

func (a *App) doRefresh() {
	if a.refresh == nil {
		return
	}
	if err := a.refresh(context.Background()); err != nil {
		a.err = err
	}
}

// rebuild regenerates columns and rows from the reader's first section.
// Live queries are ungrouped, so a single section covers them.
func (a *App) rebuild(source driving.ResultReader) {
	if source.NumberOfSections() == 0 {
		a.rowCount = 0
		a.table.SetRows(nil)
		return
	}

	count := source.NumberOfRows(0)
	a.rowCount = count
	if count == 0 {
		a.table.SetRows(nil)
		return
	}

	names := columnNames(source.RowAt(domain.RowPath{Section: 0, Row: 0}))
	widths := make([]int, len(names))
	for i, name := range names {
		widths[i] = len(name)
	}

	rows := make([]table.Row, count)
	for i := 0; i < count; i++ {
		entity := source.RowAt(domain.RowPath{Section: 0, Row: i})
		row := make(table.Row, len(names))
		for j, name := range names {
			cell := fmt.Sprintf("%v", entity.Values[name])
			row[j] = cell
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
		rows[i] = row
	}

	columns := make([]table.Column, len(names))
	for i, name := range names {
		columns[i] = table.Column{Title: name, Width: min(widths[i], maxColumnWidth)}
	}

	a.table.SetColumns(columns)
	a.table.SetRows(rows)
}

// columnNames returns the entity's column names in stable order, with
// "id" first when present.
func columnNames(e domain.EntityRef) []string {
	names := make([]string, 0, len(e.Values))
	for name := range e.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if name == "id" && i != 0 {
			copy(names[1:i+1], names[:i])
			names[0] = "id"
			break
		}
	}
	return names
}

// summarize renders a change batch as a short status line.
func summarize(batch *domain.ChangeBatch) string {
	var inserted, deleted, updated, moved int
	for _, r := range batch.Records() {
		switch r.Kind {
		case domain.RowInserted, domain.SectionInserted:
			inserted++
		case domain.RowDeleted, domain.SectionDeleted:
			deleted++
		case domain.RowUpdated:
			updated++
		case domain.RowMoved:
			moved++
		}
	}
	return fmt.Sprintf("changed: +%d −%d ~%d ↕%d", inserted, deleted, updated, moved)
}

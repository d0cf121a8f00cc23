package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driving/tui/messages"
	"github.com/rowsync-labs/rowsync-cli/internal/core/services"
)

// Run wires the observer and view over the given controller, performs
// the initial fetch, starts the change watcher and runs the program
// until the user quits.
//
// The watcher goroutine only posts messages; every fetch and refresh
// runs on the program's event loop, so the controller and observer are
// never touched concurrently.
func Run(ctx context.Context, ctrl LiveController, title string) error {
	observer := services.NewQueryObserver(ctrl)
	app := NewApp(observer, ctrl.Refresh, title)

	observer.PerformFetch(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen())

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := ctrl.Watch(watchCtx, func() {
			p.Send(messages.StoreChanged{})
		})
		p.Send(messages.WatchStopped{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/rowsync-labs/rowsync-cli/internal/logger"
)

// watchInterval caps how often a change signal fires. SQLite checkpoints
// touch the db, -wal and -shm files in quick succession; without the cap
// one logical write would signal several refreshes.
const watchInterval = 250 * time.Millisecond

// Watch observes the database file for writes from other processes and
// invokes changed after each burst of filesystem activity, coalesced
// through a rate limiter. It blocks until ctx is cancelled.
//
// Watch never refreshes the controller itself: the caller decides on
// which goroutine Refresh runs, keeping the controller single-threaded.
func (c *Controller) Watch(ctx context.Context, changed func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: the -wal and -shm companions appear and
	// disappear over the db file's lifetime.
	dir := filepath.Dir(c.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching %s for changes", c.path)

	limiter := rate.NewLimiter(rate.Every(watchInterval), 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !c.isDatabaseFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			// Wait coalesces bursts: events arriving while we wait
			// queue up and are drained below.
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			drainEvents(w.Events)
			logger.Debug("store changed: %s", event.Name)
			changed()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// isDatabaseFile reports whether name is the db file or one of its
// WAL companions.
func (c *Controller) isDatabaseFile(name string) bool {
	return name == c.path || strings.HasPrefix(name, c.path+"-")
}

// drainEvents discards queued events so a burst yields one signal.
func drainEvents(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

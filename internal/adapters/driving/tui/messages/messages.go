// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

// StoreChanged is sent when the watcher detects an external write to
// the database. The model reacts by refreshing the query controller.
type StoreChanged struct{}

// WatchStopped is sent when the watcher goroutine exits.
type WatchStopped struct {
	Err error
}

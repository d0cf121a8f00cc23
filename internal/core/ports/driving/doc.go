// Package driving defines the capabilities rowsync exposes to its
// consumers: the observer interface UI components implement and the
// read surface they consult after a notification.
package driving

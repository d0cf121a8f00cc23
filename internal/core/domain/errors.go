package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates the query controller could not load its
	// result set. The underlying cause is attached via wrapping.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrControllerClosed indicates the query controller has been closed
	// and can no longer fetch or refresh.
	ErrControllerClosed = errors.New("query controller closed")

	// ErrUnknownQuery indicates a named query was not found in the
	// configuration file.
	ErrUnknownQuery = errors.New("unknown query")
)

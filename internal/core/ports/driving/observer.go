package driving

import (
	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
)

// ResultReader is the read surface an observer consults after receiving
// a notification. Section and row indexes must be valid for the current
// result set; behaviour is undefined otherwise, mirroring the engine's
// own contract.
type ResultReader interface {
	// NumberOfSections returns the section count, 0 before the first
	// successful fetch.
	NumberOfSections() int

	// NumberOfRows returns the row count of the given section.
	NumberOfRows(section int) int

	// RowAt returns the entity at the given path.
	RowAt(path domain.RowPath) domain.EntityRef
}

// ResultsObserver receives result-set notifications from an observer
// adapter. Implementations read the new shape from the supplied source;
// they must not retain the batch past the callback.
type ResultsObserver interface {
	// OnLoaded reports a completed fetch. The source now reflects the
	// freshly loaded result set.
	OnLoaded(source ResultReader)

	// OnFailed reports a failed fetch. The source still reflects
	// whatever state preceded the attempt.
	OnFailed(source ResultReader, err error)

	// OnChanged reports one completed change cycle. Records appear in
	// the exact order the engine produced them.
	OnChanged(source ResultReader, batch *domain.ChangeBatch)
}

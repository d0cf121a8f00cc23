package domain

import "fmt"

// RowPath identifies a (section, row) position within a result set.
type RowPath struct {
	// Section is the zero-based section index.
	Section int

	// Row is the zero-based row index within the section.
	Row int
}

// String returns the path in "(section,row)" form.
func (p RowPath) String() string {
	return fmt.Sprintf("(%d,%d)", p.Section, p.Row)
}

// ChangeKind discriminates the variants of a ChangeRecord.
type ChangeKind uint8

const (
	// SectionInserted indicates a section was added at Section.
	SectionInserted ChangeKind = iota + 1
	// SectionDeleted indicates the section at Section was removed.
	SectionDeleted
	// RowInserted indicates a row appeared at Path (post-change position).
	RowInserted
	// RowDeleted indicates the row at Path (pre-change position) was removed.
	RowDeleted
	// RowUpdated indicates the row at Path changed in place.
	RowUpdated
	// RowMoved indicates the row at From now lives at To.
	RowMoved
)

// String returns a short name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case SectionInserted:
		return "section-inserted"
	case SectionDeleted:
		return "section-deleted"
	case RowInserted:
		return "row-inserted"
	case RowDeleted:
		return "row-deleted"
	case RowUpdated:
		return "row-updated"
	case RowMoved:
		return "row-moved"
	default:
		return fmt.Sprintf("change-kind(%d)", uint8(k))
	}
}

// ChangeRecord is one entry of a change batch. It is a tagged variant:
// Kind selects which positional fields are meaningful. Records are
// immutable once constructed.
type ChangeRecord struct {
	// Kind selects the variant.
	Kind ChangeKind

	// Section is the section index for section-level records.
	Section int

	// Path is the row position for RowInserted (post-change),
	// RowDeleted (pre-change) and RowUpdated (pre-change) records.
	Path RowPath

	// From and To are the pre- and post-change positions of a
	// RowMoved record.
	From RowPath
	To   RowPath
}

// NewSectionInserted returns a record for a section added at index.
func NewSectionInserted(index int) ChangeRecord {
	return ChangeRecord{Kind: SectionInserted, Section: index}
}

// NewSectionDeleted returns a record for a section removed at index.
func NewSectionDeleted(index int) ChangeRecord {
	return ChangeRecord{Kind: SectionDeleted, Section: index}
}

// NewRowInserted returns a record for a row appearing at path.
func NewRowInserted(path RowPath) ChangeRecord {
	return ChangeRecord{Kind: RowInserted, Path: path}
}

// NewRowDeleted returns a record for the row removed from path.
func NewRowDeleted(path RowPath) ChangeRecord {
	return ChangeRecord{Kind: RowDeleted, Path: path}
}

// NewRowUpdated returns a record for the row changed in place at path.
func NewRowUpdated(path RowPath) ChangeRecord {
	return ChangeRecord{Kind: RowUpdated, Path: path}
}

// NewRowMoved returns a record for the row moved from one path to another.
func NewRowMoved(from, to RowPath) ChangeRecord {
	return ChangeRecord{Kind: RowMoved, From: from, To: to}
}

// String renders the record with its positional data.
func (r ChangeRecord) String() string {
	switch r.Kind {
	case SectionInserted, SectionDeleted:
		return fmt.Sprintf("%s[%d]", r.Kind, r.Section)
	case RowMoved:
		return fmt.Sprintf("%s[%s->%s]", r.Kind, r.From, r.To)
	default:
		return fmt.Sprintf("%s[%s]", r.Kind, r.Path)
	}
}

// ChangeBatch is an ordered sequence of change records accumulated over
// one change cycle. It is append-only while the cycle is open and must be
// treated as read-only once published to observers.
type ChangeBatch struct {
	records []ChangeRecord
}

// Append adds a record to the batch, preserving arrival order.
func (b *ChangeBatch) Append(r ChangeRecord) {
	b.records = append(b.records, r)
}

// Records returns the accumulated records in append order.
func (b *ChangeBatch) Records() []ChangeRecord {
	return b.records
}

// Len returns the number of records in the batch.
func (b *ChangeBatch) Len() int {
	return len(b.records)
}

// Empty reports whether the batch holds no records.
func (b *ChangeBatch) Empty() bool {
	return len(b.records) == 0
}

// Package primitives defines the small value types shared across the storage,
// memory, and execution layers: table identifiers, page/slot addressing, and
// the comparison predicate used by both scalar fields and join conditions.
package primitives

// HashCode is a hash value used for keying maps and for PageId.HashCode.
type HashCode uint64

// TableID identifies a table (and, equivalently, the HeapFile backing it).
// It is derived deterministically from the table's absolute file path so
// that repeated opens of the same file agree on its identity.
type TableID uint64

// PageNumber is the zero-based ordinal of a page within a HeapFile.
type PageNumber uint64

// SlotID is the zero-based ordinal of a tuple slot within a HeapPage.
type SlotID uint32

// ColumnID identifies a field's position within a TupleDesc.
type ColumnID int

// InvalidColumnID marks "no column" (e.g. an ungrouped aggregate).
const InvalidColumnID ColumnID = -1

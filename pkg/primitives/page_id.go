package primitives

// PageID is the identity of a single fixed-size page within a table's
// backing file. HeapPage and the buffer pool use it as the unit of caching,
// locking, and eviction; concrete implementations live in pkg/storage/page.
type PageID interface {
	GetTableID() TableID
	PageNo() PageNumber
	Serialize() []byte
	Equals(other PageID) bool
	String() string
	HashCode() HashCode
}

// FileID identifies a table's backing heap file, derived from a hash of its
// absolute path. It shares representation with TableID: the table and the
// single file holding its tuples are the same entity in this engine.
type FileID = TableID

// PageKey is the comparable value form of a PageID, safe to use as a map
// key. PageID implementations are pointers, so two distinct instances
// describing the same page are never == to each other; anything that needs
// identity semantics (the buffer pool cache, the lock manager) keys its
// maps by PageKey instead and keeps the PageID alongside where it still
// needs the original value.
type PageKey struct {
	Table TableID
	Page  PageNumber
}

func KeyOf(pid PageID) PageKey {
	return PageKey{Table: pid.GetTableID(), Page: pid.PageNo()}
}

package transaction

import (
	"fmt"
	"simpledb/pkg/primitives"
	"sync"
	"time"
)

type lockedPage struct {
	pid  primitives.PageID
	perm Permissions
}

// Status represents the lifecycle state of a transaction.
type Status int

const (
	Active Status = iota
	Committed
	Aborted
)

func (s Status) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Committed:
		return "COMMITTED"
	case Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Permissions is the access level a transaction requests when fetching a
// page from the buffer pool.
type Permissions int

const (
	ReadOnly Permissions = iota
	ReadWrite
)

func (p Permissions) String() string {
	if p == ReadWrite {
		return "READ_WRITE"
	}
	return "READ_ONLY"
}

// Context holds everything the buffer pool and lock manager need to track
// about one in-flight transaction: which pages it has touched, which of
// those it has dirtied, and its lifecycle status. It carries no WAL state —
// crash recovery is out of scope; abort rolls back purely from in-memory
// before-images.
type Context struct {
	ID *primitives.TransactionID

	mutex     sync.RWMutex
	status    Status
	startTime time.Time
	endTime   time.Time

	// Keyed by PageKey rather than PageID directly: PageID implementations
	// are pointers, and BufferPool constructs a fresh one on every lookup,
	// so the interface value itself is not a stable identity to key on.
	lockedPages map[primitives.PageKey]lockedPage
	dirtyPages  map[primitives.PageKey]primitives.PageID
}

func NewContext(tid *primitives.TransactionID) *Context {
	return &Context{
		ID:          tid,
		status:      Active,
		startTime:   time.Now(),
		lockedPages: make(map[primitives.PageKey]lockedPage),
		dirtyPages:  make(map[primitives.PageKey]primitives.PageID),
	}
}

func (c *Context) IsActive() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.status == Active
}

func (c *Context) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.status
}

func (c *Context) SetStatus(status Status) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.status = status
	if status != Active {
		c.endTime = time.Now()
	}
}

// RecordPageAccess remembers that this transaction holds perm on pid. A
// transaction already holding ReadWrite keeps it; ReadOnly never downgrades
// an existing ReadWrite entry.
func (c *Context) RecordPageAccess(pid primitives.PageID, perm Permissions) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	key := primitives.KeyOf(pid)
	if existing, ok := c.lockedPages[key]; ok && existing.perm == ReadWrite {
		return
	}
	c.lockedPages[key] = lockedPage{pid: pid, perm: perm}
}

func (c *Context) MarkPageDirty(pid primitives.PageID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.dirtyPages[primitives.KeyOf(pid)] = pid
}

func (c *Context) DirtyPages() []primitives.PageID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	pages := make([]primitives.PageID, 0, len(c.dirtyPages))
	for _, pid := range c.dirtyPages {
		pages = append(pages, pid)
	}
	return pages
}

func (c *Context) LockedPages() []primitives.PageID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	pages := make([]primitives.PageID, 0, len(c.lockedPages))
	for _, lp := range c.lockedPages {
		pages = append(pages, lp.pid)
	}
	return pages
}

func (c *Context) Duration() time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	end := c.endTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(c.startTime)
}

func (c *Context) String() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return fmt.Sprintf("Transaction %s [%s, locked=%d, dirty=%d]",
		c.ID.String(), c.status, len(c.lockedPages), len(c.dirtyPages))
}

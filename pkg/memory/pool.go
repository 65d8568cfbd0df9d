package memory

import (
	"fmt"
	"simpledb/pkg/catalog"
	"simpledb/pkg/concurrency/lock"
	"simpledb/pkg/concurrency/transaction"
	dberror "simpledb/pkg/error"
	"simpledb/pkg/logging"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCapacity is BufferPool's page capacity absent an explicit one.
const DefaultCapacity = 50

var errCacheFull = fmt.Errorf("cache full, cannot add page")

// Mutator is implemented by a DbFile that can apply tuple mutations
// through the buffer pool rather than writing pages directly. HeapFile
// pins each page it touches via bp.GetPage(tid, pid, ReadWrite) so the
// mutation participates in the same locking and dirty-tracking as any
// other page access.
type Mutator interface {
	InsertTuple(tid *primitives.TransactionID, bp *BufferPool, t *tuple.Tuple) ([]page.Page, error)
	DeleteTuple(tid *primitives.TransactionID, bp *BufferPool, t *tuple.Tuple) (page.Page, error)
}

// BufferPool is the only shared-mutable component in the engine: a bounded
// page cache fronting the catalog's heap files, implementing strict
// two-phase locking and NO-STEAL eviction. A single mutex serializes
// pages/recency bookkeeping; lock.Manager serializes lock state
// separately, so that Acquire can block without holding bp.mutex.
type BufferPool struct {
	mutex sync.Mutex

	cat      *catalog.Catalog
	cache    PageCache
	locks    *lock.Manager
	registry *transaction.Registry

	capacity int
}

func NewBufferPool(cat *catalog.Catalog, capacity int, lockTimeout time.Duration) *BufferPool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BufferPool{
		cat:      cat,
		cache:    NewLRUPageCache(capacity),
		locks:    lock.NewManager(lockTimeout),
		registry: transaction.NewRegistry(),
		capacity: capacity,
	}
}

// Registry exposes the transaction registry so callers can Begin() a
// transaction before issuing GetPage calls against it.
func (bp *BufferPool) Registry() *transaction.Registry {
	return bp.registry
}

// GetPage first acquires a lock on pid per perm, blocking if needed; a
// timed-out wait returns TransactionAborted and obliges the caller to run
// TransactionComplete(tid, false). Only once the lock is granted does it
// return the cached page, or pull it in from disk via the catalog's
// registered file on a miss, after evicting room if necessary.
func (bp *BufferPool) GetPage(tid *primitives.TransactionID, pid primitives.PageID, perm transaction.Permissions) (page.Page, error) {
	lockType := lock.Shared
	if perm == transaction.ReadWrite {
		lockType = lock.Exclusive
	}
	if err := bp.locks.Acquire(tid, pid, lockType); err != nil {
		return nil, dberror.TransactionAborted(err.Error())
	}

	ctx := bp.registry.GetOrCreate(tid)
	ctx.RecordPageAccess(pid, perm)

	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	if p, ok := bp.cache.Get(pid); ok {
		return p, nil
	}

	if bp.cache.Size() >= bp.capacity {
		if err := bp.evictLocked(); err != nil {
			return nil, err
		}
	}

	dbFile, err := bp.cat.GetDatabaseFile(pid.GetTableID())
	if err != nil {
		return nil, err
	}

	p, err := dbFile.ReadPage(pid)
	if err != nil {
		return nil, dberror.PageReadError(pid.String(), err)
	}

	if err := bp.cache.Put(pid, p); err != nil {
		return nil, dberror.PageReadError(pid.String(), err)
	}
	logging.Debug("page loaded", "page", pid.String(), "tid", tid.ID())
	return p, nil
}

// evictLocked drops the LRU-oldest clean page. Caller must hold bp.mutex.
// Dirty pages are never candidates: NO-STEAL means their only path to
// disk is a commit flush.
func (bp *BufferPool) evictLocked() error {
	for _, pid := range bp.cache.GetAll() {
		p, ok := bp.cache.Get(pid)
		if !ok || p.IsDirty() != nil {
			continue
		}
		bp.cache.Remove(pid)
		return nil
	}
	return dberror.NoCleanVictim("every cached page is dirty")
}

// InsertTuple resolves tableID to its file, asks the file to place t
// (pinning pages through GetPage along the way), then marks every page
// the file touched dirty with tid.
func (bp *BufferPool) InsertTuple(tid *primitives.TransactionID, tableID primitives.TableID, t *tuple.Tuple) error {
	dbFile, err := bp.cat.GetDatabaseFile(tableID)
	if err != nil {
		return err
	}
	mutator, ok := dbFile.(Mutator)
	if !ok {
		return fmt.Errorf("table %d's file does not support tuple mutation", tableID)
	}

	pages, err := mutator.InsertTuple(tid, bp, t)
	if err != nil {
		return err
	}
	bp.markDirty(tid, pages)
	return nil
}

// DeleteTuple resolves t's table from its RecordID, asks the file to
// remove it, then marks the touched page dirty with tid.
func (bp *BufferPool) DeleteTuple(tid *primitives.TransactionID, t *tuple.Tuple) error {
	if t.RecordID == nil {
		return dberror.NotOnPage("tuple has no RecordID")
	}

	dbFile, err := bp.cat.GetDatabaseFile(t.RecordID.PageID.GetTableID())
	if err != nil {
		return err
	}
	mutator, ok := dbFile.(Mutator)
	if !ok {
		return fmt.Errorf("table %d's file does not support tuple mutation", t.RecordID.PageID.GetTableID())
	}

	p, err := mutator.DeleteTuple(tid, bp, t)
	if err != nil {
		return err
	}
	bp.markDirty(tid, []page.Page{p})
	return nil
}

func (bp *BufferPool) markDirty(tid *primitives.TransactionID, pages []page.Page) {
	ctx := bp.registry.GetOrCreate(tid)

	bp.mutex.Lock()
	defer bp.mutex.Unlock()
	for _, p := range pages {
		p.MarkDirty(true, tid)
		bp.cache.Put(p.GetID(), p)
		ctx.MarkPageDirty(p.GetID())
	}
}

// TransactionComplete finalizes tid: on commit it flushes every page tid
// dirtied and refreshes their before-images; on abort it restores each
// dirtied page from its before-image, discarding the in-memory writes.
// Either way every lock tid holds is released.
func (bp *BufferPool) TransactionComplete(tid *primitives.TransactionID, commit bool) error {
	ctx, err := bp.registry.Get(tid)
	if err != nil {
		bp.locks.ReleaseAll(tid)
		return nil
	}

	dirty := ctx.DirtyPages()

	if commit {
		var g errgroup.Group
		for _, pid := range dirty {
			pid := pid
			g.Go(func() error { return bp.flush(pid) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		bp.mutex.Lock()
		for _, pid := range dirty {
			p, ok := bp.cache.Get(pid)
			if !ok {
				continue
			}
			before := p.GetBeforeImage()
			before.MarkDirty(false, nil)
			bp.cache.Put(pid, before)
		}
		bp.mutex.Unlock()
	}

	ctx.SetStatus(statusFor(commit))
	bp.registry.Remove(tid)
	bp.locks.ReleaseAll(tid)
	return nil
}

func statusFor(commit bool) transaction.Status {
	if commit {
		return transaction.Committed
	}
	return transaction.Aborted
}

// flush writes pid to disk if dirty and refreshes its before-image,
// leaving the page clean. Disk errors are reported as PageWriteError.
func (bp *BufferPool) flush(pid primitives.PageID) error {
	bp.mutex.Lock()
	p, ok := bp.cache.Get(pid)
	bp.mutex.Unlock()
	if !ok || p.IsDirty() == nil {
		return nil
	}

	dbFile, err := bp.cat.GetDatabaseFile(pid.GetTableID())
	if err != nil {
		return err
	}
	if err := dbFile.WritePage(p); err != nil {
		return dberror.PageWriteError(pid.String(), err)
	}

	p.SetBeforeImage()
	p.MarkDirty(false, nil)

	bp.mutex.Lock()
	bp.cache.Put(pid, p)
	bp.mutex.Unlock()
	return nil
}

// FlushAllPages writes every dirty cached page to disk, independent of
// any transaction's bookkeeping. Used for orderly shutdown.
func (bp *BufferPool) FlushAllPages() error {
	bp.mutex.Lock()
	pids := bp.cache.GetAll()
	bp.mutex.Unlock()

	for _, pid := range pids {
		if err := bp.flush(pid); err != nil {
			return err
		}
	}
	return nil
}

// ReleasePage drops tid's lock on pid directly, bypassing transaction
// completion. Breaks strict 2PL — tests only.
func (bp *BufferPool) ReleasePage(tid *primitives.TransactionID, pid primitives.PageID) {
	bp.locks.Release(tid, pid)
}

// Size returns the number of pages currently cached.
func (bp *BufferPool) Size() int {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()
	return bp.cache.Size()
}

package transaction

import (
	"fmt"
	"simpledb/pkg/primitives"
	"sync"
)

// Registry is the single map from transaction identity to its in-flight
// Context. The buffer pool consults it so a page operation and a
// commit/abort agree on which pages a transaction touched; the lock manager
// keeps its own lock state and does not use it.
type Registry struct {
	mutex    sync.RWMutex
	contexts map[*primitives.TransactionID]*Context
}

func NewRegistry() *Registry {
	return &Registry{
		contexts: make(map[*primitives.TransactionID]*Context),
	}
}

// Begin allocates a fresh transaction id and registers its context.
func (r *Registry) Begin() *Context {
	tid := primitives.NewTransactionID()
	ctx := NewContext(tid)

	r.mutex.Lock()
	r.contexts[tid] = ctx
	r.mutex.Unlock()

	return ctx
}

func (r *Registry) Get(tid *primitives.TransactionID) (*Context, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ctx, ok := r.contexts[tid]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", tid.String())
	}
	return ctx, nil
}

// GetOrCreate returns the context for tid, registering one if this is the
// first time the registry has seen it. Used by BufferPool.GetPage, which
// may be called with a transaction id that was never routed through Begin.
func (r *Registry) GetOrCreate(tid *primitives.TransactionID) *Context {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ctx, ok := r.contexts[tid]; ok {
		return ctx
	}
	ctx := NewContext(tid)
	r.contexts[tid] = ctx
	return ctx
}

func (r *Registry) Remove(tid *primitives.TransactionID) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.contexts, tid)
}

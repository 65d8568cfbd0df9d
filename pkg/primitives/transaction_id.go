package primitives

import (
	"fmt"
	"sync/atomic"
)

var nextTransactionID int64

// TransactionID identifies a single transaction. Values are allocated in
// increasing order by NewTransactionID and compared by pointer identity
// everywhere a transaction needs to be used as a map key or distinguished
// from another concurrently-running transaction.
type TransactionID struct {
	id int64
}

// NewTransactionID allocates a fresh, process-unique transaction identifier.
func NewTransactionID() *TransactionID {
	id := atomic.AddInt64(&nextTransactionID, 1)
	return &TransactionID{id: id}
}

func (t *TransactionID) ID() int64 {
	return t.id
}

func (t *TransactionID) String() string {
	return fmt.Sprintf("tid(%d)", t.id)
}

package query

import (
	"fmt"
	"simpledb/pkg/catalog"
	"simpledb/pkg/iterator"
	"simpledb/pkg/memory"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/heap"
	"simpledb/pkg/tuple"
)

// SeqScan is the leaf operator that reads every tuple of one table through
// the buffer pool, acquiring shared locks page by page under the owning
// transaction. It has no children.
type SeqScan struct {
	tid       *primitives.TransactionID
	tableID   primitives.TableID
	tupleDesc *tuple.TupleDescription
	inner     *heap.FileIterator
}

// NewSeqScan opens a scan of tableID as seen by tid. The table must already
// be registered in cat and backed by a *heap.HeapFile. alias qualifies
// every output field name as "alias.name" so a self-join over two scans of
// the same table can tell the two sides' fields apart; an empty alias
// falls back to the table's registered name.
func NewSeqScan(tid *primitives.TransactionID, cat *catalog.Catalog, bp *memory.BufferPool, tableID primitives.TableID, alias string) (*SeqScan, error) {
	file, err := cat.GetDatabaseFile(tableID)
	if err != nil {
		return nil, fmt.Errorf("seq scan: %w", err)
	}
	hf, ok := file.(*heap.HeapFile)
	if !ok {
		return nil, fmt.Errorf("seq scan: table %d is not backed by a heap file", tableID)
	}

	if alias == "" {
		alias, err = cat.GetTableName(tableID)
		if err != nil {
			return nil, fmt.Errorf("seq scan: %w", err)
		}
	}

	return &SeqScan{
		tid:       tid,
		tableID:   tableID,
		tupleDesc: hf.GetTupleDesc().Prefixed(alias),
		inner:     hf.Iterator(tid, bp),
	}, nil
}

func (s *SeqScan) Open() error {
	return s.inner.Open()
}

func (s *SeqScan) Close() error {
	return s.inner.Close()
}

func (s *SeqScan) Rewind() error {
	return s.inner.Rewind()
}

func (s *SeqScan) HasNext() (bool, error) {
	return s.inner.HasNext()
}

func (s *SeqScan) Next() (*tuple.Tuple, error) {
	return s.inner.Next()
}

func (s *SeqScan) GetTupleDesc() *tuple.TupleDescription {
	return s.tupleDesc
}

func (s *SeqScan) TableID() primitives.TableID {
	return s.tableID
}

// GetChildren always returns an empty slice: SeqScan is a leaf operator.
func (s *SeqScan) GetChildren() []iterator.DbIterator {
	return nil
}

// SetChildren panics if given any children; SeqScan cannot have one.
func (s *SeqScan) SetChildren(children []iterator.DbIterator) {
	if len(children) != 0 {
		panic("SeqScan.SetChildren: leaf operator takes no children")
	}
}

package heap

import (
	"fmt"
	"simpledb/pkg/concurrency/transaction"
	"simpledb/pkg/memory"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
)

// FileIterator walks every tuple in a HeapFile in page-then-slot order,
// pinning one page at a time through the buffer pool in read mode. It
// materializes only its own cursor (page number, slot cursor within the
// current page's iterator) rather than holding a long-lived borrow of the
// file, per the lifetime discipline the rest of this package follows.
type FileIterator struct {
	file *HeapFile
	tid  *primitives.TransactionID
	bp   *memory.BufferPool

	currentPage int
	pageIter    *HeapPageIterator
	opened      bool
}

func NewFileIterator(file *HeapFile, tid *primitives.TransactionID, bp *memory.BufferPool) *FileIterator {
	return &FileIterator{file: file, tid: tid, bp: bp, currentPage: -1}
}

func (it *FileIterator) Open() error {
	it.currentPage = -1
	it.pageIter = nil
	it.opened = true
	return it.advance()
}

func (it *FileIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("iterator not opened")
	}
	return it.pageIter != nil, nil
}

func (it *FileIterator) Next() (*tuple.Tuple, error) {
	if !it.opened {
		return nil, fmt.Errorf("iterator not opened")
	}
	if it.pageIter == nil {
		return nil, fmt.Errorf("no more tuples")
	}

	t, err := it.pageIter.Next()
	if err != nil {
		return nil, err
	}

	hasNext, err := it.pageIter.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		if err := it.advance(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (it *FileIterator) Rewind() error {
	return it.Open()
}

func (it *FileIterator) Close() error {
	if it.pageIter != nil {
		it.pageIter.Close()
		it.pageIter = nil
	}
	it.opened = false
	return nil
}

func (it *FileIterator) GetTupleDesc() *tuple.TupleDescription {
	return it.file.GetTupleDesc()
}

// advance moves to the next page with at least one live tuple, or sets
// pageIter to nil once the file is exhausted.
func (it *FileIterator) advance() error {
	for {
		it.currentPage++
		numPages, err := it.file.NumPages()
		if err != nil {
			return err
		}
		if primitives.PageNumber(it.currentPage) >= numPages {
			it.pageIter = nil
			return nil
		}

		pid := page.NewPageDescriptor(it.file.GetID(), primitives.PageNumber(it.currentPage))
		p, err := it.bp.GetPage(it.tid, pid, transaction.ReadOnly)
		if err != nil {
			return err
		}

		heapPage, ok := p.(*HeapPage)
		if !ok {
			return fmt.Errorf("page %s is not a HeapPage", pid)
		}

		pageIter := NewHeapPageIterator(heapPage)
		if err := pageIter.Open(); err != nil {
			return err
		}

		hasNext, err := pageIter.HasNext()
		if err != nil {
			return err
		}
		if hasNext {
			it.pageIter = pageIter
			return nil
		}
	}
}

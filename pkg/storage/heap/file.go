package heap

import (
	"fmt"
	"io"
	dberror "simpledb/pkg/error"
	"simpledb/pkg/concurrency/transaction"
	"simpledb/pkg/memory"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
)

// HeapFile represents a collection of pages stored in a single OS file on disk.
// It implements the page.DbFile interface and manages heap pages that store tuples
// in a row-oriented format with bitmap headers.
//
// Storage Layout:
//   - Each page is exactly page.PageSize bytes
//   - Pages are numbered sequentially starting from 0
//   - Page offsets are calculated as: pageNo * page.PageSize
type HeapFile struct {
	*page.BaseFile
	tupleDesc *tuple.TupleDescription // Schema definition for tuples in this file
}

// NewHeapFile creates a new HeapFile backed by the specified file on disk.
// The file will be created if it doesn't exist, or opened for read-write if it does.
//
// Parameters:
//   - filename: Path to the heap file on disk (cannot be empty)
//   - td: Schema definition for tuples that will be stored in this file
//
// Returns:
//   - *HeapFile: The initialized heap file
//   - error: If the filename is empty or file cannot be opened
func NewHeapFile(filename primitives.Filepath, td *tuple.TupleDescription) (*HeapFile, error) {
	baseFile, err := page.NewBaseFile(filename)
	if err != nil {
		return nil, err
	}

	return &HeapFile{
		BaseFile:  baseFile,
		tupleDesc: td,
	}, nil
}

// GetTupleDesc returns the schema definition for tuples stored in this file.
//
// Returns:
//   - *tuple.TupleDescription: The schema definition
func (hf *HeapFile) GetTupleDesc() *tuple.TupleDescription {
	return hf.tupleDesc
}

// ReadPage reads the specified page from disk into memory.
// This method performs physical I/O and should typically be called through
// the BufferPool rather than directly.
//
// Parameters:
//   - pageID: The page identifier (must be a page.PageDescriptor)
//
// Returns:
//   - page.Page: The loaded HeapPage with tuple data
//   - error: If pageID is invalid, file is closed, or I/O fails
//
// Behavior:
//   - Returns a blank page if reading past EOF
//   - Validates that pageID matches this file's table ID
//   - Acquires a read lock during the operation
func (hf *HeapFile) ReadPage(pageID primitives.PageID) (page.Page, error) {
	heapPageID, err := hf.validateAndConvertPageID(pageID)
	if err != nil {
		return nil, err
	}

	pageData, err := hf.ReadPageData(heapPageID.PageNo())
	if err != nil {
		if err == io.EOF {
			return NewHeapPage(heapPageID, make([]byte, page.PageSize), hf.tupleDesc)
		}
		return nil, fmt.Errorf("failed to read page data: %w", err)
	}

	return NewHeapPage(heapPageID, pageData, hf.tupleDesc)
}

// validateAndConvertPageID validates that a PageID is appropriate for this HeapFile.
//
// Parameters:
//   - pageID: The page identifier to validate
//
// Returns:
//   - page.PageDescriptor: The validated and type-cast page ID
//   - error: If validation fails
func (hf *HeapFile) validateAndConvertPageID(pageID primitives.PageID) (*page.PageDescriptor, error) {
	if pageID == nil {
		return nil, fmt.Errorf("page ID cannot be nil")
	}

	heapPageID, ok := pageID.(*page.PageDescriptor)
	if !ok {
		return nil, fmt.Errorf("invalid page ID type for HeapFile")
	}

	if heapPageID == nil {
		return nil, fmt.Errorf("page descriptor cannot be nil")
	}

	if heapPageID.GetTableID() != hf.GetID() {
		return nil, fmt.Errorf("page ID table mismatch")
	}

	return heapPageID, nil
}

// WritePage writes the given page to disk at its designated location.
// This method performs physical I/O and syncs the file to ensure durability.
//
// Parameters:
//   - p: The page to write (must contain a valid HeapPageID)
//
// Returns:
//   - error: If page is nil, file is closed, or I/O fails
func (hf *HeapFile) WritePage(p page.Page) error {
	if p == nil {
		return fmt.Errorf("page cannot be nil")
	}

	return hf.WritePageData(p.GetID().PageNo(), p.GetPageData())
}

// InsertTuple scans pages 0..numPages, pinning each through bp with write
// permission and attempting page.InsertTuple. On NoEmptySlots it tries the
// next page; the lock taken on the full page is not released and is held
// until the transaction completes. If every existing page is full, it
// appends a fresh empty page and inserts there. Returns the page it modified.
func (hf *HeapFile) InsertTuple(tid *primitives.TransactionID, bp *memory.BufferPool, t *tuple.Tuple) ([]page.Page, error) {
	numPages, err := hf.NumPages()
	if err != nil {
		return nil, err
	}

	for pageNo := primitives.PageNumber(0); pageNo < numPages; pageNo++ {
		pid := page.NewPageDescriptor(hf.GetID(), pageNo)
		p, err := bp.GetPage(tid, pid, transaction.ReadWrite)
		if err != nil {
			return nil, err
		}
		heapPage := p.(*HeapPage)

		if err := heapPage.InsertTuple(t); err != nil {
			if dberror.Is(err, dberror.CodeNoEmptySlots) {
				continue
			}
			return nil, err
		}
		return []page.Page{p}, nil
	}

	newPageNo, err := hf.AllocateNewPage()
	if err != nil {
		return nil, err
	}

	pid := page.NewPageDescriptor(hf.GetID(), newPageNo)
	p, err := bp.GetPage(tid, pid, transaction.ReadWrite)
	if err != nil {
		return nil, err
	}
	heapPage := p.(*HeapPage)
	if err := heapPage.InsertTuple(t); err != nil {
		return nil, err
	}
	return []page.Page{p}, nil
}

// DeleteTuple removes t via its RecordID, pinning that page through bp
// with write permission.
func (hf *HeapFile) DeleteTuple(tid *primitives.TransactionID, bp *memory.BufferPool, t *tuple.Tuple) (page.Page, error) {
	if t.RecordID == nil {
		return nil, dberror.NotOnPage("tuple has no RecordID")
	}

	p, err := bp.GetPage(tid, t.RecordID.PageID, transaction.ReadWrite)
	if err != nil {
		return nil, err
	}
	heapPage := p.(*HeapPage)
	if err := heapPage.DeleteTuple(t); err != nil {
		return nil, err
	}
	return p, nil
}

// Iterator returns a DbFileIterator lazily paging through 0..numPages,
// pinning one page at a time through bp in read mode.
func (hf *HeapFile) Iterator(tid *primitives.TransactionID, bp *memory.BufferPool) *FileIterator {
	return NewFileIterator(hf, tid, bp)
}

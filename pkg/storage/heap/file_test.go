package heap

import (
	"path/filepath"
	"simpledb/pkg/catalog"
	"simpledb/pkg/memory"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
	"testing"
	"time"
)

func newTestHeapFile(t *testing.T) (*HeapFile, *tuple.TupleDescription) {
	t.Helper()
	td := intIntDesc(t)
	path := filepath.Join(t.TempDir(), "test.dat")
	hf, err := NewHeapFile(primitives.Filepath(path), td)
	if err != nil {
		t.Fatalf("new heap file: %v", err)
	}
	return hf, td
}

func TestHeapFileStartsEmpty(t *testing.T) {
	hf, _ := newTestHeapFile(t)
	numPages, err := hf.NumPages()
	if err != nil {
		t.Fatalf("num pages: %v", err)
	}
	if numPages != 0 {
		t.Errorf("expected fresh file to have 0 pages, got %d", numPages)
	}
}

func TestHeapFileWriteReadPageRoundTrip(t *testing.T) {
	hf, td := newTestHeapFile(t)

	pageNo, err := hf.AllocateNewPage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	pid := page.NewPageDescriptor(hf.GetID(), pageNo)
	hp, err := NewEmptyHeapPage(pid, td)
	if err != nil {
		t.Fatalf("new empty page: %v", err)
	}
	if err := hp.InsertTuple(intIntTuple(t, td, 5, 6)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := hf.WritePage(hp); err != nil {
		t.Fatalf("write page: %v", err)
	}

	reloaded, err := hf.ReadPage(pid)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if reloaded.GetID().PageNo() != pageNo {
		t.Errorf("expected page number %d, got %d", pageNo, reloaded.GetID().PageNo())
	}
}

func TestHeapFileReadPastEOFReturnsBlankPage(t *testing.T) {
	hf, _ := newTestHeapFile(t)
	pid := page.NewPageDescriptor(hf.GetID(), 0)

	p, err := hf.ReadPage(pid)
	if err != nil {
		t.Fatalf("expected blank page past EOF, got error: %v", err)
	}
	hp := p.(*HeapPage)
	if hp.GetNumEmptySlots() != NumSlots(int(hf.GetTupleDesc().GetSize())) {
		t.Error("expected a fresh page read past EOF to be entirely empty")
	}
}

func TestHeapFileRejectsForeignTablePageID(t *testing.T) {
	hf, _ := newTestHeapFile(t)
	foreignPid := page.NewPageDescriptor(hf.GetID()+1, 0)

	if _, err := hf.ReadPage(foreignPid); err == nil {
		t.Error("expected an error reading a page id belonging to a different table")
	}
}

func TestHeapFileInsertAppendsNewPageWhenFull(t *testing.T) {
	hf, td := newTestHeapFile(t)
	capacity := NumSlots(int(td.GetSize()))

	pageNo, err := hf.AllocateNewPage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	pid := page.NewPageDescriptor(hf.GetID(), pageNo)
	hp, err := NewEmptyHeapPage(pid, td)
	if err != nil {
		t.Fatalf("new empty page: %v", err)
	}
	for i := 0; i < capacity; i++ {
		if err := hp.InsertTuple(intIntTuple(t, td, int32(i), int32(i))); err != nil {
			t.Fatalf("fill page insert %d: %v", i, err)
		}
	}
	if err := hf.WritePage(hp); err != nil {
		t.Fatalf("write filled page: %v", err)
	}

	numPagesBefore, _ := hf.NumPages()
	if numPagesBefore != 1 {
		t.Fatalf("expected 1 page before overflow insert, got %d", numPagesBefore)
	}

	cat := catalog.NewCatalog()
	cat.AddTable(hf, "t", "")
	bp := memory.NewBufferPool(cat, memory.DefaultCapacity, 100*time.Millisecond)
	if _, err := hf.InsertTuple(primitives.NewTransactionID(), bp, intIntTuple(t, td, -1, -1)); err != nil {
		t.Fatalf("overflow insert: %v", err)
	}
	numPagesAfter, _ := hf.NumPages()
	if numPagesAfter != 2 {
		t.Errorf("expected a second page to exist after overflow, got %d pages", numPagesAfter)
	}
}

package heap

import (
	"bytes"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
	"testing"
)

func intIntDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType, types.IntType}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("building tuple desc: %v", err)
	}
	return td
}

func intIntTuple(t *testing.T, td *tuple.TupleDescription, a, b int32) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	if err := tup.SetField(0, types.NewIntField(a)); err != nil {
		t.Fatalf("set field 0: %v", err)
	}
	if err := tup.SetField(1, types.NewIntField(b)); err != nil {
		t.Fatalf("set field 1: %v", err)
	}
	return tup
}

func TestHeapPageRoundTrip(t *testing.T) {
	td := intIntDesc(t)
	pid := page.NewPageDescriptor(1, 0)

	hp, err := NewEmptyHeapPage(pid, td)
	if err != nil {
		t.Fatalf("new empty page: %v", err)
	}

	for i := int32(0); i < 3; i++ {
		if err := hp.InsertTuple(intIntTuple(t, td, i, i*10)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	data := hp.GetPageData()
	if len(data) != page.PageSize {
		t.Fatalf("expected page size %d, got %d", page.PageSize, len(data))
	}

	reloaded, err := NewHeapPage(pid, data, td)
	if err != nil {
		t.Fatalf("reloading page: %v", err)
	}

	if !bytes.Equal(data, reloaded.GetPageData()) {
		t.Error("HeapPage(id, p.getPageData()).getPageData() != p.getPageData()")
	}
}

func TestHeapPageSlotAccounting(t *testing.T) {
	td := intIntDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	if err != nil {
		t.Fatalf("new empty page: %v", err)
	}

	before := hp.GetNumEmptySlots()
	tup := intIntTuple(t, td, 1, 2)
	if err := hp.InsertTuple(tup); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := hp.GetNumEmptySlots(); got != before-1 {
		t.Errorf("expected empty slots to drop by 1, got %d -> %d", before, got)
	}

	if err := hp.DeleteTuple(tup); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := hp.GetNumEmptySlots(); got != before {
		t.Errorf("expected empty slots to return to %d, got %d", before, got)
	}
}

func TestHeapPageInsertRejectsSchemaMismatch(t *testing.T) {
	td := intIntDesc(t)
	otherTD, _ := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"x"})
	pid := page.NewPageDescriptor(1, 0)
	hp, _ := NewEmptyHeapPage(pid, td)

	mismatched := tuple.NewTuple(otherTD)
	_ = mismatched.SetField(0, types.NewIntField(1))

	if err := hp.InsertTuple(mismatched); err == nil {
		t.Error("expected schema mismatch error")
	}
}

func TestHeapPageInsertFailsWhenFull(t *testing.T) {
	td := intIntDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, _ := NewEmptyHeapPage(pid, td)

	capacity := NumSlots(int(td.GetSize()))
	for i := 0; i < capacity; i++ {
		if err := hp.InsertTuple(intIntTuple(t, td, int32(i), int32(i))); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	if err := hp.InsertTuple(intIntTuple(t, td, 999, 999)); err == nil {
		t.Error("expected NoEmptySlots once page is full")
	}
}

func TestHeapPageDeleteRejectsForeignTuple(t *testing.T) {
	td := intIntDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, _ := NewEmptyHeapPage(pid, td)

	foreign := intIntTuple(t, td, 1, 1)
	if err := hp.DeleteTuple(foreign); err == nil {
		t.Error("expected error deleting a tuple never inserted on this page")
	}
}

func TestHeapPageBeforeImageRestoresPriorContents(t *testing.T) {
	td := intIntDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, _ := NewEmptyHeapPage(pid, td)

	original := hp.GetPageData()

	if err := hp.InsertTuple(intIntTuple(t, td, 7, 8)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	before := hp.GetBeforeImage()
	if !bytes.Equal(before.GetPageData(), original) {
		t.Error("before-image should reflect page contents prior to the insert")
	}
}

func TestNumSlotsAndHeaderLength(t *testing.T) {
	td := intIntDesc(t)
	n := NumSlots(int(td.GetSize()))
	if n <= 0 {
		t.Fatalf("expected positive slot capacity, got %d", n)
	}
	if headerLength(n) != (n+7)/8 {
		t.Errorf("header length mismatch")
	}
}

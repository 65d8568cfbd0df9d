package transaction

import (
	"simpledb/pkg/primitives"
	"testing"
)

type fakePageID struct{ table primitives.TableID; page primitives.PageNumber }

func (f *fakePageID) GetTableID() primitives.TableID { return f.table }
func (f *fakePageID) PageNo() primitives.PageNumber  { return f.page }
func (f *fakePageID) Serialize() []byte              { return nil }
func (f *fakePageID) String() string                 { return "fakePage" }
func (f *fakePageID) HashCode() primitives.HashCode  { return primitives.HashCode(f.page) }
func (f *fakePageID) Equals(other primitives.PageID) bool {
	o, ok := other.(*fakePageID)
	return ok && o.table == f.table && o.page == f.page
}

func TestRecordPageAccessDoesNotDowngradeReadWrite(t *testing.T) {
	ctx := NewContext(primitives.NewTransactionID())
	pid := &fakePageID{table: 1, page: 0}

	ctx.RecordPageAccess(pid, ReadWrite)
	ctx.RecordPageAccess(pid, ReadOnly)

	locked := ctx.LockedPages()
	if len(locked) != 1 {
		t.Fatalf("expected exactly one locked page, got %d", len(locked))
	}
	if got := ctx.lockedPages[primitives.KeyOf(pid)].perm; got != ReadWrite {
		t.Errorf("expected ReadWrite to be kept after a ReadOnly access, got %v", got)
	}
}

func TestRecordPageAccessTreatsDistinctInstancesOfSamePageAsOneEntry(t *testing.T) {
	ctx := NewContext(primitives.NewTransactionID())

	ctx.RecordPageAccess(&fakePageID{table: 1, page: 0}, ReadOnly)
	ctx.RecordPageAccess(&fakePageID{table: 1, page: 0}, ReadOnly)

	if got := len(ctx.LockedPages()); got != 1 {
		t.Errorf("expected two accesses to the same (table, page) to collapse into one entry, got %d", got)
	}
}

func TestMarkPageDirtyAndDirtyPages(t *testing.T) {
	ctx := NewContext(primitives.NewTransactionID())
	p0 := &fakePageID{table: 1, page: 0}
	p1 := &fakePageID{table: 1, page: 1}

	ctx.MarkPageDirty(p0)
	ctx.MarkPageDirty(p1)
	ctx.MarkPageDirty(&fakePageID{table: 1, page: 0})

	dirty := ctx.DirtyPages()
	if len(dirty) != 2 {
		t.Fatalf("expected 2 distinct dirty pages, got %d", len(dirty))
	}
}

func TestContextStatusTransitions(t *testing.T) {
	ctx := NewContext(primitives.NewTransactionID())
	if !ctx.IsActive() {
		t.Fatal("expected a new context to be active")
	}

	ctx.SetStatus(Committed)
	if ctx.IsActive() {
		t.Error("expected IsActive to be false after commit")
	}
	if ctx.Status() != Committed {
		t.Errorf("expected status Committed, got %s", ctx.Status())
	}
}

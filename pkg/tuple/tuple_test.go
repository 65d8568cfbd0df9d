package tuple

import (
	"fmt"
	"simpledb/pkg/primitives"
	"simpledb/pkg/types"
	"testing"
)

type mockPageID struct {
	tableID primitives.TableID
	pageNo  primitives.PageNumber
}

func (m *mockPageID) GetTableID() primitives.TableID   { return m.tableID }
func (m *mockPageID) PageNo() primitives.PageNumber    { return m.pageNo }
func (m *mockPageID) Serialize() []byte                { return nil }
func (m *mockPageID) String() string                   { return fmt.Sprintf("mockPageID(%d,%d)", m.tableID, m.pageNo) }
func (m *mockPageID) HashCode() primitives.HashCode {
	return primitives.HashCode(uint64(m.tableID)<<32 | uint64(m.pageNo))
}
func (m *mockPageID) Equals(other primitives.PageID) bool {
	o, ok := other.(*mockPageID)
	return ok && m.tableID == o.tableID && m.pageNo == o.pageNo
}

func TestNewTuple(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	tup := NewTuple(td)

	if tup.TupleDesc != td {
		t.Error("expected TupleDesc to be the schema passed in")
	}
	if len(tup.fields) != 2 {
		t.Errorf("expected 2 unset fields, got %d", len(tup.fields))
	}
	for i, f := range tup.fields {
		if f != nil {
			t.Errorf("field %d should start nil", i)
		}
	}
	if tup.RecordID != nil {
		t.Error("new tuple should have nil RecordID")
	}
}

func TestTupleSetFieldRejectsTypeMismatch(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, nil)
	tup := NewTuple(td)

	if err := tup.SetField(0, types.NewIntField(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tup.SetField(0, types.NewStringField("nope")); err == nil {
		t.Error("expected type mismatch error")
	}
	if err := tup.SetField(5, types.NewIntField(1)); err == nil {
		t.Error("expected out-of-bounds error")
	}
}

func TestTupleEquals(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, nil)

	a := NewTuple(td)
	a.SetField(0, types.NewIntField(1))
	a.SetField(1, types.NewStringField("x"))

	b := NewTuple(td)
	b.SetField(0, types.NewIntField(1))
	b.SetField(1, types.NewStringField("x"))

	if !a.Equals(b) {
		t.Error("tuples with identical descriptors and field values should be equal")
	}

	b.SetField(1, types.NewStringField("y"))
	if a.Equals(b) {
		t.Error("tuples with differing field values should not be equal")
	}
}

func TestTupleEqualsConsidersRecordID(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType}, nil)

	a := NewTuple(td)
	a.SetField(0, types.NewIntField(1))
	b := NewTuple(td)
	b.SetField(0, types.NewIntField(1))

	a.RecordID = NewRecordID(&mockPageID{tableID: 1, pageNo: 0}, 0)
	if a.Equals(b) {
		t.Error("tuple with a RecordID should not equal one without")
	}

	b.RecordID = NewRecordID(&mockPageID{tableID: 1, pageNo: 0}, 0)
	if !a.Equals(b) {
		t.Error("tuples with equal RecordIDs should be equal")
	}
}

func TestCombineTuples(t *testing.T) {
	leftDesc := mustCreateTupleDesc([]types.Type{types.IntType}, []string{"id"})
	left := NewTuple(leftDesc)
	left.SetField(0, types.NewIntField(1))

	rightDesc := mustCreateTupleDesc([]types.Type{types.StringType}, []string{"name"})
	right := NewTuple(rightDesc)
	right.SetField(0, types.NewStringField("Alice"))

	combined, err := CombineTuples(left, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if combined.TupleDesc.NumFields() != 2 {
		t.Fatalf("expected 2 fields, got %d", combined.TupleDesc.NumFields())
	}

	f0, _ := combined.GetField(0)
	f1, _ := combined.GetField(1)
	if !f0.Equals(types.NewIntField(1)) {
		t.Errorf("field 0 = %v, want IntField(1)", f0)
	}
	if !f1.Equals(types.NewStringField("Alice")) {
		t.Errorf("field 1 = %v, want StringField(\"Alice\")", f1)
	}
}

func TestCombineTuplesNilInputs(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType}, nil)
	tup := NewTuple(td)

	if _, err := CombineTuples(nil, tup); err == nil {
		t.Error("expected error combining with a nil left tuple")
	}
	if _, err := CombineTuples(tup, nil); err == nil {
		t.Error("expected error combining with a nil right tuple")
	}
}

func TestRecordIDEquals(t *testing.T) {
	p1 := &mockPageID{tableID: 1, pageNo: 2}
	p2 := &mockPageID{tableID: 1, pageNo: 2}

	a := NewRecordID(p1, 5)
	b := NewRecordID(p2, 5)
	c := NewRecordID(p2, 6)

	if !a.Equals(b) {
		t.Error("RecordIDs with equal pages and slot should be equal")
	}
	if a.Equals(c) {
		t.Error("RecordIDs with different slots should not be equal")
	}
}

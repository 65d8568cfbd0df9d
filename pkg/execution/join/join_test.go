package join

import (
	"simpledb/pkg/iterator"
	"simpledb/pkg/primitives"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
	"testing"
)

type intSource struct {
	*iterator.BaseIterator
	desc *tuple.TupleDescription
	rows []*tuple.Tuple
	pos  int
}

func newIntSource(t *testing.T, fieldNames []string, rows [][]int32) *intSource {
	t.Helper()
	fieldTypes := make([]types.Type, len(fieldNames))
	for i := range fieldTypes {
		fieldTypes[i] = types.IntType
	}
	desc, err := tuple.NewTupleDesc(fieldTypes, fieldNames)
	if err != nil {
		t.Fatalf("NewTupleDesc: %v", err)
	}

	tuples := make([]*tuple.Tuple, 0, len(rows))
	for _, row := range rows {
		tup := tuple.NewTuple(desc)
		for i, v := range row {
			if err := tup.SetField(i, types.NewIntField(v)); err != nil {
				t.Fatalf("SetField: %v", err)
			}
		}
		tuples = append(tuples, tup)
	}

	s := &intSource{desc: desc, rows: tuples}
	s.BaseIterator = iterator.NewBaseIterator(s.readNext)
	return s
}

func (s *intSource) readNext() (*tuple.Tuple, error) {
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	t := s.rows[s.pos]
	s.pos++
	return t, nil
}

func (s *intSource) Open() error {
	s.pos = 0
	s.BaseIterator.MarkOpened()
	return nil
}

func (s *intSource) Rewind() error {
	s.pos = 0
	return s.BaseIterator.Rewind()
}

func (s *intSource) GetTupleDesc() *tuple.TupleDescription { return s.desc }
func (s *intSource) GetChildren() []iterator.DbIterator    { return nil }
func (s *intSource) SetChildren(children []iterator.DbIterator) {
	if len(children) != 0 {
		panic("intSource.SetChildren: leaf operator takes no children")
	}
}

func drainJoin(t *testing.T, j *Join) [][]int32 {
	t.Helper()
	if err := j.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	var results [][]int32
	for {
		has, err := j.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		tup, err := j.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		row := make([]int32, tup.TupleDesc.NumFields())
		for i := range row {
			f, err := tup.GetField(i)
			if err != nil {
				t.Fatalf("GetField(%d): %v", i, err)
			}
			row[i] = f.(*types.IntField).Value
		}
		results = append(results, row)
	}
	return results
}

// TestJoinNestedLoopEquality mirrors the nested-loop join scenario: R(x) =
// [1,2,3], S(y,z) = [(2,200),(3,300),(4,400)], joined on x = y.
func TestJoinNestedLoopEquality(t *testing.T) {
	left := newIntSource(t, []string{"x"}, [][]int32{{1}, {2}, {3}})
	right := newIntSource(t, []string{"y", "z"}, [][]int32{{2, 200}, {3, 300}, {4, 400}})

	pred := NewJoinPredicate(0, 0, primitives.Equals)
	j, err := NewJoin(pred, left, right)
	if err != nil {
		t.Fatalf("NewJoin: %v", err)
	}

	got := drainJoin(t, j)
	want := [][]int32{{2, 2, 200}, {3, 3, 300}}

	if len(got) != len(want) {
		t.Fatalf("expected %d joined rows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		for col := range want[i] {
			if got[i][col] != want[i][col] {
				t.Errorf("row %d col %d: got %d, want %d", i, col, got[i][col], want[i][col])
			}
		}
	}
}

func TestJoinNoMatchesYieldsNoRows(t *testing.T) {
	left := newIntSource(t, []string{"x"}, [][]int32{{100}})
	right := newIntSource(t, []string{"y"}, [][]int32{{1}, {2}, {3}})

	pred := NewJoinPredicate(0, 0, primitives.Equals)
	j, err := NewJoin(pred, left, right)
	if err != nil {
		t.Fatalf("NewJoin: %v", err)
	}

	got := drainJoin(t, j)
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %v", got)
	}
}

func TestJoinRewindReplaysResults(t *testing.T) {
	left := newIntSource(t, []string{"x"}, [][]int32{{1}, {2}})
	right := newIntSource(t, []string{"y"}, [][]int32{{1}, {2}})

	pred := NewJoinPredicate(0, 0, primitives.Equals)
	j, err := NewJoin(pred, left, right)
	if err != nil {
		t.Fatalf("NewJoin: %v", err)
	}

	if err := j.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	first := countRemaining(t, j)
	if err := j.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second := countRemaining(t, j)

	if first != second || first != 2 {
		t.Errorf("expected 2 rows before and after rewind, got %d then %d", first, second)
	}
}

func countRemaining(t *testing.T, j *Join) int {
	t.Helper()
	n := 0
	for {
		has, err := j.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		if _, err := j.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
		n++
	}
	return n
}

func TestJoinGetChildrenExposesBothSides(t *testing.T) {
	left := newIntSource(t, []string{"x"}, [][]int32{{1}})
	right := newIntSource(t, []string{"y"}, [][]int32{{1}})
	pred := NewJoinPredicate(0, 0, primitives.Equals)
	j, err := NewJoin(pred, left, right)
	if err != nil {
		t.Fatalf("NewJoin: %v", err)
	}

	children := j.GetChildren()
	if len(children) != 2 || children[0] != left || children[1] != right {
		t.Errorf("expected GetChildren to return [left, right]")
	}
}

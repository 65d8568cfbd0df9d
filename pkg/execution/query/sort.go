package query

import (
	"fmt"
	"simpledb/pkg/iterator"
	"simpledb/pkg/primitives"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
	"sort"
)

// OrderBy materializes every tuple from its child at Open, sorts them
// stably by one field, and serves them back in that order.
type OrderBy struct {
	*iterator.UnaryOperator
	fieldIdx  int
	ascending bool
	rows      *iterator.SliceIterator[*tuple.Tuple]
}

func NewOrderBy(fieldIdx int, ascending bool, child iterator.DbIterator) (*OrderBy, error) {
	if child == nil {
		return nil, fmt.Errorf("child operator cannot be nil")
	}

	o := &OrderBy{fieldIdx: fieldIdx, ascending: ascending}
	op, err := iterator.NewUnaryOperator(child, o.readNext)
	if err != nil {
		return nil, err
	}
	o.UnaryOperator = op
	return o, nil
}

func (o *OrderBy) Open() error {
	if err := o.UnaryOperator.Open(); err != nil {
		return err
	}
	return o.materialize()
}

func (o *OrderBy) Rewind() error {
	if err := o.UnaryOperator.Rewind(); err != nil {
		return err
	}
	return o.materialize()
}

type sortRow struct {
	tup *tuple.Tuple
	key types.Field
}

func (o *OrderBy) materialize() error {
	rows, err := iterator.Collect(o.GetChild())
	if err != nil {
		return err
	}

	paired := make([]sortRow, len(rows))
	for i, row := range rows {
		f, err := row.GetField(o.fieldIdx)
		if err != nil {
			return fmt.Errorf("order by field %d: %w", o.fieldIdx, err)
		}
		paired[i] = sortRow{tup: row, key: f}
	}

	sort.SliceStable(paired, func(i, j int) bool {
		if o.ascending {
			less, _ := paired[i].key.Compare(primitives.LessThan, paired[j].key)
			return less
		}
		greater, _ := paired[i].key.Compare(primitives.GreaterThan, paired[j].key)
		return greater
	})

	sorted := make([]*tuple.Tuple, len(paired))
	for i, p := range paired {
		sorted[i] = p.tup
	}
	o.rows = iterator.NewSliceIterator(sorted)
	return nil
}

func (o *OrderBy) readNext() (*tuple.Tuple, error) {
	if !o.rows.HasNext() {
		return nil, nil
	}
	return o.rows.Next()
}

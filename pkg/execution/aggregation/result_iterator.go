package aggregation

import (
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
)

// resultIterator streams an aggregator's materialized result rows. It is a
// leaf operator: aggregation is computed eagerly during the owning
// AggregateOperator's Open, so by the time this iterator exists there is
// nothing left to pull from.
type resultIterator struct {
	base *iterator.BaseIterator
	rows *iterator.SliceIterator[*tuple.Tuple]
	desc *tuple.TupleDescription
}

func newResultIterator(desc *tuple.TupleDescription, rows []*tuple.Tuple) *resultIterator {
	r := &resultIterator{rows: iterator.NewSliceIterator(rows), desc: desc}
	r.base = iterator.NewBaseIterator(r.readNext)
	return r
}

func (r *resultIterator) readNext() (*tuple.Tuple, error) {
	if !r.rows.HasNext() {
		return nil, nil
	}
	return r.rows.Next()
}

func (r *resultIterator) Open() error {
	if err := r.rows.Rewind(); err != nil {
		return err
	}
	r.base.MarkOpened()
	return nil
}

func (r *resultIterator) Close() error {
	return r.base.Close()
}

func (r *resultIterator) Rewind() error {
	if err := r.rows.Rewind(); err != nil {
		return err
	}
	return r.base.Rewind()
}

func (r *resultIterator) HasNext() (bool, error) {
	return r.base.HasNext()
}

func (r *resultIterator) Next() (*tuple.Tuple, error) {
	return r.base.Next()
}

func (r *resultIterator) GetTupleDesc() *tuple.TupleDescription {
	return r.desc
}

func (r *resultIterator) GetChildren() []iterator.DbIterator {
	return nil
}

func (r *resultIterator) SetChildren(children []iterator.DbIterator) {
	if len(children) != 0 {
		panic("resultIterator.SetChildren: leaf operator takes no children")
	}
}

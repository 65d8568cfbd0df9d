package query

import (
	"fmt"
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
)

// Filter passes through only the tuples from its child that satisfy a
// predicate, dropping the rest. It never buffers more than one tuple.
type Filter struct {
	*iterator.UnaryOperator
	predicate *Predicate
}

func NewFilter(predicate *Predicate, child iterator.DbIterator) (*Filter, error) {
	if predicate == nil {
		return nil, fmt.Errorf("predicate cannot be nil")
	}

	f := &Filter{predicate: predicate}
	op, err := iterator.NewUnaryOperator(child, f.readNext)
	if err != nil {
		return nil, err
	}
	f.UnaryOperator = op
	return f, nil
}

func (f *Filter) readNext() (*tuple.Tuple, error) {
	for {
		t, err := f.FetchNext()
		if err != nil || t == nil {
			return t, err
		}

		passes, err := f.predicate.Filter(t)
		if err != nil {
			return nil, fmt.Errorf("predicate evaluation failed: %w", err)
		}
		if passes {
			return t, nil
		}
	}
}

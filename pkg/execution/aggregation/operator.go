package aggregation

import (
	"fmt"
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

// AggregateOperator computes a (possibly grouped) aggregate over its
// child's output. It is a blocking operator: Open drains the child
// entirely and computes every group before the first result row is
// available, matching the distilled spec's pull model at the top of the
// plan while still needing a full pass underneath.
type AggregateOperator struct {
	*iterator.UnaryOperator
	aggregator Aggregator
	results    iterator.DbIterator
}

// NewAggregateOperator builds an aggregate over source's aField, grouped by
// gField (or NoGrouping). The concrete Aggregator is chosen from aField's
// declared type: IntegerAggregator for IntType, StringAggregator for
// StringType.
func NewAggregateOperator(source iterator.DbIterator, aField, gField int, op AggregateOp) (*AggregateOperator, error) {
	if source == nil {
		return nil, fmt.Errorf("source iterator cannot be nil")
	}

	sourceDesc := source.GetTupleDesc()
	if sourceDesc == nil {
		return nil, fmt.Errorf("source tuple description cannot be nil")
	}
	if aField < 0 || aField >= len(sourceDesc.Types) {
		return nil, fmt.Errorf("invalid aggregate field index: %d", aField)
	}
	if gField != NoGrouping && (gField < 0 || gField >= len(sourceDesc.Types)) {
		return nil, fmt.Errorf("invalid group field index: %d", gField)
	}

	var gbType types.Type
	if gField != NoGrouping {
		gbType = sourceDesc.Types[gField]
	}

	a := &AggregateOperator{}
	var err error
	switch sourceDesc.Types[aField] {
	case types.IntType:
		a.aggregator, err = NewIntegerAggregator(gField, gbType, aField, op)
	case types.StringType:
		a.aggregator, err = NewStringAggregator(gField, gbType, aField, op)
	default:
		return nil, fmt.Errorf("unsupported field type for aggregation: %v", sourceDesc.Types[aField])
	}
	if err != nil {
		return nil, err
	}

	unary, err := iterator.NewUnaryOperator(source, a.readNext)
	if err != nil {
		return nil, err
	}
	a.UnaryOperator = unary
	return a, nil
}

// GetTupleDesc returns the aggregator's result schema, not the child's.
func (a *AggregateOperator) GetTupleDesc() *tuple.TupleDescription {
	return a.aggregator.GetTupleDesc()
}

func (a *AggregateOperator) Open() error {
	if err := a.UnaryOperator.Open(); err != nil {
		return err
	}

	err := iterator.ForEach(a.GetChild(), a.aggregator.Merge)
	if err != nil {
		return fmt.Errorf("error merging child tuples: %w", err)
	}

	a.results = a.aggregator.Iterator()
	return a.results.Open()
}

func (a *AggregateOperator) Close() error {
	if a.results != nil {
		if err := a.results.Close(); err != nil {
			return err
		}
	}
	return a.UnaryOperator.Close()
}

// Rewind resets iteration over the already-computed result set and clears
// the peeked tuple; the child is rewound but not re-scanned, and the
// aggregate is not recomputed.
func (a *AggregateOperator) Rewind() error {
	if a.results == nil {
		return fmt.Errorf("aggregate operator not opened")
	}
	if err := a.results.Rewind(); err != nil {
		return err
	}
	return a.UnaryOperator.Rewind()
}

func (a *AggregateOperator) readNext() (*tuple.Tuple, error) {
	if a.results == nil {
		return nil, nil
	}
	hasNext, err := a.results.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, nil
	}
	return a.results.Next()
}

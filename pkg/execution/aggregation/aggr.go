package aggregation

import (
	dberror "simpledb/pkg/error"
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

// NoGrouping marks an aggregate with no GROUP BY clause.
const NoGrouping = -1

// AggregateOp is the aggregation function an Aggregator computes per group.
type AggregateOp int

const (
	Min AggregateOp = iota
	Max
	Sum
	Avg
	Count
)

func (op AggregateOp) String() string {
	switch op {
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Count:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

// Aggregator merges tuples into per-group running state and hands back the
// finished result set as an iterator once the caller is done merging.
type Aggregator interface {
	// Merge folds one input tuple into its group's running aggregate.
	Merge(tup *tuple.Tuple) error

	// Iterator materializes the result rows and returns a leaf iterator
	// over them: (groupValue, aggregateValue) if grouped, (aggregateValue)
	// otherwise.
	Iterator() iterator.DbIterator

	// GetTupleDesc describes the result rows Iterator() will produce.
	GetTupleDesc() *tuple.TupleDescription
}

func aggregateTupleDesc(gbField int, gbType types.Type, op AggregateOp, resultType types.Type) (*tuple.TupleDescription, error) {
	if gbField == NoGrouping {
		return tuple.NewTupleDesc([]types.Type{resultType}, []string{op.String()})
	}
	return tuple.NewTupleDesc([]types.Type{gbType, resultType}, []string{"group", op.String()})
}

// extractGroupKey returns the string group key and the raw group-by field
// (nil when ungrouped) for a merged tuple.
func extractGroupKey(t *tuple.Tuple, gbField int) (string, types.Field, error) {
	if gbField == NoGrouping {
		return "", nil, nil
	}
	f, err := t.GetField(gbField)
	if err != nil {
		return "", nil, dberror.Wrap(err, dberror.CodeNotOnPage, "Merge", "Aggregator")
	}
	return f.String(), f, nil
}

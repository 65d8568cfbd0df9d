package aggregation

import (
	"fmt"
	"math"
	dberror "simpledb/pkg/error"
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

type intGroupState struct {
	groupVal types.Field
	value    int32
	count    int32
}

// IntegerAggregator computes MIN, MAX, SUM, AVG, or COUNT over an integer
// field, optionally grouped by another field.
type IntegerAggregator struct {
	gbField   int
	gbType    types.Type
	aField    int
	op        AggregateOp
	order     []string
	groups    map[string]*intGroupState
	tupleDesc *tuple.TupleDescription
}

func NewIntegerAggregator(gbField int, gbType types.Type, aField int, op AggregateOp) (*IntegerAggregator, error) {
	td, err := aggregateTupleDesc(gbField, gbType, op, types.IntType)
	if err != nil {
		return nil, fmt.Errorf("creating integer aggregator: %w", err)
	}
	return &IntegerAggregator{
		gbField:   gbField,
		gbType:    gbType,
		aField:    aField,
		op:        op,
		groups:    make(map[string]*intGroupState),
		tupleDesc: td,
	}, nil
}

func (a *IntegerAggregator) GetTupleDesc() *tuple.TupleDescription {
	return a.tupleDesc
}

func (a *IntegerAggregator) Merge(t *tuple.Tuple) error {
	groupKey, groupVal, err := extractGroupKey(t, a.gbField)
	if err != nil {
		return err
	}

	f, err := t.GetField(a.aField)
	if err != nil {
		return dberror.Wrap(err, dberror.CodeNotOnPage, "Merge", "IntegerAggregator")
	}
	iv, ok := f.(*types.IntField)
	if !ok {
		return fmt.Errorf("aggregate field is not an integer: %T", f)
	}

	state, exists := a.groups[groupKey]
	if !exists {
		state = &intGroupState{groupVal: groupVal, value: initialIntValue(a.op)}
		a.groups[groupKey] = state
		a.order = append(a.order, groupKey)
	}

	switch a.op {
	case Min:
		if iv.Value < state.value {
			state.value = iv.Value
		}
	case Max:
		if iv.Value > state.value {
			state.value = iv.Value
		}
	case Sum, Avg:
		state.value += iv.Value
	case Count:
		state.value++
	default:
		return fmt.Errorf("unsupported integer aggregate operation: %s", a.op)
	}
	state.count++
	return nil
}

func initialIntValue(op AggregateOp) int32 {
	switch op {
	case Min:
		return math.MaxInt32
	case Max:
		return math.MinInt32
	default:
		return 0
	}
}

func (a *IntegerAggregator) Iterator() iterator.DbIterator {
	rows := make([]*tuple.Tuple, 0, len(a.order))
	for _, key := range a.order {
		state := a.groups[key]
		result := state.value
		if a.op == Avg && state.count > 0 {
			result = state.value / state.count
		}

		row := tuple.NewTuple(a.tupleDesc)
		if a.gbField == NoGrouping {
			row.SetField(0, types.NewIntField(result))
		} else {
			row.SetField(0, state.groupVal)
			row.SetField(1, types.NewIntField(result))
		}
		rows = append(rows, row)
	}
	return newResultIterator(a.tupleDesc, rows)
}

package aggregation

import (
	"fmt"
	dberror "simpledb/pkg/error"
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

type stringGroupState struct {
	groupVal types.Field
	count    int32
}

// StringAggregator computes COUNT over a string field, optionally grouped
// by another field. Any other operation is rejected at construction time:
// strings have no natural SUM/AVG, and MIN/MAX over strings aren't part of
// this engine's operator contract.
type StringAggregator struct {
	gbField   int
	gbType    types.Type
	aField    int
	order     []string
	groups    map[string]*stringGroupState
	tupleDesc *tuple.TupleDescription
}

func NewStringAggregator(gbField int, gbType types.Type, aField int, op AggregateOp) (*StringAggregator, error) {
	if op != Count {
		return nil, dberror.New(dberror.ErrCategoryUser, dberror.CodeUnsupportedOperator,
			fmt.Sprintf("string aggregator does not support %s", op))
	}

	td, err := aggregateTupleDesc(gbField, gbType, Count, types.IntType)
	if err != nil {
		return nil, fmt.Errorf("creating string aggregator: %w", err)
	}
	return &StringAggregator{
		gbField:   gbField,
		gbType:    gbType,
		aField:    aField,
		groups:    make(map[string]*stringGroupState),
		tupleDesc: td,
	}, nil
}

func (a *StringAggregator) GetTupleDesc() *tuple.TupleDescription {
	return a.tupleDesc
}

func (a *StringAggregator) Merge(t *tuple.Tuple) error {
	groupKey, groupVal, err := extractGroupKey(t, a.gbField)
	if err != nil {
		return err
	}

	if _, err := t.GetField(a.aField); err != nil {
		return dberror.Wrap(err, dberror.CodeNotOnPage, "Merge", "StringAggregator")
	}

	state, exists := a.groups[groupKey]
	if !exists {
		state = &stringGroupState{groupVal: groupVal}
		a.groups[groupKey] = state
		a.order = append(a.order, groupKey)
	}
	state.count++
	return nil
}

func (a *StringAggregator) Iterator() iterator.DbIterator {
	rows := make([]*tuple.Tuple, 0, len(a.order))
	for _, key := range a.order {
		state := a.groups[key]
		row := tuple.NewTuple(a.tupleDesc)
		if a.gbField == NoGrouping {
			row.SetField(0, types.NewIntField(state.count))
		} else {
			row.SetField(0, state.groupVal)
			row.SetField(1, types.NewIntField(state.count))
		}
		rows = append(rows, row)
	}
	return newResultIterator(a.tupleDesc, rows)
}

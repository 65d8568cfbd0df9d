package join

import (
	"fmt"
	"simpledb/pkg/iterator"
	"simpledb/pkg/tuple"
)

// Join implements the classic nested-loop join: for each left tuple it
// rewinds the right child and scans it in full, yielding the concatenation
// of every (left, right) pair that satisfies the predicate.
type Join struct {
	*iterator.BinaryOperator
	predicate *JoinPredicate
	tupleDesc *tuple.TupleDescription
	current   *tuple.Tuple
}

func NewJoin(predicate *JoinPredicate, left, right iterator.DbIterator) (*Join, error) {
	if predicate == nil {
		return nil, fmt.Errorf("join predicate cannot be nil")
	}
	if left == nil || right == nil {
		return nil, fmt.Errorf("join children cannot be nil")
	}

	leftDesc := left.GetTupleDesc()
	rightDesc := right.GetTupleDesc()
	if leftDesc == nil || rightDesc == nil {
		return nil, fmt.Errorf("child operators must have valid tuple descriptors")
	}

	j := &Join{predicate: predicate, tupleDesc: tuple.Combine(leftDesc, rightDesc)}
	op, err := iterator.NewBinaryOperator(left, right, j.readNext)
	if err != nil {
		return nil, err
	}
	j.BinaryOperator = op
	return j, nil
}

func (j *Join) GetTupleDesc() *tuple.TupleDescription {
	return j.tupleDesc
}

func (j *Join) Open() error {
	if err := j.BinaryOperator.Open(); err != nil {
		return err
	}
	return j.advanceLeft()
}

func (j *Join) Rewind() error {
	if err := j.BinaryOperator.Rewind(); err != nil {
		return err
	}
	return j.advanceLeft()
}

// advanceLeft fetches the next left tuple and rewinds the right child ready
// to scan it from the start, or clears current once the left side is
// exhausted.
func (j *Join) advanceLeft() error {
	left, err := j.FetchLeft()
	if err != nil {
		return err
	}
	j.current = left
	if left == nil {
		return nil
	}
	return j.GetRightChild().Rewind()
}

func (j *Join) readNext() (*tuple.Tuple, error) {
	for j.current != nil {
		right, err := j.FetchRight()
		if err != nil {
			return nil, err
		}
		if right == nil {
			if err := j.advanceLeft(); err != nil {
				return nil, err
			}
			continue
		}

		matches, err := j.predicate.Filter(j.current, right)
		if err != nil {
			return nil, err
		}
		if !matches {
			continue
		}
		return tuple.CombineTuples(j.current, right)
	}
	return nil, nil
}

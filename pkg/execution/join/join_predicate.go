package join

import (
	"fmt"
	"simpledb/pkg/primitives"
	"simpledb/pkg/tuple"
)

// JoinPredicate compares a field of the left tuple against a field of the
// right tuple using a comparison operator, e.g. "R.x = S.y".
type JoinPredicate struct {
	field1 primitives.ColumnID
	field2 primitives.ColumnID
	op     primitives.Predicate
}

func NewJoinPredicate(field1, field2 primitives.ColumnID, op primitives.Predicate) *JoinPredicate {
	return &JoinPredicate{field1: field1, field2: field2, op: op}
}

// Filter reports whether left's field1 and right's field2 satisfy op.
func (jp *JoinPredicate) Filter(left, right *tuple.Tuple) (bool, error) {
	leftField, err := left.GetField(int(jp.field1))
	if err != nil {
		return false, fmt.Errorf("failed to get left field %d: %w", jp.field1, err)
	}
	rightField, err := right.GetField(int(jp.field2))
	if err != nil {
		return false, fmt.Errorf("failed to get right field %d: %w", jp.field2, err)
	}
	return leftField.Compare(jp.op, rightField)
}

func (jp *JoinPredicate) String() string {
	return fmt.Sprintf("left[%d] %s right[%d]", jp.field1, jp.op, jp.field2)
}

func (jp *JoinPredicate) Field1() primitives.ColumnID { return jp.field1 }
func (jp *JoinPredicate) Field2() primitives.ColumnID { return jp.field2 }
func (jp *JoinPredicate) Operation() primitives.Predicate { return jp.op }

package tuple

import (
	"fmt"
	"simpledb/pkg/types"
	"strings"
)

// Tuple is a row: a schema plus one Field per position, plus an optional
// RecordID once it has been placed on a page. Fields may be nil before the
// tuple is fully populated.
type Tuple struct {
	TupleDesc *TupleDescription
	fields    []types.Field
	RecordID  *RecordID
}

// NewTuple creates an empty tuple with every field unset.
func NewTuple(td *TupleDescription) *Tuple {
	return &Tuple{
		TupleDesc: td,
		fields:    make([]types.Field, td.NumFields()),
	}
}

// SetField stores field at index i, rejecting a type that disagrees with
// the tuple's schema.
func (t *Tuple) SetField(i int, field types.Field) error {
	if i < 0 || i >= len(t.fields) {
		return fmt.Errorf("field index %d out of bounds [0, %d)", i, len(t.fields))
	}

	expectedType, err := t.TupleDesc.TypeAtIndex(i)
	if err != nil {
		return err
	}
	if field.GetType() != expectedType {
		return fmt.Errorf("field type mismatch at index %d: expected %v, got %v",
			i, expectedType, field.GetType())
	}

	t.fields[i] = field
	return nil
}

func (t *Tuple) GetField(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, fmt.Errorf("field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

// Equals holds when the descriptors are equal, every field compares equal
// pairwise, and the RecordIDs (including both nil) agree.
func (t *Tuple) Equals(other *Tuple) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !t.TupleDesc.Equals(other.TupleDesc) {
		return false
	}
	if len(t.fields) != len(other.fields) {
		return false
	}
	for i, f := range t.fields {
		of := other.fields[i]
		if f == nil || of == nil {
			if f != of {
				return false
			}
			continue
		}
		if !f.Equals(of) {
			return false
		}
	}
	if t.RecordID == nil || other.RecordID == nil {
		return t.RecordID == other.RecordID
	}
	return t.RecordID.Equals(other.RecordID)
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.fields))
	for i, field := range t.fields {
		if field != nil {
			parts[i] = field.String()
		} else {
			parts[i] = "null"
		}
	}
	return strings.Join(parts, "\t")
}

// CombineTuples concatenates t1's fields followed by t2's fields under the
// merged descriptor produced by Combine(t1.TupleDesc, t2.TupleDesc). Used by
// Join to build the output row from a matching left/right pair.
func CombineTuples(t1, t2 *Tuple) (*Tuple, error) {
	if t1 == nil || t2 == nil {
		return nil, fmt.Errorf("cannot combine nil tuples")
	}

	merged := Combine(t1.TupleDesc, t2.TupleDesc)
	out := NewTuple(merged)

	if err := t1.copyFieldsTo(out, 0); err != nil {
		return nil, err
	}
	if err := t2.copyFieldsTo(out, t1.TupleDesc.NumFields()); err != nil {
		return nil, err
	}

	return out, nil
}

func (t *Tuple) copyFieldsTo(target *Tuple, startIndex int) error {
	for i := 0; i < t.TupleDesc.NumFields(); i++ {
		field, err := t.GetField(i)
		if err != nil {
			return err
		}
		if field != nil {
			if err := target.SetField(startIndex+i, field); err != nil {
				return err
			}
		}
	}
	return nil
}

package types

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"simpledb/pkg/primitives"
	"strconv"
)

// IntSize is the on-disk width of an IntField: a 4-byte, two's-complement,
// big-endian signed integer.
const IntSize = 4

// IntField is a 32-bit signed integer value.
type IntField struct {
	Value int32
}

func NewIntField(value int32) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Serialize(w io.Writer) error {
	var buf [IntSize]byte
	binary.BigEndian.PutUint32(buf[:], uint32(f.Value)) // #nosec G115 -- two's complement round-trip
	_, err := w.Write(buf[:])
	return err
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	o, ok := other.(*IntField)
	if !ok {
		return false, fmt.Errorf("cannot compare IntField with %T", other)
	}
	switch op {
	case primitives.Equals:
		return f.Value == o.Value, nil
	case primitives.LessThan:
		return f.Value < o.Value, nil
	case primitives.GreaterThan:
		return f.Value > o.Value, nil
	case primitives.LessThanOrEqual:
		return f.Value <= o.Value, nil
	case primitives.GreaterThanOrEqual:
		return f.Value >= o.Value, nil
	case primitives.NotEqual:
		return f.Value != o.Value, nil
	default:
		return false, fmt.Errorf("unsupported predicate %v for IntField", op)
	}
}

func (f *IntField) GetType() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(int64(f.Value), 10)
}

func (f *IntField) Equals(other Field) bool {
	o, ok := other.(*IntField)
	return ok && f.Value == o.Value
}

func (f *IntField) Hash() (primitives.HashCode, error) {
	h := fnv.New32a()
	var buf [IntSize]byte
	binary.BigEndian.PutUint32(buf[:], uint32(f.Value)) // #nosec G115
	_, _ = h.Write(buf[:])
	return primitives.HashCode(h.Sum32()), nil
}

// parseIntField reads an IntSize-byte big-endian IntField.
func parseIntField(r io.Reader) (*IntField, error) {
	var buf [IntSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return NewIntField(int32(binary.BigEndian.Uint32(buf[:]))), nil // #nosec G115
}

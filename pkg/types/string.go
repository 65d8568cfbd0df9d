package types

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"simpledb/pkg/primitives"
	"strings"
)

// StringMaxSize is the maximum number of content bytes a StringField may
// hold. On disk a StringField occupies a 4-byte big-endian length prefix
// followed by exactly StringMaxSize bytes, with the tail past the actual
// content zero-padded.
const StringMaxSize = 128

// StringFieldSize is the total on-disk width of a StringField.
const StringFieldSize = 4 + StringMaxSize

// StringField is a fixed-width string value, truncated to StringMaxSize
// bytes of content on construction.
type StringField struct {
	Value string
}

// NewStringField truncates value to StringMaxSize bytes if necessary.
func NewStringField(value string) *StringField {
	if len(value) > StringMaxSize {
		value = value[:StringMaxSize]
	}
	return &StringField{Value: value}
}

func (s *StringField) Serialize(w io.Writer) error {
	length := len(s.Value)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(length)) // #nosec G115 -- bounded by StringMaxSize
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	if _, err := w.Write([]byte(s.Value)); err != nil {
		return err
	}

	padding := make([]byte, StringMaxSize-length)
	_, err := w.Write(padding)
	return err
}

func (s *StringField) Compare(op primitives.Predicate, other Field) (bool, error) {
	o, ok := other.(*StringField)
	if !ok {
		return false, fmt.Errorf("cannot compare StringField with %T", other)
	}

	cmp := strings.Compare(s.Value, o.Value)
	switch op {
	case primitives.Equals:
		return cmp == 0, nil
	case primitives.LessThan:
		return cmp < 0, nil
	case primitives.GreaterThan:
		return cmp > 0, nil
	case primitives.LessThanOrEqual:
		return cmp <= 0, nil
	case primitives.GreaterThanOrEqual:
		return cmp >= 0, nil
	case primitives.NotEqual:
		return cmp != 0, nil
	case primitives.Like:
		return strings.Contains(s.Value, o.Value), nil
	default:
		return false, fmt.Errorf("unsupported predicate %v for StringField", op)
	}
}

func (s *StringField) GetType() Type {
	return StringType
}

func (s *StringField) String() string {
	return s.Value
}

func (s *StringField) Equals(other Field) bool {
	o, ok := other.(*StringField)
	return ok && s.Value == o.Value
}

func (s *StringField) Hash() (primitives.HashCode, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s.Value))
	return primitives.HashCode(h.Sum32()), nil
}

// parseStringField reads a 4-byte big-endian length followed by
// StringMaxSize bytes, trimming the padding tail.
func parseStringField(r io.Reader) (*StringField, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > StringMaxSize {
		return nil, fmt.Errorf("string field length %d exceeds max %d", length, StringMaxSize)
	}

	body := make([]byte, StringMaxSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	return &StringField{Value: string(body[:length])}, nil
}

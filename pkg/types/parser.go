package types

import (
	"fmt"
	"io"
)

// ParseField reads and parses a field of the given Type from r, dispatching
// to the type-specific parser. Used by HeapPage to decode a used slot's
// bytes, and by tests that round-trip a serialized tuple region.
func ParseField(r io.Reader, fieldType Type) (Field, error) {
	switch fieldType {
	case IntType:
		return parseIntField(r)
	case StringType:
		return parseStringField(r)
	default:
		return nil, fmt.Errorf("unsupported field type: %v", fieldType)
	}
}

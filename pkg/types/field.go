package types

import (
	"io"
	"simpledb/pkg/primitives"
)

// Field is a single typed value held by a Tuple. Implementations are
// ordered by natural comparison, compare equal only to a Field of the same
// concrete type and value, and serialize to exactly their Type's Size.
type Field interface {
	// Serialize writes this field's fixed-width on-disk representation.
	Serialize(w io.Writer) error

	// Compare applies op between this field and other, which must be the
	// same concrete Field type. A type mismatch is reported via error, not
	// a false result, so callers can distinguish "doesn't match" from
	// "malformed predicate".
	Compare(op primitives.Predicate, other Field) (bool, error)

	GetType() Type

	String() string

	Equals(other Field) bool

	Hash() (primitives.HashCode, error)
}

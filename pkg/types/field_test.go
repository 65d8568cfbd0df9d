package types

import (
	"bytes"
	"simpledb/pkg/primitives"
	"testing"
)

func TestIntFieldSerializeRoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 42, -42, 1 << 30, -(1 << 30)}

	for _, v := range tests {
		f := NewIntField(v)

		var buf bytes.Buffer
		if err := f.Serialize(&buf); err != nil {
			t.Fatalf("Serialize(%d): %v", v, err)
		}
		if buf.Len() != IntSize {
			t.Fatalf("serialized IntField has length %d, want %d", buf.Len(), IntSize)
		}

		parsed, err := ParseField(&buf, IntType)
		if err != nil {
			t.Fatalf("ParseField: %v", err)
		}
		if !parsed.Equals(f) {
			t.Errorf("round-trip mismatch: got %v, want %v", parsed, f)
		}
	}
}

func TestIntFieldCompare(t *testing.T) {
	a := NewIntField(5)
	b := NewIntField(7)

	cases := []struct {
		op   primitives.Predicate
		want bool
	}{
		{primitives.Equals, false},
		{primitives.NotEqual, true},
		{primitives.LessThan, true},
		{primitives.GreaterThan, false},
		{primitives.LessThanOrEqual, true},
		{primitives.GreaterThanOrEqual, false},
	}
	for _, c := range cases {
		got, err := a.Compare(c.op, b)
		if err != nil {
			t.Fatalf("Compare(%v): %v", c.op, err)
		}
		if got != c.want {
			t.Errorf("5 %v 7 = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestStringFieldSerializeRoundTrip(t *testing.T) {
	tests := []string{"", "hello", string(make([]byte, StringMaxSize))}

	for _, v := range tests {
		f := NewStringField(v)

		var buf bytes.Buffer
		if err := f.Serialize(&buf); err != nil {
			t.Fatalf("Serialize(%q): %v", v, err)
		}
		if buf.Len() != StringFieldSize {
			t.Fatalf("serialized StringField has length %d, want %d", buf.Len(), StringFieldSize)
		}

		parsed, err := ParseField(&buf, StringType)
		if err != nil {
			t.Fatalf("ParseField: %v", err)
		}
		if !parsed.Equals(f) {
			t.Errorf("round-trip mismatch: got %q, want %q", parsed, f)
		}
	}
}

func TestStringFieldTruncatesOnConstruction(t *testing.T) {
	long := make([]byte, StringMaxSize+10)
	for i := range long {
		long[i] = 'x'
	}
	f := NewStringField(string(long))
	if len(f.Value) != StringMaxSize {
		t.Fatalf("expected truncation to %d bytes, got %d", StringMaxSize, len(f.Value))
	}
}

func TestStringFieldLike(t *testing.T) {
	s := NewStringField("the quick brown fox")
	sub := NewStringField("quick")

	ok, err := s.Compare(primitives.Like, sub)
	if err != nil || !ok {
		t.Fatalf("expected LIKE match, got ok=%v err=%v", ok, err)
	}

	ok, err = s.Compare(primitives.Like, NewStringField("slow"))
	if err != nil || ok {
		t.Fatalf("expected LIKE non-match, got ok=%v err=%v", ok, err)
	}
}

func TestFieldCrossTypeCompareErrors(t *testing.T) {
	i := NewIntField(1)
	s := NewStringField("1")

	if _, err := i.Compare(primitives.Equals, s); err == nil {
		t.Error("expected error comparing IntField to StringField")
	}
	if _, err := s.Compare(primitives.Equals, i); err == nil {
		t.Error("expected error comparing StringField to IntField")
	}
}

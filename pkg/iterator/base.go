package iterator

import (
	dberror "simpledb/pkg/error"
	"fmt"
	"simpledb/pkg/tuple"
)

// ReadNextFunc produces the operator's next output tuple, or (nil, nil)
// once exhausted. Operators supply this as their entire transformation
// logic; BaseIterator turns it into a proper HasNext/Next pull iterator
// by peeking one tuple ahead.
type ReadNextFunc func() (*tuple.Tuple, error)

// BaseIterator implements the HasNext/Next/Rewind/Close half of the pull
// contract on top of a ReadNextFunc, so every concrete operator needs only
// to implement its own readNext. It caches one peeked tuple so repeated
// HasNext calls don't re-run the underlying logic.
type BaseIterator struct {
	readNext ReadNextFunc
	opened   bool
	peeked   bool
	next     *tuple.Tuple
}

func NewBaseIterator(readNext ReadNextFunc) *BaseIterator {
	return &BaseIterator{readNext: readNext}
}

// MarkOpened resets the peek cache and marks the iterator ready for use.
// Callers embedding BaseIterator invoke this from their own Open after
// opening any children.
func (b *BaseIterator) MarkOpened() {
	b.opened = true
	b.peeked = false
	b.next = nil
}

func (b *BaseIterator) HasNext() (bool, error) {
	if !b.opened {
		return false, fmt.Errorf("iterator not opened")
	}
	if !b.peeked {
		t, err := b.readNext()
		if err != nil {
			return false, err
		}
		b.next = t
		b.peeked = true
	}
	return b.next != nil, nil
}

func (b *BaseIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := b.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberror.NoSuchElement("no more tuples")
	}
	t := b.next
	b.next = nil
	b.peeked = false
	return t, nil
}

// Rewind clears the peek cache; callers embedding BaseIterator are
// responsible for rewinding any children or underlying state first.
func (b *BaseIterator) Rewind() error {
	b.peeked = false
	b.next = nil
	return nil
}

func (b *BaseIterator) Close() error {
	b.opened = false
	b.peeked = false
	b.next = nil
	return nil
}

package tuple

import "fmt"

// TupleIterator walks an in-memory slice of tuples. It is used to feed
// fixture data into Insert/Delete operators in tests, where no HeapFile
// scan is involved.
type TupleIterator struct {
	tuples []*Tuple
	desc   *TupleDescription
	index  int
	opened bool
}

func NewTupleIterator(desc *TupleDescription, tuples []*Tuple) *TupleIterator {
	return &TupleIterator{
		tuples: tuples,
		desc:   desc,
		index:  -1,
	}
}

func (it *TupleIterator) Open() error {
	it.opened = true
	it.index = -1
	return nil
}

func (it *TupleIterator) Close() error {
	it.opened = false
	return nil
}

func (it *TupleIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("tuple iterator not opened")
	}
	return it.index+1 < len(it.tuples), nil
}

func (it *TupleIterator) Next() (*Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, fmt.Errorf("no more tuples")
	}
	it.index++
	return it.tuples[it.index], nil
}

func (it *TupleIterator) Rewind() error {
	if !it.opened {
		return fmt.Errorf("tuple iterator not opened")
	}
	it.index = -1
	return nil
}

func (it *TupleIterator) GetTupleDesc() *TupleDescription {
	return it.desc
}

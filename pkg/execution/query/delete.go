package query

import (
	"fmt"
	"simpledb/pkg/iterator"
	"simpledb/pkg/memory"
	"simpledb/pkg/primitives"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

// Delete is the symmetric counterpart of Insert: it pulls its child to
// exhaustion at Open, removing every tuple through the buffer pool, then
// serves a single one-field tuple holding the count of rows deleted.
type Delete struct {
	*iterator.UnaryOperator
	tid       *primitives.TransactionID
	bp        *memory.BufferPool
	tupleDesc *tuple.TupleDescription
	result    *tuple.Tuple
	served    bool
}

func NewDelete(tid *primitives.TransactionID, bp *memory.BufferPool, child iterator.DbIterator) (*Delete, error) {
	if child == nil {
		return nil, fmt.Errorf("child operator cannot be nil")
	}

	resultDesc, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"count"})
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}

	del := &Delete{tid: tid, bp: bp, tupleDesc: resultDesc}
	op, err := iterator.NewUnaryOperator(child, del.readNext)
	if err != nil {
		return nil, err
	}
	del.UnaryOperator = op
	return del, nil
}

func (del *Delete) GetTupleDesc() *tuple.TupleDescription {
	return del.tupleDesc
}

func (del *Delete) Open() error {
	if err := del.UnaryOperator.Open(); err != nil {
		return err
	}
	return del.run()
}

func (del *Delete) Rewind() error {
	if err := del.UnaryOperator.Rewind(); err != nil {
		return err
	}
	return del.run()
}

func (del *Delete) run() error {
	var count int32
	for {
		t, err := del.FetchNext()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
		if err := del.bp.DeleteTuple(del.tid, t); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		count++
	}

	result := tuple.NewTuple(del.tupleDesc)
	if err := result.SetField(0, types.NewIntField(count)); err != nil {
		return err
	}
	del.result = result
	del.served = false
	return nil
}

func (del *Delete) readNext() (*tuple.Tuple, error) {
	if del.served {
		return nil, nil
	}
	del.served = true
	return del.result, nil
}

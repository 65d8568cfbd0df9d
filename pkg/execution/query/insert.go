package query

import (
	"fmt"
	"simpledb/pkg/catalog"
	dberror "simpledb/pkg/error"
	"simpledb/pkg/iterator"
	"simpledb/pkg/memory"
	"simpledb/pkg/primitives"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
)

// Insert pulls its child to exhaustion at Open, pushing every tuple through
// the buffer pool, then serves a single one-field tuple holding the count
// of rows inserted. Calling fetchNext again returns nothing until Rewind.
type Insert struct {
	*iterator.UnaryOperator
	tid       *primitives.TransactionID
	bp        *memory.BufferPool
	tableID   primitives.TableID
	tupleDesc *tuple.TupleDescription
	result    *tuple.Tuple
	served    bool
}

func NewInsert(tid *primitives.TransactionID, bp *memory.BufferPool, cat *catalog.Catalog, child iterator.DbIterator, tableID primitives.TableID) (*Insert, error) {
	if child == nil {
		return nil, fmt.Errorf("child operator cannot be nil")
	}

	tableDesc, err := cat.GetTupleDesc(tableID)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	if !child.GetTupleDesc().Equals(tableDesc) {
		return nil, dberror.SchemaMismatch(fmt.Sprintf("insert child schema %s does not match table schema %s", child.GetTupleDesc(), tableDesc))
	}

	resultDesc, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"count"})
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	ins := &Insert{tid: tid, bp: bp, tableID: tableID, tupleDesc: resultDesc}
	op, err := iterator.NewUnaryOperator(child, ins.readNext)
	if err != nil {
		return nil, err
	}
	ins.UnaryOperator = op
	return ins, nil
}

func (ins *Insert) GetTupleDesc() *tuple.TupleDescription {
	return ins.tupleDesc
}

func (ins *Insert) Open() error {
	if err := ins.UnaryOperator.Open(); err != nil {
		return err
	}
	return ins.run()
}

func (ins *Insert) Rewind() error {
	if err := ins.UnaryOperator.Rewind(); err != nil {
		return err
	}
	return ins.run()
}

func (ins *Insert) run() error {
	var count int32
	for {
		t, err := ins.FetchNext()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
		if err := ins.bp.InsertTuple(ins.tid, ins.tableID, t); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		count++
	}

	result := tuple.NewTuple(ins.tupleDesc)
	if err := result.SetField(0, types.NewIntField(count)); err != nil {
		return err
	}
	ins.result = result
	ins.served = false
	return nil
}

func (ins *Insert) readNext() (*tuple.Tuple, error) {
	if ins.served {
		return nil, nil
	}
	ins.served = true
	return ins.result, nil
}

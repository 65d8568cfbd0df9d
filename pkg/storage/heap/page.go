package heap

import (
	"bytes"
	"fmt"
	dberror "simpledb/pkg/error"
	"simpledb/pkg/primitives"
	"simpledb/pkg/storage/page"
	"simpledb/pkg/tuple"
	"simpledb/pkg/types"
	"sync"
)

// popcount8 holds the number of set bits for every possible byte value,
// letting getNumEmptySlots scan a header in O(len(header)) rather than
// testing each bit individually.
var popcount8 = func() [256]uint8 {
	var table [256]uint8
	for i := range table {
		var n int
		for b := i; b != 0; b >>= 1 {
			n += b & 1
		}
		table[i] = uint8(n)
	}
	return table
}()

// HeapPage is a fixed-size page holding a bitmap header followed by N
// fixed-width tuple slots. Slot i is live iff bit i of the header is set,
// using LSB-first ordering within each header byte.
type HeapPage struct {
	mutex sync.RWMutex

	pageID    *page.PageDescriptor
	tupleDesc *tuple.TupleDescription

	numSlots   int
	headerLen  int
	tupleSize  int
	header     []byte
	slots      []*tuple.Tuple

	dirtier     *primitives.TransactionID
	beforeImage []byte
}

// NumSlots returns the page's fixed slot capacity given a tuple width:
// floor(pageSize*8 / (tupleSize*8 + 1)), one header bit per slot.
func NumSlots(tupleSize int) int {
	if tupleSize <= 0 {
		return 0
	}
	return (page.PageSize * 8) / (tupleSize*8 + 1)
}

func headerLength(numSlots int) int {
	return (numSlots + 7) / 8
}

// NewEmptyHeapPage builds a fresh, all-empty page for pid using td's schema.
func NewEmptyHeapPage(pid *page.PageDescriptor, td *tuple.TupleDescription) (*HeapPage, error) {
	return NewHeapPage(pid, make([]byte, page.PageSize), td)
}

// NewHeapPage parses raw page bytes: the header bitmap, then N fixed-width
// tuple regions. Empty slots are skipped without constructing a Tuple.
func NewHeapPage(pid *page.PageDescriptor, data []byte, td *tuple.TupleDescription) (*HeapPage, error) {
	if len(data) != page.PageSize {
		return nil, fmt.Errorf("invalid page data size: expected %d, got %d", page.PageSize, len(data))
	}

	tupleSize := int(td.GetSize())
	numSlots := NumSlots(tupleSize)
	if numSlots <= 0 {
		return nil, fmt.Errorf("tuple size %d does not fit any slots in a %d-byte page", tupleSize, page.PageSize)
	}
	hlen := headerLength(numSlots)

	hp := &HeapPage{
		pageID:    pid,
		tupleDesc: td,
		numSlots:  numSlots,
		headerLen: hlen,
		tupleSize: tupleSize,
		header:    make([]byte, hlen),
		slots:     make([]*tuple.Tuple, numSlots),
	}
	copy(hp.header, data[:hlen])

	r := bytes.NewReader(data[hlen:])
	for slot := 0; slot < numSlots; slot++ {
		if !hp.isSlotUsedLocked(slot) {
			if _, err := r.Seek(int64(tupleSize), 1); err != nil {
				return nil, fmt.Errorf("skipping empty slot %d: %w", slot, err)
			}
			continue
		}

		t, err := readTuple(r, td)
		if err != nil {
			return nil, fmt.Errorf("reading slot %d: %w", slot, err)
		}
		t.RecordID = tuple.NewRecordID(pid, primitives.SlotID(slot)) // #nosec G115
		hp.slots[slot] = t
	}

	hp.beforeImage = append([]byte(nil), data...)
	return hp, nil
}

func readTuple(r *bytes.Reader, td *tuple.TupleDescription) (*tuple.Tuple, error) {
	t := tuple.NewTuple(td)
	for i := 0; i < td.NumFields(); i++ {
		ft, err := td.TypeAtIndex(i)
		if err != nil {
			return nil, err
		}
		f, err := types.ParseField(r, ft)
		if err != nil {
			return nil, err
		}
		if err := t.SetField(i, f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (hp *HeapPage) isSlotUsedLocked(slot int) bool {
	byteIdx := slot / 8
	bitIdx := uint(slot % 8)
	return hp.header[byteIdx]>>bitIdx&1 == 1
}

// IsSlotUsed reports whether slot currently holds a live tuple.
func (hp *HeapPage) IsSlotUsed(slot int) bool {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.isSlotUsedLocked(slot)
}

func (hp *HeapPage) setSlotUsed(slot int, used bool) {
	byteIdx := slot / 8
	bitIdx := uint(slot % 8)
	if used {
		hp.header[byteIdx] |= 1 << bitIdx
	} else {
		hp.header[byteIdx] &^= 1 << bitIdx
	}
}

// GetNumEmptySlots returns numSlots minus a popcount over the header bytes.
// No adjustment is made for the unused trailing bits of the final header
// byte; setSlotUsed never sets them, so they count as zero.
func (hp *HeapPage) GetNumEmptySlots() int {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	used := 0
	for _, b := range hp.header {
		used += int(popcount8[b])
	}
	return hp.numSlots - used
}

// GetID returns this page's identity.
func (hp *HeapPage) GetID() *page.PageDescriptor {
	return hp.pageID
}

func (hp *HeapPage) IsDirty() *primitives.TransactionID {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.dirtier
}

func (hp *HeapPage) MarkDirty(dirty bool, tid *primitives.TransactionID) {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()
	if dirty {
		hp.dirtier = tid
	} else {
		hp.dirtier = nil
	}
}

// InsertTuple places t in the lowest-indexed empty slot, assigning its
// RecordID. Fails with a schema mismatch or full-page error, never
// partially modifying the page.
func (hp *HeapPage) InsertTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if !t.TupleDesc.Equals(hp.tupleDesc) {
		return dberror.SchemaMismatch(fmt.Sprintf("tuple schema does not match page %s", hp.pageID))
	}

	for slot := 0; slot < hp.numSlots; slot++ {
		if hp.isSlotUsedLocked(slot) {
			continue
		}
		t.RecordID = tuple.NewRecordID(hp.pageID, primitives.SlotID(slot)) // #nosec G115
		hp.slots[slot] = t
		hp.setSlotUsed(slot, true)
		return nil
	}

	return dberror.NoEmptySlots(fmt.Sprintf("page %s is full", hp.pageID))
}

// DeleteTuple clears t's slot, leaving the stored tuple reachable only
// through an iterator snapshot taken before the delete.
func (hp *HeapPage) DeleteTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if t.RecordID == nil {
		return dberror.NotOnPage("tuple has no RecordID; it was never inserted")
	}
	slot := int(t.RecordID.SlotNum)
	if slot < 0 || slot >= hp.numSlots {
		return dberror.NotOnPage(fmt.Sprintf("slot %d out of range for page %s", slot, hp.pageID))
	}
	if !hp.isSlotUsedLocked(slot) {
		return dberror.EmptySlot(fmt.Sprintf("slot %d on page %s is already empty", slot, hp.pageID))
	}
	if hp.slots[slot] != t {
		return dberror.NotOnPage(fmt.Sprintf("tuple is not the one stored at slot %d", slot))
	}

	hp.setSlotUsed(slot, false)
	return nil
}

// GetTuples returns every live tuple in ascending slot order.
func (hp *HeapPage) GetTuples() []*tuple.Tuple {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	out := make([]*tuple.Tuple, 0, hp.numSlots)
	for slot := 0; slot < hp.numSlots; slot++ {
		if hp.isSlotUsedLocked(slot) {
			out = append(out, hp.slots[slot])
		}
	}
	return out
}

// GetPageData serializes header + slot regions + trailing padding to
// exactly page.PageSize bytes. Empty slots are zero-filled and
// NewHeapPage(id, GetPageData()).GetPageData() reproduces this output.
func (hp *HeapPage) GetPageData() []byte {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	buf := make([]byte, page.PageSize)
	copy(buf, hp.header)

	var w bytes.Buffer
	for slot := 0; slot < hp.numSlots; slot++ {
		region := make([]byte, hp.tupleSize)
		if hp.isSlotUsedLocked(slot) {
			var tw bytes.Buffer
			t := hp.slots[slot]
			for i := 0; i < t.TupleDesc.NumFields(); i++ {
				f, _ := t.GetField(i)
				_ = f.Serialize(&tw)
			}
			copy(region, tw.Bytes())
		}
		w.Write(region)
	}

	copy(buf[hp.headerLen:], w.Bytes())
	return buf
}

// GetBeforeImage reconstructs a Page from the most recent SetBeforeImage
// snapshot, used to roll back an aborted transaction's writes.
func (hp *HeapPage) GetBeforeImage() page.Page {
	hp.mutex.RLock()
	snapshot := append([]byte(nil), hp.beforeImage...)
	hp.mutex.RUnlock()

	before, err := NewHeapPage(hp.pageID, snapshot, hp.tupleDesc)
	if err != nil {
		panic(fmt.Sprintf("corrupt before-image for page %s: %v", hp.pageID, err))
	}
	return before
}

// SetBeforeImage refreshes the rollback snapshot to the page's current
// contents. Called when the dirtying transaction commits, so abort of a
// later transaction never reverts past a committed write.
func (hp *HeapPage) SetBeforeImage() {
	data := hp.GetPageData()
	hp.mutex.Lock()
	hp.beforeImage = data
	hp.mutex.Unlock()
}

func (hp *HeapPage) GetTupleDesc() *tuple.TupleDescription {
	return hp.tupleDesc
}

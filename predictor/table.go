package predictor

// IndexedTable is a direct-mapped bank of 2-bit saturating counters.
//
// Callers mask indices with Mask() before calling At. An unmasked index
// is a programming error and panics on the slice bounds check.
type IndexedTable struct {
	counters []SaturatingCounter
	mask     uint32
}

// NewIndexedTable creates a table of 2^bits counters, all weakly not taken.
func NewIndexedTable(bits uint) *IndexedTable {
	t := &IndexedTable{
		counters: make([]SaturatingCounter, 1<<bits),
		mask:     widthMask(bits),
	}
	t.Reset()
	return t
}

// At returns the counter at index. index must already be masked.
func (t *IndexedTable) At(index uint32) *SaturatingCounter {
	return &t.counters[index]
}

// Mask returns size-1.
func (t *IndexedTable) Mask() uint32 {
	return t.mask
}

// Size returns the number of counters.
func (t *IndexedTable) Size() int {
	return len(t.counters)
}

// Reset puts every counter back in the weakly-not-taken state.
func (t *IndexedTable) Reset() {
	for i := range t.counters {
		t.counters[i] = WeaklyNotTaken
	}
}

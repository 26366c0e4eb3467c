package predictor

// MaxHistoryWidth is the widest shift register supported.
const MaxHistoryWidth = 32

// HistoryRegister is a fixed-width shift register of branch outcomes.
// The most recent outcome lives in bit 0.
type HistoryRegister struct {
	value uint32
	mask  uint32
	width uint
}

// NewHistoryRegister creates a cleared register of the given width.
// Widths above MaxHistoryWidth are truncated to MaxHistoryWidth.
func NewHistoryRegister(width uint) HistoryRegister {
	if width > MaxHistoryWidth {
		width = MaxHistoryWidth
	}
	return HistoryRegister{
		mask:  widthMask(width),
		width: width,
	}
}

// widthMask returns a mask with the low width bits set.
func widthMask(width uint) uint32 {
	return uint32((uint64(1) << width) - 1)
}

// Update shifts the outcome into bit 0 and drops the oldest bit.
func (h *HistoryRegister) Update(outcome Outcome) {
	h.value = (h.value<<1 | outcome.Bit()) & h.mask
}

// Value returns the current history bits.
func (h *HistoryRegister) Value() uint32 {
	return h.value
}

// Width returns the configured width in bits.
func (h *HistoryRegister) Width() uint {
	return h.width
}

// Mask returns the width mask.
func (h *HistoryRegister) Mask() uint32 {
	return h.mask
}

// Bit returns the i-th most recent outcome (bit 0 is the newest).
func (h *HistoryRegister) Bit(i uint) Outcome {
	return Outcome((h.value >> i) & 1)
}

// Reset clears the register.
func (h *HistoryRegister) Reset() {
	h.value = 0
}

// LocalHistoryTable holds one history per address bucket. All entries share
// a single width, so each entry is stored as a bare uint32.
type LocalHistoryTable struct {
	values []uint32
	pcMask uint32
	mask   uint32
	width  uint
}

// NewLocalHistoryTable creates 2^pcBits cleared histories of the given
// width. Widths above MaxHistoryWidth are truncated to MaxHistoryWidth.
func NewLocalHistoryTable(pcBits, width uint) *LocalHistoryTable {
	if width > MaxHistoryWidth {
		width = MaxHistoryWidth
	}
	return &LocalHistoryTable{
		values: make([]uint32, 1<<pcBits),
		pcMask: widthMask(pcBits),
		mask:   widthMask(width),
		width:  width,
	}
}

// Value returns the history for the address bucket of pc.
func (t *LocalHistoryTable) Value(pc uint32) uint32 {
	return t.values[pc&t.pcMask]
}

// Update shifts the outcome into the history for the address bucket of pc.
func (t *LocalHistoryTable) Update(pc uint32, outcome Outcome) {
	i := pc & t.pcMask
	t.values[i] = (t.values[i]<<1 | outcome.Bit()) & t.mask
}

// Width returns the history width in bits.
func (t *LocalHistoryTable) Width() uint {
	return t.width
}

// Size returns the number of histories.
func (t *LocalHistoryTable) Size() int {
	return len(t.values)
}

// Reset clears every history.
func (t *LocalHistoryTable) Reset() {
	clear(t.values)
}

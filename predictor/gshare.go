package predictor

// GshareScheme indexes one counter table by XOR of the low PC bits and the
// global history.
type GshareScheme struct {
	history HistoryRegister
	table   *IndexedTable
}

// NewGshareScheme creates a gshare predictor with 2^historyBits counters.
func NewGshareScheme(historyBits uint) *GshareScheme {
	return &GshareScheme{
		history: NewHistoryRegister(historyBits),
		table:   NewIndexedTable(historyBits),
	}
}

// Index computes the table index for pc under the current history.
func (g *GshareScheme) Index(pc uint32) uint32 {
	mask := g.history.Mask()
	return ((pc & mask) ^ g.history.Value()) & g.table.Mask()
}

// Predict looks up the counter selected by pc and the global history.
func (g *GshareScheme) Predict(pc uint32) Outcome {
	return g.table.At(g.Index(pc)).Predict()
}

// Train updates the counter used for the prediction, then shifts the
// outcome into the global history.
func (g *GshareScheme) Train(pc uint32, outcome Outcome) {
	g.table.At(g.Index(pc)).Update(outcome)
	g.history.Update(outcome)
}

// Reset restores cold-start state.
func (g *GshareScheme) Reset() {
	g.history.Reset()
	g.table.Reset()
}

// History exposes the global history register.
func (g *GshareScheme) History() *HistoryRegister {
	return &g.history
}

// Table exposes the pattern history table.
func (g *GshareScheme) Table() *IndexedTable {
	return g.table
}

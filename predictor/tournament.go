package predictor

// TournamentScheme runs a local and a global predictor side by side and
// lets a chooser table pick one of them per branch.
//
// The chooser is indexed by the global history value, so it learns which
// sub-predictor wins in the current global context. A chooser counter of
// 2 or 3 selects the global prediction, 0 or 1 selects the local one.
// Chooser counters start at 1 (weakly prefer local).
type TournamentScheme struct {
	pcMask uint32

	localHistories *LocalHistoryTable
	localTable     *IndexedTable

	globalHistory HistoryRegister
	globalTable   *IndexedTable

	chooser *IndexedTable
}

// NewTournamentScheme creates a tournament predictor.
//
// The local side has 2^pcIndexBits history registers of lhistoryBits bits
// and 2^lhistoryBits counters. The global side and the chooser each have
// 2^ghistoryBits counters.
func NewTournamentScheme(ghistoryBits, lhistoryBits, pcIndexBits uint) *TournamentScheme {
	return &TournamentScheme{
		pcMask:         widthMask(pcIndexBits),
		localHistories: NewLocalHistoryTable(pcIndexBits, lhistoryBits),
		localTable:     NewIndexedTable(lhistoryBits),
		globalHistory:  NewHistoryRegister(ghistoryBits),
		globalTable:    NewIndexedTable(ghistoryBits),
		chooser:        NewIndexedTable(ghistoryBits),
	}
}

func (t *TournamentScheme) localCounter(pc uint32) *SaturatingCounter {
	history := t.localHistories.Value(pc & t.pcMask)
	return t.localTable.At(history & t.localTable.Mask())
}

func (t *TournamentScheme) globalCounter() *SaturatingCounter {
	return t.globalTable.At(t.globalHistory.Value() & t.globalTable.Mask())
}

func (t *TournamentScheme) chooserCounter() *SaturatingCounter {
	return t.chooser.At(t.globalHistory.Value() & t.chooser.Mask())
}

// LocalPredict returns the local sub-predictor's guess for pc.
func (t *TournamentScheme) LocalPredict(pc uint32) Outcome {
	return t.localCounter(pc).Predict()
}

// GlobalPredict returns the global sub-predictor's guess.
func (t *TournamentScheme) GlobalPredict() Outcome {
	return t.globalCounter().Predict()
}

// PrefersGlobal reports whether the chooser currently selects the global
// sub-predictor.
func (t *TournamentScheme) PrefersGlobal() bool {
	return t.chooserCounter().Predict() == Taken
}

// Predict returns the sub-prediction selected by the chooser.
func (t *TournamentScheme) Predict(pc uint32) Outcome {
	if t.PrefersGlobal() {
		return t.GlobalPredict()
	}
	return t.LocalPredict(pc)
}

// Train nudges the chooser toward whichever sub-predictor was right when
// exactly one was, then trains the global side and the local side.
func (t *TournamentScheme) Train(pc uint32, outcome Outcome) {
	local := t.LocalPredict(pc)
	global := t.GlobalPredict()

	if local != global {
		if global == outcome {
			t.chooserCounter().Strengthen()
		} else {
			t.chooserCounter().Weaken()
		}
	}

	t.globalCounter().Update(outcome)
	t.globalHistory.Update(outcome)

	t.localCounter(pc).Update(outcome)
	t.localHistories.Update(pc&t.pcMask, outcome)
}

// Reset restores cold-start state.
func (t *TournamentScheme) Reset() {
	t.localHistories.Reset()
	t.localTable.Reset()
	t.globalHistory.Reset()
	t.globalTable.Reset()
	t.chooser.Reset()
}

// GlobalHistory exposes the global history register.
func (t *TournamentScheme) GlobalHistory() *HistoryRegister {
	return &t.globalHistory
}

// LocalHistory returns the local history bits for pc.
func (t *TournamentScheme) LocalHistory(pc uint32) uint32 {
	return t.localHistories.Value(pc & t.pcMask)
}

// LocalHistories exposes the local history table.
func (t *TournamentScheme) LocalHistories() *LocalHistoryTable {
	return t.localHistories
}

// Chooser exposes the chooser table.
func (t *TournamentScheme) Chooser() *IndexedTable {
	return t.chooser
}

// GlobalTable exposes the global counter table.
func (t *TournamentScheme) GlobalTable() *IndexedTable {
	return t.globalTable
}

// LocalTable exposes the local counter table.
func (t *TournamentScheme) LocalTable() *IndexedTable {
	return t.localTable
}

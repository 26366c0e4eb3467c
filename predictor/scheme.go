package predictor

// Scheme is one prediction algorithm. A scheme exclusively owns its
// tables and registers.
type Scheme interface {
	// Predict guesses the direction of the branch at pc.
	Predict(pc uint32) Outcome
	// Train updates state with the real outcome of the branch at pc.
	Train(pc uint32, outcome Outcome)
	// Reset returns all state to its cold-start value.
	Reset()
}

// StaticScheme always predicts taken and never learns.
type StaticScheme struct{}

// Predict always returns Taken.
func (StaticScheme) Predict(uint32) Outcome { return Taken }

// Train does nothing.
func (StaticScheme) Train(uint32, Outcome) {}

// Reset does nothing.
func (StaticScheme) Reset() {}

package predictor

// Outcome is the direction of a conditional branch.
type Outcome uint8

const (
	// NotTaken means execution falls through.
	NotTaken Outcome = 0
	// Taken means control transfers to the branch target.
	Taken Outcome = 1
)

// OutcomeOf converts a taken flag to an Outcome.
func OutcomeOf(taken bool) Outcome {
	if taken {
		return Taken
	}
	return NotTaken
}

// Bit returns 1 for Taken and 0 for NotTaken.
func (o Outcome) Bit() uint32 {
	if o == Taken {
		return 1
	}
	return 0
}

// String returns "TAKEN" or "NOT_TAKEN".
func (o Outcome) String() string {
	if o == Taken {
		return "TAKEN"
	}
	return "NOT_TAKEN"
}

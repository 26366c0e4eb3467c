package predictor

// Counter states of a 2-bit saturating counter.
const (
	StronglyNotTaken SaturatingCounter = iota
	WeaklyNotTaken
	WeaklyTaken
	StronglyTaken
)

// SaturatingCounter is a 2-bit confidence cell.
// States: 0=Strongly Not Taken, 1=Weakly Not Taken, 2=Weakly Taken,
// 3=Strongly Taken.
type SaturatingCounter uint8

// Strengthen moves the counter one step toward taken. It is a no-op at 3.
func (c *SaturatingCounter) Strengthen() {
	if *c < StronglyTaken {
		*c++
	}
}

// Weaken moves the counter one step toward not taken. It is a no-op at 0.
func (c *SaturatingCounter) Weaken() {
	if *c > StronglyNotTaken {
		*c--
	}
}

// Update strengthens on a taken outcome and weakens otherwise.
func (c *SaturatingCounter) Update(outcome Outcome) {
	if outcome == Taken {
		c.Strengthen()
	} else {
		c.Weaken()
	}
}

// Predict returns Taken iff the counter is 2 or 3.
func (c SaturatingCounter) Predict() Outcome {
	if c > WeaklyNotTaken {
		return Taken
	}
	return NotTaken
}

// Value returns the raw counter state.
func (c SaturatingCounter) Value() uint8 {
	return uint8(c)
}

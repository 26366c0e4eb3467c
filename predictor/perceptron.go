package predictor

// DefaultPerceptronTheta returns the training threshold floor(1.93*h + 14)
// for a global history of h bits.
func DefaultPerceptronTheta(historyBits uint) int32 {
	return int32((193*historyBits + 1400) / 100)
}

// PerceptronScheme predicts with a per-address linear function of the
// global history. Each address bucket owns historyBits+1 signed weights;
// weight 0 is the bias and weight i+1 pairs with history bit i.
type PerceptronScheme struct {
	pcMask      uint32
	historyBits uint
	history     HistoryRegister

	// weights holds all vectors back to back, historyBits+1 per bucket.
	weights []int32

	theta       int32
	weightLimit int32

	lastPC         uint32
	lastValid      bool
	lastPrediction Outcome
	lastScore      int32
}

// NewPerceptronScheme creates a perceptron predictor with 2^pcIndexBits
// weight vectors. theta <= 0 selects DefaultPerceptronTheta. weightLimit
// <= 0 leaves weights unclamped.
func NewPerceptronScheme(
	ghistoryBits, pcIndexBits uint,
	theta, weightLimit int32,
) *PerceptronScheme {
	if theta <= 0 {
		theta = DefaultPerceptronTheta(ghistoryBits)
	}
	if weightLimit < 0 {
		weightLimit = 0
	}

	return &PerceptronScheme{
		pcMask:      widthMask(pcIndexBits),
		historyBits: ghistoryBits,
		history:     NewHistoryRegister(ghistoryBits),
		weights:     make([]int32, (1<<pcIndexBits)*(int(ghistoryBits)+1)),
		theta:       theta,
		weightLimit: weightLimit,
	}
}

// bipolar maps Taken to +1 and NotTaken to -1.
func bipolar(o Outcome) int32 {
	if o == Taken {
		return 1
	}
	return -1
}

// Weights returns the weight vector selected for pc under the current
// history. The slice aliases internal state.
func (p *PerceptronScheme) Weights(pc uint32) []int32 {
	n := int(p.historyBits) + 1
	bucket := int((pc ^ p.history.Value()) & p.pcMask)
	return p.weights[bucket*n : (bucket+1)*n]
}

// Score computes the perceptron output for pc.
func (p *PerceptronScheme) Score(pc uint32) int32 {
	w := p.Weights(pc)
	score := w[0]
	for i := uint(0); i < p.historyBits; i++ {
		score += w[i+1] * bipolar(p.history.Bit(i))
	}
	return score
}

// Predict returns NotTaken for a negative score and Taken otherwise, so a
// zero score predicts taken.
func (p *PerceptronScheme) Predict(pc uint32) Outcome {
	score := p.Score(pc)

	prediction := Taken
	if score < 0 {
		prediction = NotTaken
	}

	p.lastPC = pc
	p.lastValid = true
	p.lastScore = score
	p.lastPrediction = prediction

	return prediction
}

// Train adjusts the weights when the prediction was wrong or the score was
// inside (-theta, theta), then shifts the outcome into the history.
func (p *PerceptronScheme) Train(pc uint32, outcome Outcome) {
	score, prediction := p.lastScore, p.lastPrediction
	if !p.lastValid || p.lastPC != pc {
		score = p.Score(pc)
		prediction = OutcomeOf(score >= 0)
	}
	p.lastValid = false

	if prediction != outcome || (score > -p.theta && score < p.theta) {
		grad := bipolar(outcome)
		w := p.Weights(pc)
		w[0] = p.clamp(w[0] + grad)
		for i := uint(0); i < p.historyBits; i++ {
			w[i+1] = p.clamp(w[i+1] + bipolar(p.history.Bit(i))*grad)
		}
	}

	p.history.Update(outcome)
}

func (p *PerceptronScheme) clamp(w int32) int32 {
	if p.weightLimit == 0 {
		return w
	}
	if w > p.weightLimit {
		return p.weightLimit
	}
	if w < -p.weightLimit {
		return -p.weightLimit
	}
	return w
}

// Reset zeroes all weights and the history.
func (p *PerceptronScheme) Reset() {
	for i := range p.weights {
		p.weights[i] = 0
	}
	p.history.Reset()
	p.lastValid = false
	p.lastScore = 0
	p.lastPrediction = NotTaken
}

// LastScore returns the score computed by the most recent Predict.
func (p *PerceptronScheme) LastScore() int32 {
	return p.lastScore
}

// Theta returns the training threshold.
func (p *PerceptronScheme) Theta() int32 {
	return p.theta
}

// History exposes the global history register.
func (p *PerceptronScheme) History() *HistoryRegister {
	return &p.history
}

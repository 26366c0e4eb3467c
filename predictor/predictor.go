// Package predictor models conditional branch predictors: static, gshare,
// tournament and perceptron schemes built from 2-bit saturating counter
// tables and history shift registers.
package predictor

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// ErrAlreadyInitialized is returned by Init on a Ready predictor.
var ErrAlreadyInitialized = errors.New("predictor already initialized")

// State is the lifecycle state of a Predictor.
type State int

const (
	// Uninitialized is the state of a zero-value Predictor.
	Uninitialized State = iota
	// Ready means a scheme has been built and the predictor can be used.
	Ready
)

// String returns the state name.
func (s State) String() string {
	if s == Ready {
		return "Ready"
	}
	return "Uninitialized"
}

var (
	// HookPosPredict marks a prediction. The hook Item is an Event.
	HookPosPredict = &sim.HookPos{Name: "BranchPredict"}
	// HookPosTrain marks a training update. The hook Item is an Event.
	HookPosTrain = &sim.HookPos{Name: "BranchTrain"}
)

// Event describes one predictor call to hooks.
type Event struct {
	// PC is the branch address.
	PC uint32
	// Prediction is the emitted guess. On train events it is only
	// meaningful when Predicted is true.
	Prediction Outcome
	// Predicted is true when Prediction holds the guess emitted by the
	// Predict call immediately preceding this event for the same PC.
	Predicted bool
	// Outcome is the real direction. Only set on train events.
	Outcome Outcome
}

// Mispredicted reports whether a train event follows a wrong guess.
func (e Event) Mispredicted() bool {
	return e.Predicted && e.Prediction != e.Outcome
}

// Predictor dispatches predict and train calls to the configured scheme.
// The zero value is Uninitialized; use New or Init.
type Predictor struct {
	sim.HookableBase

	state  State
	config Config
	scheme Scheme

	pendingPC    uint32
	pendingValid bool
	pending      Outcome
}

// New validates config and returns a Ready predictor.
func New(config *Config) (*Predictor, error) {
	p := &Predictor{}
	if err := p.Init(config); err != nil {
		return nil, err
	}
	return p, nil
}

// Init builds the scheme selected by config. It may be called only once.
func (p *Predictor) Init(config *Config) error {
	if p.state == Ready {
		return ErrAlreadyInitialized
	}
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidScheme)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid predictor config: %w", err)
	}

	p.config = *config
	p.scheme = buildScheme(config)
	p.state = Ready

	return nil
}

func buildScheme(c *Config) Scheme {
	switch c.Scheme {
	case Gshare:
		return NewGshareScheme(c.GHistoryBits)
	case Tournament:
		return NewTournamentScheme(c.GHistoryBits, c.LHistoryBits, c.PCIndexBits)
	case Perceptron:
		return NewPerceptronScheme(c.GHistoryBits, c.PCIndexBits,
			c.PerceptronTheta, c.PerceptronWeightLimit)
	default:
		return StaticScheme{}
	}
}

func (p *Predictor) mustBeReady() {
	if p.state != Ready {
		panic("predictor: used before Init")
	}
}

// Predict returns the guess for the branch at pc.
func (p *Predictor) Predict(pc uint32) Outcome {
	p.mustBeReady()

	prediction := p.scheme.Predict(pc)

	p.pendingPC = pc
	p.pendingValid = true
	p.pending = prediction

	if p.NumHooks() > 0 {
		p.InvokeHook(sim.HookCtx{
			Domain: p,
			Pos:    HookPosPredict,
			Item:   Event{PC: pc, Prediction: prediction, Predicted: true},
		})
	}

	return prediction
}

// Train updates the scheme with the real outcome of the branch at pc.
func (p *Predictor) Train(pc uint32, outcome Outcome) {
	p.mustBeReady()

	event := Event{PC: pc, Outcome: outcome}
	if p.pendingValid && p.pendingPC == pc {
		event.Prediction = p.pending
		event.Predicted = true
	}
	p.pendingValid = false

	p.scheme.Train(pc, outcome)

	if p.NumHooks() > 0 {
		p.InvokeHook(sim.HookCtx{
			Domain: p,
			Pos:    HookPosTrain,
			Item:   event,
		})
	}
}

// Reset returns the scheme to its cold-start state. Hooks stay attached.
func (p *Predictor) Reset() {
	p.mustBeReady()
	p.scheme.Reset()
	p.pendingValid = false
}

// State returns the lifecycle state.
func (p *Predictor) State() State {
	return p.state
}

// Config returns a copy of the configuration in use.
func (p *Predictor) Config() Config {
	return p.config
}

// Scheme returns the active scheme, or nil before Init.
func (p *Predictor) Scheme() Scheme {
	return p.scheme
}

// Name returns the report name of the active scheme.
func (p *Predictor) Name() string {
	return p.config.Scheme.DisplayName()
}

// Package runner drives a predictor over a branch trace and measures its
// misprediction rate.
package runner

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Stats holds misprediction counts.
type Stats struct {
	// Branches is the number of branches that were predicted then trained.
	Branches uint64
	// Mispredictions is the number of wrong guesses.
	Mispredictions uint64
}

// Correct returns the number of right guesses.
func (s Stats) Correct() uint64 {
	return s.Branches - s.Mispredictions
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Branches) * 100
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Correct()) / float64(s.Branches) * 100
}

// StatsHook counts branches and mispredictions from train events.
type StatsHook struct {
	stats Stats
}

// Func implements sim.Hook.
func (h *StatsHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != predictor.HookPosTrain {
		return
	}

	event, ok := ctx.Item.(predictor.Event)
	if !ok || !event.Predicted {
		return
	}

	h.stats.Branches++
	if event.Mispredicted() {
		h.stats.Mispredictions++
	}
}

// Stats returns the counts collected so far.
func (h *StatsHook) Stats() Stats {
	return h.stats
}

// Reset clears the counts.
func (h *StatsHook) Reset() {
	h.stats = Stats{}
}

// TraceHook writes one line per train event. A train with no preceding
// prediction for the same address prints "-" as the prediction.
type TraceHook struct {
	w io.Writer
}

// NewTraceHook creates a TraceHook writing to w.
func NewTraceHook(w io.Writer) *TraceHook {
	return &TraceHook{w: w}
}

// Func implements sim.Hook.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != predictor.HookPosTrain {
		return
	}

	event, ok := ctx.Item.(predictor.Event)
	if !ok {
		return
	}

	predicted := "-"
	if event.Predicted {
		predicted = event.Prediction.String()
	}

	mark := ""
	if event.Mispredicted() {
		mark = " MISS"
	}
	_, _ = fmt.Fprintf(h.w, "0x%08x predicted=%s actual=%s%s\n",
		event.PC, predicted, event.Outcome, mark)
}

// Option configures a Runner.
type Option func(*Runner)

// WithTrace attaches a TraceHook writing to w.
func WithTrace(w io.Writer) Option {
	return func(r *Runner) {
		r.predictor.AcceptHook(NewTraceHook(w))
	}
}

// WithMaxBranches stops Run and RunRecords after n branches. Zero means
// no limit.
func WithMaxBranches(n uint64) Option {
	return func(r *Runner) {
		r.maxBranches = n
	}
}

// Runner feeds branches to a Predictor.
type Runner struct {
	predictor   *predictor.Predictor
	stats       *StatsHook
	maxBranches uint64
	steps       uint64
}

// New creates a Runner over a Ready predictor.
func New(p *predictor.Predictor, opts ...Option) *Runner {
	r := &Runner{
		predictor: p,
		stats:     &StatsHook{},
	}
	p.AcceptHook(r.stats)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Step predicts the branch at pc, then trains with the real outcome.
func (r *Runner) Step(pc uint32, outcome predictor.Outcome) predictor.Outcome {
	r.steps++
	prediction := r.predictor.Predict(pc)
	r.predictor.Train(pc, outcome)
	return prediction
}

// RunRecords steps through every record.
func (r *Runner) RunRecords(records []trace.Record) Stats {
	for _, rec := range records {
		if r.Done() {
			break
		}
		r.Step(rec.PC, rec.Outcome)
	}
	return r.Stats()
}

// Run drains a trace reader.
func (r *Runner) Run(reader *trace.Reader) (Stats, error) {
	for !r.Done() {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return r.Stats(), nil
		}
		if err != nil {
			return r.Stats(), err
		}
		r.Step(rec.PC, rec.Outcome)
	}
	return r.Stats(), nil
}

// Done reports whether the branch limit has been reached.
func (r *Runner) Done() bool {
	return r.maxBranches > 0 && r.steps >= r.maxBranches
}

// Stats returns the counts collected so far.
func (r *Runner) Stats() Stats {
	return r.stats.Stats()
}

// Predictor returns the driven predictor.
func (r *Runner) Predictor() *predictor.Predictor {
	return r.predictor
}

// PrintReport writes the classic summary.
func (r *Runner) PrintReport(w io.Writer) {
	stats := r.Stats()
	_, _ = fmt.Fprintf(w, "%s\n", r.predictor.Name())
	_, _ = fmt.Fprintf(w, "Branches:        %10d\n", stats.Branches)
	_, _ = fmt.Fprintf(w, "Incorrect:       %10d\n", stats.Mispredictions)
	_, _ = fmt.Fprintf(w, "Misprediction Rate: %7.3f\n", stats.MispredictionRate())
}

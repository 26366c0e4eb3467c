// Package benchmarks runs predictor configurations over synthetic branch
// workloads and reports their misprediction rates.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/runner"
	"github.com/sarchlab/bpsim/trace"
)

// BenchmarkResult holds the outcome of one configuration on one workload.
type BenchmarkResult struct {
	// Workload names the synthetic trace
	Workload string `json:"workload"`

	// Predictor is the report name of the scheme
	Predictor string `json:"predictor"`

	// Config is the option string of the configuration
	Config string `json:"config"`

	// Branches is the number of branches simulated
	Branches uint64 `json:"branches"`

	// Mispredictions is the number of wrong guesses
	Mispredictions uint64 `json:"mispredictions"`

	// MispredictionRate is the misprediction percentage
	MispredictionRate float64 `json:"misprediction_rate"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Output:  os.Stdout,
		Verbose: false,
	}
}

// DefaultPredictorConfigs returns the classic configurations: static,
// gshare:13, tournament:9:10:10 and the custom perceptron.
func DefaultPredictorConfigs() []*predictor.Config {
	options := []string{"static", "gshare:13", "tournament:9:10:10", "custom:24:8"}

	configs := make([]*predictor.Config, 0, len(options))
	for _, option := range options {
		config := predictor.DefaultConfig()
		if err := config.ParseOption(option); err != nil {
			panic(err)
		}
		configs = append(configs, config)
	}
	return configs
}

// Harness runs every predictor configuration on every workload.
type Harness struct {
	config    HarnessConfig
	configs   []*predictor.Config
	workloads []Workload
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config: config,
	}
}

// AddConfig adds a predictor configuration.
func (h *Harness) AddConfig(c *predictor.Config) {
	h.configs = append(h.configs, c.Clone())
}

// AddConfigs adds multiple predictor configurations.
func (h *Harness) AddConfigs(configs []*predictor.Config) {
	for _, c := range configs {
		h.AddConfig(c)
	}
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll executes every configuration on every workload. Each run uses a
// fresh predictor.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.configs)*len(h.workloads))

	for _, w := range h.workloads {
		records := w.Generate()
		for _, c := range h.configs {
			result, err := h.runOne(w.Name, c, records)
			if err != nil {
				return results, err
			}
			results = append(results, result)
		}
	}

	return results, nil
}

func (h *Harness) runOne(
	workload string,
	config *predictor.Config,
	records []trace.Record,
) (BenchmarkResult, error) {
	p, err := predictor.New(config)
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("workload %s, config %s: %w", workload, config, err)
	}

	r := runner.New(p)

	start := time.Now()
	stats := r.RunRecords(records)
	wallTime := time.Since(start)

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s on %s: %d branches in %v\n",
			config, workload, stats.Branches, wallTime)
	}

	return BenchmarkResult{
		Workload:          workload,
		Predictor:         p.Name(),
		Config:            config.String(),
		Branches:          stats.Branches,
		Mispredictions:    stats.Mispredictions,
		MispredictionRate: stats.MispredictionRate(),
		WallTime:          wallTime,
	}, nil
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Branch Predictor Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	workload := ""
	for _, r := range results {
		if r.Workload != workload {
			if workload != "" {
				_, _ = fmt.Fprintln(h.config.Output, "")
			}
			workload = r.Workload
			_, _ = fmt.Fprintf(h.config.Output, "Workload: %s\n", r.Workload)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  %-22s Branches: %8d  Incorrect: %8d  Rate: %7.3f%%\n",
			r.Config, r.Branches, r.Mispredictions, r.MispredictionRate)
	}
	_, _ = fmt.Fprintln(h.config.Output, "")
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"workload,predictor,config,branches,mispredictions,misprediction_rate")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%s,%d,%d,%.3f\n",
			r.Workload,
			r.Predictor,
			r.Config,
			r.Branches,
			r.Mispredictions,
			r.MispredictionRate,
		)
	}
}

// PrintJSON outputs results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}
	_, err = fmt.Fprintln(h.config.Output, string(data))
	return err
}

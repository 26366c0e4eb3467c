// Command benchmark sweeps predictor configurations over the synthetic
// branch workloads.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results as JSON
//	-predictor  Comma-separated predictor options (default: the classic set)
//	-emit       Write each workload trace into this directory and exit
//	-v          Verbose output
//
// Example:
//
//	# Compare gshare history lengths
//	go run ./cmd/benchmark -predictor gshare:8,gshare:12,gshare:16
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/bpsim/benchmarks"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	predictors := flag.String("predictor", "", "Comma-separated predictor options")
	emitDir := flag.String("emit", "", "Write workload traces into this directory and exit")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *emitDir != "" {
		if err := emitTraces(*emitDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	configs, err := parseConfigs(*predictors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.Verbose = *verbose
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	harness.AddConfigs(configs)
	harness.AddWorkloads(benchmarks.GetWorkloads())

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}

func parseConfigs(list string) ([]*predictor.Config, error) {
	if list == "" {
		return benchmarks.DefaultPredictorConfigs(), nil
	}

	var configs []*predictor.Config
	for _, option := range strings.Split(list, ",") {
		config := predictor.DefaultConfig()
		if err := config.ParseOption(strings.TrimSpace(option)); err != nil {
			return nil, err
		}
		if err := config.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}
	return configs, nil
}

func emitTraces(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, w := range benchmarks.GetWorkloads() {
		path := filepath.Join(dir, w.Name+".txt")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}

		err = trace.NewWriter(f).WriteAll(w.Generate())
		closeErr := f.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close trace file: %w", closeErr)
		}
	}
	return nil
}

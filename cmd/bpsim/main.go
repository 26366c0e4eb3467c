// Package main provides the entry point for the branch predictor simulator.
// It reads a branch trace from a file or stdin and reports the
// misprediction rate of the selected predictor.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/runner"
	"github.com/sarchlab/bpsim/trace"
)

var (
	predictorOpt = flag.String("predictor", "",
		"Predictor: static | gshare:<ghist> | tournament:<ghist>:<lhist>:<index> | custom")
	configPath = flag.String("config", "", "Path to predictor configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output (one line per branch)")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 1 {
		usage()
		os.Exit(1)
	}

	config, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tracePath := flag.Arg(0)
	exitCode := run(config, tracePath, os.Stdout)
	os.Exit(exitCode)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: bpsim [options] [<trace>]\n")
	fmt.Fprintf(os.Stderr, "\nReads the trace from stdin when no file is given.\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

// buildConfig layers the -config file and the -predictor option over the
// defaults.
func buildConfig() (*predictor.Config, error) {
	config := predictor.DefaultConfig()

	if *configPath != "" {
		var err error
		config, err = predictor.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *predictorOpt != "" {
		if err := config.ParseOption(*predictorOpt); err != nil {
			return nil, fmt.Errorf("unrecognized predictor option: %w", err)
		}
	}

	return config, nil
}

// run simulates the trace and prints the report. It returns the process
// exit code.
func run(config *predictor.Config, tracePath string, out io.Writer) int {
	p, err := predictor.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	f, err := trace.Open(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	var opts []runner.Option
	if *verbose {
		opts = append(opts, runner.WithTrace(out))
		_, _ = fmt.Fprintf(out, "Config: %s\n", config)
	}
	r := runner.New(p, opts...)

	if _, err := r.Run(f.Reader); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	r.PrintReport(out)
	return 0
}

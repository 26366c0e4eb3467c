// Package main provides a profiling wrapper for bpsim to identify performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/bpsim/benchmarks"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/runner"
	"github.com/sarchlab/bpsim/trace"
)

var (
	predictorOpt = flag.String("predictor", "tournament:9:10:10", "Predictor option string")
	workload     = flag.String("workload", "", "Profile a synthetic workload instead of a trace file")
	repeat       = flag.Int("repeat", 1, "Number of passes over a synthetic workload")
	cpuProfile   = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile   = flag.String("memprofile", "", "write memory profile to file")
	maxBranches  = flag.Uint64("max-branches", 0, "max branches to simulate (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 && *workload == "" {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <trace>\n")
		fmt.Fprintf(os.Stderr, "       profile [options] -workload <name>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config := predictor.DefaultConfig()
	if err := config.ParseOption(*predictorOpt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p, err := predictor.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	r := runner.New(p, runner.WithMaxBranches(*maxBranches))

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	if *workload != "" {
		err = profileWorkload(r, *workload, *repeat)
	} else {
		err = profileTrace(r, flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	stats := r.Stats()
	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Predictor: %s (%s)\n", p.Name(), config)
	fmt.Printf("Branches simulated: %d\n", stats.Branches)
	fmt.Printf("Misprediction rate: %.3f%%\n", stats.MispredictionRate())
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if stats.Branches > 0 {
		fmt.Printf("Branches/second: %.0f\n", float64(stats.Branches)/elapsed.Seconds())
	}
}

// profileTrace streams a trace file through the runner.
func profileTrace(r *runner.Runner, path string) error {
	f, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = r.Run(f.Reader)
	return err
}

// profileWorkload replays a synthetic workload repeat times.
func profileWorkload(r *runner.Runner, name string, repeat int) error {
	for _, w := range benchmarks.GetWorkloads() {
		if w.Name != name {
			continue
		}

		records := w.Generate()
		for i := 0; i < repeat && !r.Done(); i++ {
			r.RunRecords(records)
		}
		return nil
	}
	return fmt.Errorf("unknown workload %q", name)
}

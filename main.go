// Package main provides the entry point for bpsim.
// bpsim simulates conditional branch predictors over branch traces.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("bpsim - Branch Predictor Simulator")
	fmt.Println("")
	fmt.Println("Usage: bpsim [options] [<trace>]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -predictor  static | gshare:<ghist> | tournament:<ghist>:<lhist>:<index> | custom")
	fmt.Println("  -config     Path to predictor configuration JSON file")
	fmt.Println("  -v          Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/benchmark' for the synthetic workload sweep.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}

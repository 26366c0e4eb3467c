package benchmarks

import (
	"math/rand/v2"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Workload is a synthetic branch trace.
type Workload struct {
	// Name identifies the workload
	Name string

	// Description explains which behavior the workload stresses
	Description string

	// Generate produces the trace. It must be deterministic.
	Generate func() []trace.Record
}

const workloadSeed = 0x5eed

// AlwaysTaken is a single branch that is always taken.
func AlwaysTaken(n int) []trace.Record {
	records := make([]trace.Record, n)
	for i := range records {
		records[i] = trace.Record{PC: 0x400100, Outcome: predictor.Taken}
	}
	return records
}

// Alternating is a single branch that flips direction every time.
func Alternating(n int) []trace.Record {
	records := make([]trace.Record, n)
	for i := range records {
		records[i] = trace.Record{PC: 0x400200, Outcome: predictor.OutcomeOf(i%2 == 0)}
	}
	return records
}

// Loop models an inner loop of tripCount iterations nested in an outer
// loop. The inner back-edge is taken tripCount-1 times, then falls through;
// the outer back-edge is taken every iteration but the last.
func Loop(outer, tripCount int) []trace.Record {
	records := make([]trace.Record, 0, outer*(tripCount+1))
	for o := 0; o < outer; o++ {
		for i := 0; i < tripCount; i++ {
			records = append(records, trace.Record{
				PC:      0x400304,
				Outcome: predictor.OutcomeOf(i < tripCount-1),
			})
		}
		records = append(records, trace.Record{
			PC:      0x400310,
			Outcome: predictor.OutcomeOf(o < outer-1),
		})
	}
	return records
}

// Correlated emits pairs of branches where the second repeats the random
// outcome of the first. Only global history can predict the second one.
func Correlated(pairs int) []trace.Record {
	rng := rand.New(rand.NewPCG(workloadSeed, 1))
	records := make([]trace.Record, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		outcome := predictor.OutcomeOf(rng.IntN(2) == 1)
		records = append(records,
			trace.Record{PC: 0x400400, Outcome: outcome},
			trace.Record{PC: 0x400480, Outcome: outcome},
		)
	}
	return records
}

// LocalPatterns interleaves branches that each repeat their own short
// periodic pattern.
func LocalPatterns(rounds int) []trace.Record {
	patterns := []struct {
		pc     uint32
		period int
	}{
		{pc: 0x400500, period: 3},
		{pc: 0x400544, period: 4},
		{pc: 0x400588, period: 5},
	}

	records := make([]trace.Record, 0, rounds*len(patterns))
	for r := 0; r < rounds; r++ {
		for _, p := range patterns {
			records = append(records, trace.Record{
				PC:      p.pc,
				Outcome: predictor.OutcomeOf(r%p.period != 0),
			})
		}
	}
	return records
}

// BiasedRandom emits branches from a pool of sites, each taken with its own
// fixed probability.
func BiasedRandom(n int) []trace.Record {
	bias := []float64{0.95, 0.9, 0.8, 0.6, 0.4, 0.2, 0.1, 0.05}
	rng := rand.New(rand.NewPCG(workloadSeed, 2))

	records := make([]trace.Record, n)
	for i := range records {
		site := rng.IntN(len(bias))
		records[i] = trace.Record{
			PC:      0x400600 + uint32(site)*8,
			Outcome: predictor.OutcomeOf(rng.Float64() < bias[site]),
		}
	}
	return records
}

// GetWorkloads returns the default synthetic workload set.
func GetWorkloads() []Workload {
	return []Workload{
		{
			Name:        "always_taken",
			Description: "Single always-taken branch; measures cold-start cost",
			Generate:    func() []trace.Record { return AlwaysTaken(10000) },
		},
		{
			Name:        "alternating",
			Description: "Single branch flipping every execution; needs any history",
			Generate:    func() []trace.Record { return Alternating(10000) },
		},
		{
			Name:        "nested_loop",
			Description: "8-iteration inner loop inside a 1000-iteration outer loop",
			Generate:    func() []trace.Record { return Loop(1000, 8) },
		},
		{
			Name:        "correlated",
			Description: "Random branch followed by a branch repeating its outcome",
			Generate:    func() []trace.Record { return Correlated(5000) },
		},
		{
			Name:        "local_patterns",
			Description: "Interleaved branches with periods 3, 4 and 5",
			Generate:    func() []trace.Record { return LocalPatterns(4000) },
		},
		{
			Name:        "biased_random",
			Description: "Eight sites with fixed taken probabilities",
			Generate:    func() []trace.Record { return BiasedRandom(20000) },
		},
	}
}

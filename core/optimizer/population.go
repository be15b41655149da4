package optimizer

import (
	"math/rand"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// newPopulation produces the starting generation: n candidates of length
// l with departure times drawn independently and uniformly from
// [0, window), each sorted ascending with zeroed evaluation state.
func newPopulation(n, l int, window float64, rng *rand.Rand) ([]model.Candidate, error) {
	if n <= 0 {
		return nil, ConfigError{Field: "population_size", Reason: "must be positive"}
	}
	if l <= 0 {
		return nil, ConfigError{Field: "schedule_length", Reason: "must be positive"}
	}
	pop := make([]model.Candidate, 0, n)
	for i := 0; i < n; i++ {
		times := make([]float64, l)
		for j := range times {
			times[j] = rng.Float64() * window
		}
		pop = append(pop, model.NewCandidate(times))
	}
	return pop, nil
}

// clonePopulation deep-copies a slice of candidates so no departure
// slice is shared across generations.
func clonePopulation(pop []model.Candidate) []model.Candidate {
	out := make([]model.Candidate, len(pop))
	for i := range pop {
		out[i] = pop[i].Clone()
	}
	return out
}

package optimizer

import (
	"math/rand"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// vary builds the next working population: the survivors plus crossover
// offspring, with mutation applied to every individual. The result may
// exceed the configured population size; selection trims it back next
// generation. All randomness comes from the single sequential source, so
// a fixed seed reproduces the run exactly.
func vary(survivors []model.Candidate, cfg Config, rng *rand.Rand) []model.Candidate {
	working := clonePopulation(survivors)

	for i := 0; i+1 < len(survivors); i += 2 {
		if rng.Float64() >= cfg.CrossoverRate {
			continue
		}
		a, b := crossover(survivors[i], survivors[i+1], rng.Intn(cfg.ScheduleLength))
		working = append(working, a, b)
	}

	for i := range working {
		if rng.Float64() >= cfg.MutationRate {
			continue
		}
		mutate(&working[i], cfg.OperatingWindowMinutes, rng)
	}
	return working
}

// crossover splices the parents at cut: offspring a takes p1's times
// before the cut and p2's from it onward, b the complement. Both are
// re-sorted and returned with fresh evaluation state.
func crossover(p1, p2 model.Candidate, cut int) (model.Candidate, model.Candidate) {
	l := len(p1.Departures)
	at := make([]float64, 0, l)
	bt := make([]float64, 0, l)
	at = append(at, p1.Departures[:cut]...)
	at = append(at, p2.Departures[cut:]...)
	bt = append(bt, p2.Departures[:cut]...)
	bt = append(bt, p1.Departures[cut:]...)
	return model.NewCandidate(at), model.NewCandidate(bt)
}

// mutate replaces one uniformly chosen departure with a uniform draw
// from the operating window, then restores the ascending invariant and
// clears stale evaluation state.
func mutate(c *model.Candidate, window float64, rng *rand.Rand) {
	pos := rng.Intn(len(c.Departures))
	c.Departures[pos] = rng.Float64() * window
	c.SortDepartures()
	c.ResetEvaluation()
}

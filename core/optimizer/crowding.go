package optimizer

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// assignCrowding computes the crowding distance for every member of one
// front, writing the result onto the candidates. The distance is a
// diversity tie-breaker only; it never participates in dominance.
func assignCrowding(pop []model.Candidate, front []int) {
	if len(front) <= 2 {
		for _, i := range front {
			pop[i].Crowding = model.InfiniteCrowding
		}
		return
	}
	for _, i := range front {
		pop[i].Crowding = 0
	}

	order := make([]int, len(front))
	values := make([]float64, len(front))
	for m := 0; m < model.NumObjectives; m++ {
		copy(order, front)
		sort.SliceStable(order, func(a, b int) bool {
			return pop[order[a]].Objectives[m] < pop[order[b]].Objectives[m]
		})
		for i, idx := range order {
			values[i] = pop[idx].Objectives[m]
		}
		span := floats.Max(values) - floats.Min(values)

		pop[order[0]].Crowding = model.InfiniteCrowding
		pop[order[len(order)-1]].Crowding = model.InfiniteCrowding
		if span == 0 {
			// Degenerate objective: every interior gap is zero.
			continue
		}
		for i := 1; i < len(order)-1; i++ {
			idx := order[i]
			if pop[idx].Crowding == model.InfiniteCrowding {
				continue
			}
			pop[idx].Crowding += (values[i+1] - values[i-1]) / span
		}
	}
}

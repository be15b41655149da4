package optimizer

import (
	"fmt"
	"sort"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// selectSurvivors picks exactly n survivors: whole fronts in rank order
// while they fit, then the overflowing front truncated by descending
// crowding distance. The returned candidates are clones, so the next
// generation never aliases the arena population.
func selectSurvivors(pop []model.Candidate, fronts [][]int, n int) ([]model.Candidate, error) {
	survivors := make([]model.Candidate, 0, n)
	for _, front := range fronts {
		if len(survivors)+len(front) <= n {
			for _, i := range front {
				survivors = append(survivors, pop[i].Clone())
			}
			if len(survivors) == n {
				return survivors, nil
			}
			continue
		}
		// Partial front: most crowded first, index order breaks ties
		// so selection stays deterministic.
		trimmed := append([]int(nil), front...)
		sort.SliceStable(trimmed, func(a, b int) bool {
			return pop[trimmed[a]].Crowding > pop[trimmed[b]].Crowding
		})
		for _, i := range trimmed[:n-len(survivors)] {
			survivors = append(survivors, pop[i].Clone())
		}
		return survivors, nil
	}
	if len(survivors) < n {
		return nil, InvariantError{
			Op:     "select",
			Detail: fmt.Sprintf("fronts exhausted with %d of %d survivors", len(survivors), n),
		}
	}
	return survivors, nil
}

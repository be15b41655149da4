package optimizer

import (
	"fmt"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// rankArena holds the dominance bookkeeping for one generation. Fronts
// and dominated sets reference candidates by index into the population
// slice; the whole arena is discarded once the next generation exists,
// so no candidate ever holds references across generations.
type rankArena struct {
	dominated [][]int // dominated[p] = indices p dominates
	count     []int   // count[p] = number of candidates dominating p
}

// rank partitions the population into Pareto fronts using the fast
// non-dominated sort. Front 0 holds every candidate with domination
// count zero; later fronts are peeled by decrementing the counts of
// everything the current front dominates. Candidates get their Rank set.
// Complexity is O(M*N^2), fine for populations in the low hundreds.
func rank(pop []model.Candidate) ([][]int, error) {
	n := len(pop)
	arena := rankArena{
		dominated: make([][]int, n),
		count:     make([]int, n),
	}
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			if p == q {
				continue
			}
			if pop[p].Dominates(pop[q]) {
				arena.dominated[p] = append(arena.dominated[p], q)
			} else if pop[q].Dominates(pop[p]) {
				arena.count[p]++
			}
		}
	}

	var fronts [][]int
	var current []int
	for p := 0; p < n; p++ {
		if arena.count[p] == 0 {
			pop[p].Rank = 0
			current = append(current, p)
		}
	}
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, p := range current {
			for _, q := range arena.dominated[p] {
				arena.count[q]--
				if arena.count[q] == 0 {
					pop[q].Rank = len(fronts)
					next = append(next, q)
				} else if arena.count[q] < 0 {
					return nil, InvariantError{
						Op:     "rank",
						Detail: fmt.Sprintf("candidate %d reached negative domination count", q),
					}
				}
			}
		}
		current = next
	}
	return fronts, nil
}

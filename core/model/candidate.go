package model

import (
	"math"
	"sort"
)

// Objective indices into an Objectives vector. All objectives are
// minimized; vehicle utilization is stored as 1-utilization so that
// lower is uniformly better.
const (
	ObjOperatorCost = iota
	ObjPassengerWait
	ObjUtilization
	NumObjectives
)

// Objectives holds one value per optimization objective.
type Objectives [NumObjectives]float64

// Dominates reports whether o Pareto-dominates other: no worse in every
// objective and strictly better in at least one. The relation is
// irreflexive and asymmetric.
func (o Objectives) Dominates(other Objectives) bool {
	better := false
	for i := 0; i < NumObjectives; i++ {
		if o[i] > other[i] {
			return false
		}
		if o[i] < other[i] {
			better = true
		}
	}
	return better
}

// Candidate is one trial schedule: an ascending list of departure times
// in minutes from midnight plus its evaluation state. Candidates are
// value-like; dominance bookkeeping lives in the ranker's per-generation
// arena, not here.
type Candidate struct {
	Departures []float64
	Objectives Objectives
	Rank       int
	Crowding   float64
}

// NewCandidate returns an unevaluated candidate owning the given times.
// The slice is sorted in place to establish the ascending invariant.
func NewCandidate(departures []float64) Candidate {
	c := Candidate{Departures: departures, Rank: -1}
	c.SortDepartures()
	return c
}

// Clone returns a deep copy so candidates can move between fronts and
// generations without sharing the departure slice.
func (c Candidate) Clone() Candidate {
	cp := c
	cp.Departures = append([]float64(nil), c.Departures...)
	return cp
}

// SortDepartures restores the ascending invariant. Every operation that
// mutates the schedule must call this before returning the candidate to
// the population.
func (c *Candidate) SortDepartures() {
	sort.Float64s(c.Departures)
}

// Sorted reports whether the departure times are ascending.
func (c Candidate) Sorted() bool {
	return sort.Float64sAreSorted(c.Departures)
}

// ResetEvaluation clears objectives, rank and crowding so the candidate
// is rescored on the next generation.
func (c *Candidate) ResetEvaluation() {
	c.Objectives = Objectives{}
	c.Rank = -1
	c.Crowding = 0
}

// Dominates reports whether c Pareto-dominates other.
func (c Candidate) Dominates(other Candidate) bool {
	return c.Objectives.Dominates(other.Objectives)
}

// InfiniteCrowding marks boundary members that must always survive
// truncation.
var InfiniteCrowding = math.Inf(1)

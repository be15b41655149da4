package optimizer

import (
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/iter"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// demandSample is a demand point with its time label resolved to minutes
// from midnight, so evaluation never parses strings.
type demandSample struct {
	minute float64
	weight float64
}

// Evaluator scores candidates against the demand profile. Evaluation is
// pure: it reads only the candidate and the evaluator's immutable state,
// which makes parallel evaluation across the population safe.
type Evaluator struct {
	samples      []demandSample
	totalWeight  float64
	tripCost     float64
	penalty      float64
	minHeadway   float64
	tripDuration float64
	window       float64
	workers      int
}

// NewEvaluator resolves the demand list against the configuration. A
// malformed time label is surfaced here, before the run starts.
func NewEvaluator(demand []model.DemandPoint, cfg Config) (*Evaluator, error) {
	e := &Evaluator{
		tripCost:     cfg.TripCost,
		penalty:      cfg.HeadwayPenalty,
		minHeadway:   cfg.MinHeadwayMinutes,
		tripDuration: cfg.TripDurationMinutes,
		window:       cfg.OperatingWindowMinutes,
		workers:      cfg.EvalWorkers,
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	for _, d := range demand {
		if err := d.Validate(); err != nil {
			return nil, ConfigError{Field: "demand", Reason: err.Error()}
		}
		minute, _ := model.ParseTimeLabel(d.Time)
		e.samples = append(e.samples, demandSample{minute: minute, weight: float64(d.Passengers)})
		e.totalWeight += float64(d.Passengers)
	}
	return e, nil
}

// Evaluate scores a single candidate in place.
func (e *Evaluator) Evaluate(c *model.Candidate) {
	c.Objectives[model.ObjOperatorCost] = e.operatorCost(c.Departures)
	c.Objectives[model.ObjPassengerWait] = e.passengerWait(c.Departures)
	c.Objectives[model.ObjUtilization] = e.utilization(len(c.Departures))
}

// EvaluateAll scores the whole population on a bounded worker pool.
// Results are written back by stable index, so generation order stays
// deterministic regardless of goroutine scheduling.
func (e *Evaluator) EvaluateAll(pop []model.Candidate) {
	it := iter.Iterator[model.Candidate]{MaxGoroutines: e.workers}
	it.ForEach(pop, func(c *model.Candidate) {
		e.Evaluate(c)
	})
}

// operatorCost charges a fixed cost per trip plus a penalty for every
// adjacent pair of departures closer than the minimum headway.
func (e *Evaluator) operatorCost(departures []float64) float64 {
	cost := e.tripCost * float64(len(departures))
	for i := 1; i < len(departures); i++ {
		if departures[i]-departures[i-1] < e.minHeadway {
			cost += e.penalty
		}
	}
	return cost
}

// passengerWait is the passenger-weighted mean wait until the next
// departure at or after each demand time. When no departure remains that
// day, the wait wraps to the first departure of the next day.
func (e *Evaluator) passengerWait(departures []float64) float64 {
	if e.totalWeight == 0 || len(departures) == 0 {
		return 0
	}
	var sum float64
	for _, s := range e.samples {
		idx := sort.SearchFloat64s(departures, s.minute)
		var wait float64
		if idx < len(departures) {
			wait = departures[idx] - s.minute
		} else {
			wait = departures[0] + e.window - s.minute
		}
		sum += wait * s.weight
	}
	return sum / e.totalWeight
}

// utilization reports 1 - serviceTime/availableTime clamped to [0,1], so
// that a fuller vehicle schedule scores lower like the other objectives.
func (e *Evaluator) utilization(trips int) float64 {
	util := float64(trips) * e.tripDuration / e.window
	if util > 1 {
		util = 1
	}
	if util < 0 {
		util = 0
	}
	return 1 - util
}

// HasDemand reports whether any weighted demand was supplied.
func (e *Evaluator) HasDemand() bool { return e.totalWeight > 0 }

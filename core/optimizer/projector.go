package optimizer

import (
	"github.com/sudhish-rithvik/transport-optimizer/core/logger"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// Projector converts the terminal Pareto front into per-route schedules.
type Projector struct {
	cfg    Config
	demand []model.DemandPoint
	eval   *Evaluator
	log    logger.Logger
}

// NewProjector builds a projector sharing the run's evaluator for
// baseline scoring.
func NewProjector(cfg Config, demand []model.DemandPoint, eval *Evaluator, log logger.Logger) *Projector {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Projector{cfg: cfg, demand: demand, eval: eval, log: log}
}

// Project maps every route to one front member and attaches relative
// performance metrics. The default assignment is routeIndex modulo front
// size; with PerRouteEvaluation enabled, routes with attributable demand
// get the front member that minimizes their own passengers' wait.
func (p *Projector) Project(front []model.Candidate, routes model.RouteSet) ([]model.ScheduleResult, error) {
	if len(routes) == 0 {
		p.log.Warnf("empty route set: no schedules to produce")
		return []model.ScheduleResult{}, nil
	}
	if len(front) == 0 {
		return nil, InvariantError{Op: "project", Detail: "empty Pareto front"}
	}
	base, err := p.baseline()
	if err != nil {
		return nil, err
	}

	results := make([]model.ScheduleResult, 0, len(routes))
	for i, route := range routes {
		cand := front[i%len(front)]
		if p.cfg.PerRouteEvaluation {
			if picked, ok := p.bestForRoute(front, route); ok {
				cand = picked
			}
		}
		labels := make([]string, len(cand.Departures))
		for j, d := range cand.Departures {
			labels[j] = model.FormatMinutes(d)
		}
		results = append(results, model.ScheduleResult{
			RouteID:    route,
			Departures: labels,
			Objectives: cand.Objectives,
			Metrics:    model.RelativeMetrics(cand.Objectives, base),
		})
	}
	return results, nil
}

// baseline returns the reference objectives for the metrics summary:
// the caller-supplied vector when present, otherwise an evenly spaced
// schedule of the configured length scored against the same demand.
func (p *Projector) baseline() (model.Objectives, error) {
	if p.cfg.Baseline != nil {
		return *p.cfg.Baseline, nil
	}
	l := p.cfg.ScheduleLength
	times := make([]float64, l)
	step := p.cfg.OperatingWindowMinutes / float64(l)
	for i := range times {
		times[i] = float64(i) * step
	}
	cand := model.NewCandidate(times)
	p.eval.Evaluate(&cand)
	return cand.Objectives, nil
}

// bestForRoute scores every front member against only the demand
// attributed to route and returns the one with the lowest passenger
// wait. It reports false when no demand names the route, in which case
// the modulo assignment stands.
func (p *Projector) bestForRoute(front []model.Candidate, route string) (model.Candidate, bool) {
	var subset []model.DemandPoint
	for _, d := range p.demand {
		if d.Route == route {
			subset = append(subset, d)
		}
	}
	if len(subset) == 0 {
		return model.Candidate{}, false
	}
	eval, err := NewEvaluator(subset, p.cfg)
	if err != nil {
		// Demand was validated before the run; a failure here would be
		// a defect, not an input problem.
		p.log.Errorf("per-route evaluator: %v", err)
		return model.Candidate{}, false
	}
	best := front[0].Clone()
	eval.Evaluate(&best)
	for _, c := range front[1:] {
		probe := c.Clone()
		eval.Evaluate(&probe)
		if probe.Objectives[model.ObjPassengerWait] < best.Objectives[model.ObjPassengerWait] {
			best = probe
		}
	}
	return best, true
}

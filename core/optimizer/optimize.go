// Package optimizer implements a multi-objective evolutionary search
// for transit departure-time schedules. It balances operator cost,
// passenger wait time and vehicle utilization using Pareto dominance
// ranking, crowding-distance diversity and generational selection.
package optimizer

import (
	"context"
	"errors"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// Optimize is the library entry point: it runs the full generational
// loop against the demand profile and projects the terminal Pareto front
// onto the route set. On cancellation the schedules built from the best
// front found so far are returned together with ErrRunCancelled.
func Optimize(ctx context.Context, routes model.RouteSet, demand []model.DemandPoint, cfg Config, opts ...Option) ([]model.ScheduleResult, error) {
	eng, err := NewEngine(demand, cfg, opts...)
	if err != nil {
		return nil, err
	}
	front, runErr := eng.Run(ctx)
	if runErr != nil && !errors.Is(runErr, ErrRunCancelled) {
		return nil, runErr
	}
	if len(front) == 0 {
		// Cancelled before the first generation completed.
		return nil, runErr
	}
	proj := NewProjector(eng.Config(), demand, eng.Evaluator(), eng.log)
	results, err := proj.Project(front, routes)
	if err != nil {
		return nil, err
	}
	return results, runErr
}

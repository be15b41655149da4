// Package events defines the event types published on the internal bus
// at run and generation boundaries. Hosts subscribe to these instead of
// the core writing progress to a console.
package events

import (
	"time"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// RunStartedEvent is published once when a run begins.
type RunStartedEvent struct {
	RunID          string `json:"run_id"`
	PopulationSize int    `json:"population_size"`
	Generations    int    `json:"generations"`
	ScheduleLength int    `json:"schedule_length"`
	DemandPoints   int    `json:"demand_points"`
}

// GenerationEvent is published at every generation boundary, after
// selection has trimmed the population back to its configured size.
type GenerationEvent struct {
	RunID      string           `json:"run_id"`
	Generation int              `json:"generation"`
	Survivors  int              `json:"survivors"`
	FrontSize  int              `json:"front_size"` // members of front 0
	Best       model.Objectives `json:"best"`       // per-objective minima
	Duration   time.Duration    `json:"duration_ns"`
}

// RunCompletedEvent is published once after the terminal ranking.
type RunCompletedEvent struct {
	RunID       string        `json:"run_id"`
	Generations int           `json:"generations"`
	FrontSize   int           `json:"front_size"`
	Duration    time.Duration `json:"duration_ns"`
	Cancelled   bool          `json:"cancelled"`
}

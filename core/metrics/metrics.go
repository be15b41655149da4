// Package metrics defines the sink interfaces the optimizer records
// into. Implementations live under infra/metrics; the core only depends
// on these interfaces.
package metrics

import (
	"time"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// GenerationStats captures one generation boundary for observability.
type GenerationStats struct {
	RunID      string
	Generation int
	Survivors  int
	FrontCount int
	FrontSize  int
	Best       model.Objectives
	Mean       model.Objectives
	Duration   time.Duration
	Time       time.Time
}

// RunSummary captures a whole optimization run. Best holds the
// per-objective minima over the terminal front; zero when the run was
// cancelled before any generation completed.
type RunSummary struct {
	RunID       string
	Generations int
	FrontSize   int
	Best        model.Objectives
	Cancelled   bool
	Duration    time.Duration
	Time        time.Time
}

// MetricsSink records per-generation statistics.
type MetricsSink interface {
	RecordGeneration(stats GenerationStats) error
}

// RunSummaryRecorder is implemented by sinks that also persist run
// summaries.
type RunSummaryRecorder interface {
	RecordRunSummary(sum RunSummary) error
}

// NopSink drops every record.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationStats) error { return nil }
func (NopSink) RecordRunSummary(RunSummary) error      { return nil }

package metrics

import (
	"errors"

	coremetrics "github.com/sudhish-rithvik/transport-optimizer/core/metrics"
)

// MultiSink fans records out to several sinks. Every sink is attempted;
// errors are joined.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordGeneration implements coremetrics.MetricsSink.
func (m *MultiSink) RecordGeneration(stats coremetrics.GenerationStats) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordGeneration(stats); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRunSummary forwards to every sink that records summaries.
func (m *MultiSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	var errs []error
	for _, s := range m.sinks {
		if rr, ok := s.(coremetrics.RunSummaryRecorder); ok {
			if err := rr.RecordRunSummary(sum); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		m := fam.GetMetric()[0]
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue(), true
		}
		if m.GetGauge() != nil {
			return m.GetGauge().GetValue(), true
		}
	}
	return 0, false
}

func TestPromSinkRecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	defer ResetMetrics(nil)

	sink, err := NewPromSink(coremetrics.Config{})
	require.NoError(t, err)

	stats := coremetrics.GenerationStats{
		RunID:      "run-1",
		Generation: 0,
		Survivors:  20,
		FrontSize:  5,
		Best:       model.Objectives{400, 12.5, 0.25},
		Duration:   50 * time.Millisecond,
	}
	require.NoError(t, sink.RecordGeneration(stats))
	require.NoError(t, sink.RecordGeneration(stats))

	gens, ok := gatherValue(t, reg, "optimizer_generations_total")
	require.True(t, ok, "generations counter not registered")
	require.Equal(t, float64(2), gens)

	fs, ok := gatherValue(t, reg, "optimizer_front_size")
	require.True(t, ok, "front size gauge not registered")
	require.Equal(t, float64(5), fs)
}

func TestPromSinkRecordRunSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	defer ResetMetrics(nil)

	sink, err := NewPromSink(coremetrics.Config{})
	require.NoError(t, err)
	require.NoError(t, sink.RecordRunSummary(coremetrics.RunSummary{RunID: "a"}))
	require.NoError(t, sink.RecordRunSummary(coremetrics.RunSummary{RunID: "b", Cancelled: true}))

	families, err := reg.Gather()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, fam := range families {
		if fam.GetName() != "optimizer_runs_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" {
					outcomes[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	require.Equal(t, float64(1), outcomes["completed"])
	require.Equal(t, float64(1), outcomes["cancelled"])
}

func TestBestObjectiveLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	defer ResetMetrics(nil)

	sink, err := NewPromSink(coremetrics.Config{})
	require.NoError(t, err)
	require.NoError(t, sink.RecordGeneration(coremetrics.GenerationStats{
		Best: model.Objectives{100, 20, 0.5},
	}))

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, fam := range families {
		if fam.GetName() != "optimizer_best_objective" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "objective" {
					values[l.GetValue()] = m.GetGauge().GetValue()
				}
			}
		}
	}
	require.Equal(t, float64(100), values["operator_cost"])
	require.Equal(t, float64(20), values["passenger_wait"])
	require.Equal(t, float64(0.5), values["utilization"])
}

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

var (
	generationsTotal   prometheus.Counter
	generationDuration prometheus.Histogram
	frontSize          prometheus.Gauge
	bestObjective      *prometheus.GaugeVec
	runsTotal          *prometheus.CounterVec
)

var objectiveLabels = [model.NumObjectives]string{"operator_cost", "passenger_wait", "utilization"}

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Histogram, prometheus.Gauge, *prometheus.GaugeVec, *prometheus.CounterVec) {
	gens := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_generations_total",
		Help: "Number of completed generations",
	})
	dur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_generation_duration_seconds",
		Help:    "Wall time of one generation from evaluation to selection",
		Buckets: prometheus.DefBuckets,
	})
	fs := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimizer_front_size",
		Help: "Members of the current non-dominated front",
	})
	best := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimizer_best_objective",
		Help: "Population-wide minimum per objective",
	}, []string{"objective"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_runs_total",
		Help: "Completed optimization runs",
	}, []string{"outcome"})
	return gens, dur, fs, best, runs
}

func init() {
	generationsTotal, generationDuration, frontSize, bestObjective, runsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers optimizer metrics on the provided
// registry. If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(generationsTotal, generationDuration, frontSize, bestObjective, runsTotal)
}

// ResetMetrics reinitializes collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	generationsTotal, generationDuration, frontSize, bestObjective, runsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

// PromSink records generation statistics into the package collectors.
type PromSink struct{}

// NewPromSink returns a sink backed by the registered collectors.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	_ = cfg
	return &PromSink{}, nil
}

// RecordGeneration implements coremetrics.MetricsSink.
func (s *PromSink) RecordGeneration(stats coremetrics.GenerationStats) error {
	generationsTotal.Inc()
	generationDuration.Observe(stats.Duration.Seconds())
	frontSize.Set(float64(stats.FrontSize))
	for m := 0; m < model.NumObjectives; m++ {
		bestObjective.WithLabelValues(objectiveLabels[m]).Set(stats.Best[m])
	}
	return nil
}

// RecordRunSummary implements coremetrics.RunSummaryRecorder.
func (s *PromSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	outcome := "completed"
	if sum.Cancelled {
		outcome = "cancelled"
	}
	runsTotal.WithLabelValues(outcome).Inc()
	return nil
}

// StartPromServer serves the metrics endpoint until the context is
// cancelled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

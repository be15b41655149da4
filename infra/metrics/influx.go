package metrics

import (
	"context"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
	"github.com/sudhish-rithvik/transport-optimizer/infra/logger"
)

// InfluxSink writes generation statistics to an InfluxDB instance using
// the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so an unreachable backend never
// blocks a run.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordGeneration writes the generation boundary as a line protocol
// point.
func (s *InfluxSink) RecordGeneration(stats coremetrics.GenerationStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_generation").
		AddTag("run_id", stats.RunID).
		AddTag("generation", strconv.Itoa(stats.Generation)).
		AddField("survivors", stats.Survivors).
		AddField("front_count", stats.FrontCount).
		AddField("front_size", stats.FrontSize).
		AddField("best_operator_cost", stats.Best[model.ObjOperatorCost]).
		AddField("best_passenger_wait", stats.Best[model.ObjPassengerWait]).
		AddField("best_utilization", stats.Best[model.ObjUtilization]).
		AddField("mean_operator_cost", stats.Mean[model.ObjOperatorCost]).
		AddField("duration_ms", stats.Duration.Milliseconds()).
		SetTime(stats.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRunSummary writes the run summary point.
func (s *InfluxSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_run").
		AddTag("run_id", sum.RunID).
		AddTag("cancelled", strconv.FormatBool(sum.Cancelled)).
		AddField("generations", sum.Generations).
		AddField("front_size", sum.FrontSize).
		AddField("best_operator_cost", sum.Best[model.ObjOperatorCost]).
		AddField("best_passenger_wait", sum.Best[model.ObjPassengerWait]).
		AddField("best_utilization", sum.Best[model.ObjUtilization]).
		AddField("duration_ms", sum.Duration.Milliseconds()).
		SetTime(sum.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

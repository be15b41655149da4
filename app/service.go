// Package app wires the optimizer core to its configured collaborators
// and runs one optimization from demand file to schedule output.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sudhish-rithvik/transport-optimizer/config"
	coremetrics "github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
	"github.com/sudhish-rithvik/transport-optimizer/core/optimizer"
	"github.com/sudhish-rithvik/transport-optimizer/core/runlog"
	"github.com/sudhish-rithvik/transport-optimizer/infra/logger"
	"github.com/sudhish-rithvik/transport-optimizer/infra/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/infra/mqtt"
	"github.com/sudhish-rithvik/transport-optimizer/internal/eventbus"
)

// Service runs optimizations according to the loaded configuration.
type Service struct {
	cfg         *config.Config
	log         logger.Logger
	bus         *eventbus.Bus
	sink        coremetrics.MetricsSink
	store       runlog.Store
	publisher   *mqtt.ProgressPublisher
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var store runlog.Store
	if cfg.RunLog.Enabled {
		var err error
		store, err = newRunStore(cfg.RunLog)
		if err != nil {
			return nil, fmt.Errorf("run store: %w", err)
		}
	}

	svc := &Service{
		cfg:         cfg,
		log:         logg,
		bus:         eventbus.New(),
		sink:        sink,
		store:       store,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewProgressPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// newRunStore builds the configured run record store.
func newRunStore(cfg config.RunLogConfig) (runlog.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return runlog.NewSQLiteStore(cfg.Path)
	default:
		return runlog.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
}

// LoadDemand reads a JSON array of demand points from path.
func LoadDemand(path string) ([]model.DemandPoint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read demand file: %w", err)
	}
	var demand []model.DemandPoint
	if err := json.Unmarshal(b, &demand); err != nil {
		return nil, fmt.Errorf("decode demand file: %w", err)
	}
	return demand, nil
}

// Run executes one optimization and writes the resulting schedules as
// JSON to the configured output.
func (s *Service) Run(ctx context.Context) error {
	demand, err := LoadDemand(s.cfg.DemandFile)
	if err != nil {
		return err
	}
	if len(demand) == 0 {
		s.log.Warnf("demand file %s holds no demand points", s.cfg.DemandFile)
	}
	if len(s.cfg.Routes) == 0 {
		s.log.Warnf("no routes configured: run will produce no schedules")
	}

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.publisher != nil {
		go s.publisher.Forward(ctx, s.bus)
	}

	opts := []optimizer.Option{
		optimizer.WithLogger(logger.New("optimizer")),
		optimizer.WithMetricsSink(s.sink),
		optimizer.WithEventBus(s.bus),
	}
	if s.store != nil {
		opts = append(opts, optimizer.WithRunStore(s.store))
	}
	results, err := optimizer.Optimize(ctx, model.RouteSet(s.cfg.Routes), demand, s.cfg.Optimizer, opts...)
	if err != nil && !errors.Is(err, optimizer.ErrRunCancelled) {
		return err
	}
	if errors.Is(err, optimizer.ErrRunCancelled) {
		s.log.Warnf("run cancelled: writing best schedules found so far")
	}
	return s.writeResults(results)
}

// writeResults renders the schedules as indented JSON to the configured
// output file or stdout. A nil slice still renders as an empty list so
// consumers always get a JSON array.
func (s *Service) writeResults(results []model.ScheduleResult) error {
	if results == nil {
		results = []model.ScheduleResult{}
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if s.cfg.OutputFile == "" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(s.cfg.OutputFile, b, 0o644)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

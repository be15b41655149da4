package optimizer

import (
	"context"
	"errors"
	"testing"

	"github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

type captureSink struct {
	generations []metrics.GenerationStats
	summaries   []metrics.RunSummary
	onGen       func(metrics.GenerationStats)
}

func (s *captureSink) RecordGeneration(g metrics.GenerationStats) error {
	s.generations = append(s.generations, g)
	if s.onGen != nil {
		s.onGen(g)
	}
	return nil
}

func (s *captureSink) RecordRunSummary(r metrics.RunSummary) error {
	s.summaries = append(s.summaries, r)
	return nil
}

func testDemand() []model.DemandPoint {
	return []model.DemandPoint{
		{Stop: "central", Time: "08:00", Passengers: 100, DayOfWeek: 1},
		{Stop: "north", Time: "17:30", Passengers: 80, DayOfWeek: 5},
	}
}

func TestRunSurvivorCountEveryGeneration(t *testing.T) {
	cfg := testConfig()
	sink := &captureSink{}
	eng, err := NewEngine(testDemand(), cfg, WithMetricsSink(sink))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	front, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(front) == 0 {
		t.Fatalf("empty terminal front")
	}
	if len(sink.generations) != cfg.Generations {
		t.Fatalf("expected %d generation records got %d", cfg.Generations, len(sink.generations))
	}
	for _, g := range sink.generations {
		if g.Survivors != cfg.PopulationSize {
			t.Fatalf("generation %d: %d survivors, want %d", g.Generation, g.Survivors, cfg.PopulationSize)
		}
		if g.FrontSize < 1 {
			t.Fatalf("generation %d: empty front", g.Generation)
		}
	}
	if len(sink.summaries) != 1 || sink.summaries[0].Cancelled {
		t.Fatalf("expected one non-cancelled summary, got %+v", sink.summaries)
	}
	sum := sink.summaries[0]
	if sum.FrontSize != len(front) {
		t.Fatalf("summary front size %d, terminal front %d", sum.FrontSize, len(front))
	}
	// Every schedule carries at least the per-trip cost, so the recorded
	// best objectives cannot be the zero vector.
	if sum.Best[model.ObjOperatorCost] <= 0 {
		t.Fatalf("summary best objectives not populated: %v", sum.Best)
	}
	if eng.State() != StateTerminated {
		t.Fatalf("expected terminated state got %s", eng.State())
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cfg := testConfig()
	cfg.RandomSeed = 42
	cfg.PopulationSize = 30
	cfg.Generations = 10

	run := func() []model.Candidate {
		eng, err := NewEngine(testDemand(), cfg)
		if err != nil {
			t.Fatalf("engine: %v", err)
		}
		front, err := eng.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return front
	}
	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("front sizes diverged: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Objectives != second[i].Objectives {
			t.Fatalf("candidate %d objectives diverged: %v vs %v", i, first[i].Objectives, second[i].Objectives)
		}
		for j := range first[i].Departures {
			if first[i].Departures[j] != second[i].Departures[j] {
				t.Fatalf("candidate %d departures diverged: %v vs %v", i, first[i].Departures, second[i].Departures)
			}
		}
	}
}

func TestRunFrontMutuallyNonDominated(t *testing.T) {
	eng, err := NewEngine(testDemand(), testConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	front, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := range front {
		for j := range front {
			if i != j && front[i].Dominates(front[j]) {
				t.Fatalf("front member %d dominates %d", i, j)
			}
		}
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	eng, err := NewEngine(testDemand(), testConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	front, err := eng.Run(ctx)
	if !errors.Is(err, ErrRunCancelled) {
		t.Fatalf("expected ErrRunCancelled got %v", err)
	}
	if len(front) != 0 {
		t.Fatalf("no generation completed, front must be empty")
	}
}

func TestRunCancelledMidRun(t *testing.T) {
	cfg := testConfig()
	cfg.Generations = 50
	ctx, cancel := context.WithCancel(context.Background())
	sink := &captureSink{}
	sink.onGen = func(g metrics.GenerationStats) {
		if g.Generation == 2 {
			cancel()
		}
	}
	eng, err := NewEngine(testDemand(), cfg, WithMetricsSink(sink))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	front, err := eng.Run(ctx)
	if !errors.Is(err, ErrRunCancelled) {
		t.Fatalf("expected ErrRunCancelled got %v", err)
	}
	if len(front) == 0 {
		t.Fatalf("expected the best front found so far")
	}
	if len(sink.summaries) != 1 || !sink.summaries[0].Cancelled {
		t.Fatalf("expected a cancelled summary, got %+v", sink.summaries)
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.CrossoverRate = 1.5
	var cfgErr ConfigError
	if _, err := NewEngine(nil, cfg); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError got %v", err)
	}
	if cfgErr.Field != "crossover_rate" {
		t.Fatalf("expected crossover_rate field got %q", cfgErr.Field)
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		StateInitializing: "initializing",
		StateEvaluating:   "evaluating",
		StateRanking:      "ranking",
		StateSelecting:    "selecting_survivors",
		StateVarying:      "varying",
		StateTerminated:   "terminated",
		State(99):         "unknown",
	}
	for s, name := range want {
		if s.String() != name {
			t.Fatalf("state %d: got %q want %q", s, s.String(), name)
		}
	}
}

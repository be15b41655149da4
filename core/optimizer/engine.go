package optimizer

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/sudhish-rithvik/transport-optimizer/core/events"
	"github.com/sudhish-rithvik/transport-optimizer/core/logger"
	"github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/model"
	"github.com/sudhish-rithvik/transport-optimizer/core/runlog"
	"github.com/sudhish-rithvik/transport-optimizer/internal/eventbus"
)

// State identifies where the engine is in its generational cycle.
type State int

const (
	StateInitializing State = iota
	StateEvaluating
	StateRanking
	StateSelecting
	StateVarying
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateEvaluating:
		return "evaluating"
	case StateRanking:
		return "ranking"
	case StateSelecting:
		return "selecting_survivors"
	case StateVarying:
		return "varying"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Engine drives the generational loop. It exclusively owns the working
// population; callers only ever see cloned candidates.
type Engine struct {
	cfg   Config
	eval  *Evaluator
	rng   *rand.Rand
	log   logger.Logger
	sink  metrics.MetricsSink
	bus   eventbus.EventBus
	store runlog.Store
	runID string
	state State
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetricsSink attaches a metrics sink recording generation stats.
func WithMetricsSink(s metrics.MetricsSink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithEventBus attaches a bus receiving run and generation events.
func WithEventBus(b eventbus.EventBus) Option {
	return func(e *Engine) {
		if b != nil {
			e.bus = b
		}
	}
}

// WithRunStore attaches a store persisting per-generation records.
func WithRunStore(s runlog.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// NewEngine validates the configuration, resolves the demand and seeds
// the random source. A zero RandomSeed yields a time-seeded,
// non-reproducible run.
func NewEngine(demand []model.DemandPoint, cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eval, err := NewEvaluator(demand, cfg)
	if err != nil {
		return nil, err
	}
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:   cfg,
		eval:  eval,
		rng:   rand.New(rand.NewSource(seed)),
		log:   logger.NopLogger{},
		sink:  metrics.NopSink{},
		runID: uuid.NewString(),
		state: StateInitializing,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RunID returns the unique identifier of this engine's run.
func (e *Engine) RunID() string { return e.runID }

// State returns the engine's current lifecycle state.
func (e *Engine) State() State { return e.state }

// Config returns the effective configuration after defaulting.
func (e *Engine) Config() Config { return e.cfg }

// Evaluator exposes the run's evaluator, e.g. for baseline scoring.
func (e *Engine) Evaluator() *Evaluator { return e.eval }

// Run executes the configured number of generations and returns clones
// of the terminal Pareto front (rank 0). Cancellation is honored only
// between generations: the best front found so far is returned together
// with ErrRunCancelled.
func (e *Engine) Run(ctx context.Context) ([]model.Candidate, error) {
	start := time.Now()
	e.state = StateInitializing
	pop, err := newPopulation(e.cfg.PopulationSize, e.cfg.ScheduleLength, e.cfg.OperatingWindowMinutes, e.rng)
	if err != nil {
		return nil, err
	}
	if !e.eval.HasDemand() {
		e.log.Warnf("empty demand list: passenger wait objective is zero for all candidates")
	}
	if e.bus != nil {
		e.bus.Publish(events.RunStartedEvent{
			RunID:          e.runID,
			PopulationSize: e.cfg.PopulationSize,
			Generations:    e.cfg.Generations,
			ScheduleLength: e.cfg.ScheduleLength,
			DemandPoints:   len(e.eval.samples),
		})
	}
	e.log.Infof("run %s: population %d, %d generations", e.runID, e.cfg.PopulationSize, e.cfg.Generations)

	var lastFront []model.Candidate
	for gen := 0; gen < e.cfg.Generations; gen++ {
		if ctx != nil && ctx.Err() != nil {
			e.log.Warnf("run %s cancelled at generation %d", e.runID, gen)
			e.finish(lastFront, gen, time.Since(start), true)
			return lastFront, ErrRunCancelled
		}
		genStart := time.Now()

		e.state = StateEvaluating
		e.eval.EvaluateAll(pop)

		e.state = StateRanking
		fronts, err := rank(pop)
		if err != nil {
			return nil, err
		}
		for _, front := range fronts {
			assignCrowding(pop, front)
		}

		e.state = StateSelecting
		survivors, err := selectSurvivors(pop, fronts, e.cfg.PopulationSize)
		if err != nil {
			return nil, err
		}
		lastFront = cloneFront(pop, fronts[0])
		e.boundary(gen, pop, survivors, fronts, time.Since(genStart))

		e.state = StateVarying
		pop = vary(survivors, e.cfg, e.rng)
	}

	// Terminal pass: the working population left by variation is scored
	// and ranked once more; front 0 is the result.
	e.state = StateEvaluating
	e.eval.EvaluateAll(pop)
	e.state = StateRanking
	fronts, err := rank(pop)
	if err != nil {
		return nil, err
	}
	front := cloneFront(pop, fronts[0])
	e.state = StateTerminated
	e.finish(front, e.cfg.Generations, time.Since(start), false)
	return front, nil
}

// boundary emits the generation hooks: bus event, metrics sink record
// and run log append. Failures are logged, never fatal.
func (e *Engine) boundary(gen int, pop, survivors []model.Candidate, fronts [][]int, dur time.Duration) {
	best := bestObjectives(pop)
	stats := metrics.GenerationStats{
		RunID:      e.runID,
		Generation: gen,
		Survivors:  len(survivors),
		FrontCount: len(fronts),
		FrontSize:  len(fronts[0]),
		Best:       best,
		Mean:       meanObjectives(pop),
		Duration:   dur,
		Time:       time.Now(),
	}
	if err := e.sink.RecordGeneration(stats); err != nil {
		e.log.Errorf("metrics error: %v", err)
	}
	if e.bus != nil {
		e.bus.Publish(events.GenerationEvent{
			RunID:      e.runID,
			Generation: gen,
			Survivors:  len(survivors),
			FrontSize:  len(fronts[0]),
			Best:       best,
			Duration:   dur,
		})
	}
	if e.store != nil {
		rec := runlog.Record{
			RunID:      e.runID,
			Generation: gen,
			Timestamp:  stats.Time,
			Survivors:  len(survivors),
			FrontSize:  len(fronts[0]),
			Best:       best,
		}
		if err := e.store.Append(context.Background(), rec); err != nil {
			e.log.Errorf("run log error: %v", err)
		}
	}
	e.log.Debugw("generation complete", map[string]any{
		"run_id":     e.runID,
		"generation": gen,
		"front_size": len(fronts[0]),
		"fronts":     len(fronts),
		"best_cost":  best[model.ObjOperatorCost],
		"best_wait":  best[model.ObjPassengerWait],
	})
}

// finish emits the run completion hooks. The front may be empty when the
// run was cancelled before the first generation completed.
func (e *Engine) finish(front []model.Candidate, generations int, dur time.Duration, cancelled bool) {
	var best model.Objectives
	if len(front) > 0 {
		best = bestObjectives(front)
	}
	if e.bus != nil {
		e.bus.Publish(events.RunCompletedEvent{
			RunID:       e.runID,
			Generations: generations,
			FrontSize:   len(front),
			Duration:    dur,
			Cancelled:   cancelled,
		})
	}
	if rr, ok := e.sink.(metrics.RunSummaryRecorder); ok {
		sum := metrics.RunSummary{
			RunID:       e.runID,
			Generations: generations,
			FrontSize:   len(front),
			Best:        best,
			Cancelled:   cancelled,
			Duration:    dur,
			Time:        time.Now(),
		}
		if err := rr.RecordRunSummary(sum); err != nil {
			e.log.Errorf("metrics error: %v", err)
		}
	}
	e.log.Infof("run %s finished: front size %d after %d generations in %s",
		e.runID, len(front), generations, dur)
}

func cloneFront(pop []model.Candidate, front []int) []model.Candidate {
	out := make([]model.Candidate, 0, len(front))
	for _, i := range front {
		out = append(out, pop[i].Clone())
	}
	return out
}

func bestObjectives(pop []model.Candidate) model.Objectives {
	var best model.Objectives
	for m := 0; m < model.NumObjectives; m++ {
		best[m] = pop[0].Objectives[m]
		for _, c := range pop[1:] {
			if c.Objectives[m] < best[m] {
				best[m] = c.Objectives[m]
			}
		}
	}
	return best
}

func meanObjectives(pop []model.Candidate) model.Objectives {
	var mean model.Objectives
	values := make([]float64, len(pop))
	for m := 0; m < model.NumObjectives; m++ {
		for i, c := range pop {
			values[i] = c.Objectives[m]
		}
		mean[m] = stat.Mean(values, nil)
	}
	return mean
}

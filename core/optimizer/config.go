package optimizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// Config tunes one optimization run.
type Config struct {
	PopulationSize         int     `json:"population_size" validate:"gt=0"`
	Generations            int     `json:"generations" validate:"gt=0"`
	ScheduleLength         int     `json:"schedule_length" validate:"gt=0"`
	CrossoverRate          float64 `json:"crossover_rate" validate:"gte=0,lte=1"`
	MutationRate           float64 `json:"mutation_rate" validate:"gte=0,lte=1"`
	MinHeadwayMinutes      float64 `json:"min_headway_minutes" validate:"gte=0"`
	OperatingWindowMinutes float64 `json:"operating_window_minutes" validate:"gt=0"`

	// RandomSeed makes runs reproducible. Zero means time-seeded.
	RandomSeed int64 `json:"random_seed"`

	// Cost model for the operator cost objective.
	TripCost            float64 `json:"trip_cost" validate:"gte=0"`
	HeadwayPenalty      float64 `json:"headway_penalty" validate:"gte=0"`
	TripDurationMinutes float64 `json:"trip_duration_minutes" validate:"gt=0"`

	// EvalWorkers bounds the evaluation worker pool. Zero means
	// runtime.GOMAXPROCS(0).
	EvalWorkers int `json:"eval_workers" validate:"gte=0"`

	// PerRouteEvaluation re-scores the Pareto front against each
	// route's own demand subset instead of the modulo assignment.
	PerRouteEvaluation bool `json:"per_route_evaluation"`

	// Baseline supplies the reference objectives for the relative
	// metrics summary. When nil the projector evaluates an evenly
	// spaced schedule of the same length instead.
	Baseline *model.Objectives `json:"baseline,omitempty"`
}

// DefaultConfig returns the reference parameterization.
func DefaultConfig() Config {
	return Config{
		PopulationSize:         100,
		Generations:            50,
		ScheduleLength:         24,
		CrossoverRate:          0.8,
		MutationRate:           0.1,
		MinHeadwayMinutes:      30,
		OperatingWindowMinutes: 24 * 60,
		TripCost:               50,
		HeadwayPenalty:         100,
		TripDurationMinutes:    45,
	}
}

// SetDefaults fills the structural fields whose zero value can never be
// valid. The rate, headway and cost fields are left untouched: zero is a
// legal setting for them (crossover or mutation disabled, no headway
// penalty, free trips), so their defaults come from DefaultConfig, which
// the config loader preloads before unmarshalling.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.PopulationSize == 0 {
		c.PopulationSize = def.PopulationSize
	}
	if c.Generations == 0 {
		c.Generations = def.Generations
	}
	if c.ScheduleLength == 0 {
		c.ScheduleLength = def.ScheduleLength
	}
	if c.OperatingWindowMinutes == 0 {
		c.OperatingWindowMinutes = def.OperatingWindowMinutes
	}
	if c.TripDurationMinutes == 0 {
		c.TripDurationMinutes = def.TripDurationMinutes
	}
}

var validate = validator.New()

// Validate checks the configuration and returns a ConfigError describing
// the first offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return ConfigError{
			Field:  fieldName(fe.Field()),
			Reason: fmt.Sprintf("value %v fails constraint %q", fe.Value(), fe.Tag()),
		}
	}
	return ConfigError{Field: "config", Reason: err.Error()}
}

// fieldName converts a Go field name to its snake_case config key.
func fieldName(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

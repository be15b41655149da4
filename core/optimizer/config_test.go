package optimizer

import (
	"errors"
	"testing"
)

func TestSetDefaultsFillsStructuralFields(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	def := DefaultConfig()
	if cfg.PopulationSize != def.PopulationSize || cfg.Generations != def.Generations ||
		cfg.ScheduleLength != def.ScheduleLength ||
		cfg.OperatingWindowMinutes != def.OperatingWindowMinutes ||
		cfg.TripDurationMinutes != def.TripDurationMinutes {
		t.Fatalf("structural fields not defaulted: %+v", cfg)
	}

	cfg = Config{PopulationSize: 7, MutationRate: 0.3}
	cfg.SetDefaults()
	if cfg.PopulationSize != 7 || cfg.MutationRate != 0.3 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
	if cfg.Generations != def.Generations {
		t.Fatalf("unset field not defaulted: %+v", cfg)
	}
}

func TestSetDefaultsKeepsExplicitZeros(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CrossoverRate = 0
	cfg.MutationRate = 0
	cfg.MinHeadwayMinutes = 0
	cfg.TripCost = 0
	cfg.HeadwayPenalty = 0
	cfg.SetDefaults()
	if cfg.CrossoverRate != 0 || cfg.MutationRate != 0 {
		t.Fatalf("zero rates overridden: %+v", cfg)
	}
	if cfg.MinHeadwayMinutes != 0 || cfg.TripCost != 0 || cfg.HeadwayPenalty != 0 {
		t.Fatalf("zero cost model overridden: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero is a legal value for these fields: %v", err)
	}
}

func TestEngineKeepsZeroRates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.Generations = 2
	cfg.ScheduleLength = 4
	cfg.RandomSeed = 1
	cfg.CrossoverRate = 0
	cfg.MutationRate = 0
	eng, err := NewEngine(nil, cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	eff := eng.Config()
	if eff.CrossoverRate != 0 || eff.MutationRate != 0 {
		t.Fatalf("zero rates not honored by the engine: %+v", eff)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*Config)
	}{
		{"population_size", func(c *Config) { c.PopulationSize = -1 }},
		{"generations", func(c *Config) { c.Generations = -5 }},
		{"schedule_length", func(c *Config) { c.ScheduleLength = -1 }},
		{"crossover_rate", func(c *Config) { c.CrossoverRate = 1.2 }},
		{"mutation_rate", func(c *Config) { c.MutationRate = -0.1 }},
		{"min_headway_minutes", func(c *Config) { c.MinHeadwayMinutes = -1 }},
		{"operating_window_minutes", func(c *Config) { c.OperatingWindowMinutes = -60 }},
		{"trip_duration_minutes", func(c *Config) { c.TripDurationMinutes = -10 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		var cfgErr ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected ConfigError got %v", tc.field, err)
		}
		if cfgErr.Field != tc.field {
			t.Fatalf("expected field %q got %q", tc.field, cfgErr.Field)
		}
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestFieldName(t *testing.T) {
	cases := map[string]string{
		"PopulationSize":         "population_size",
		"CrossoverRate":          "crossover_rate",
		"OperatingWindowMinutes": "operating_window_minutes",
	}
	for in, want := range cases {
		if got := fieldName(in); got != want {
			t.Fatalf("fieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

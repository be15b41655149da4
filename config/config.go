// Package config loads the service configuration from a yaml or json
// file with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/sudhish-rithvik/transport-optimizer/core/metrics"
	"github.com/sudhish-rithvik/transport-optimizer/core/optimizer"
	"github.com/sudhish-rithvik/transport-optimizer/infra/mqtt"
)

// Config is the root service configuration.
type Config struct {
	Optimizer  optimizer.Config   `json:"optimizer"`
	Routes     []string           `json:"routes"`
	DemandFile string             `json:"demand_file"`
	OutputFile string             `json:"output_file"` // empty means stdout
	Metrics    coremetrics.Config `json:"metrics"`
	RunLog     RunLogConfig       `json:"runlog"`
	MQTT       mqtt.Config        `json:"mqtt"`
}

// Load reads the configuration file, applies TO_ environment overrides
// and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. TO_optimizer__generations.
	if err := k.Load(env.Provider("TO_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "to_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	// Preload the optimizer defaults so omitted keys keep them while an
	// explicit zero (mutation disabled, no headway penalty) survives.
	cfg := Config{Optimizer: optimizer.DefaultConfig()}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Optimizer.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.RunLog.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Optimizer.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RunLog.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if cfg.DemandFile == "" {
		return nil, fmt.Errorf("demand_file is required")
	}
	return &cfg, nil
}

// Package config loads the service configuration from YAML or JSON files
// with optional environment overrides.
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

	"github.com/agrinet/allocd/core/metrics"
	"github.com/agrinet/allocd/core/negotiation"
	"github.com/agrinet/allocd/core/pool"
	"github.com/agrinet/allocd/core/pricing"
	"github.com/agrinet/allocd/infra/notify"
)

// Config aggregates every subsystem configuration.
type Config struct {
	Pool        pool.Config        `json:"pool"`
	Pricing     pricing.Config     `json:"pricing"`
	Negotiation negotiation.Config `json:"negotiation"`
	Metrics     metrics.Config     `json:"metrics"`
	Notify      notify.Config      `json:"notify"`
	Sweep       SweepConfig        `json:"sweep"`
}

// SweepConfig controls the maintenance cadence.
type SweepConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
}

// SetDefaults fills unset fields.
func (c *SweepConfig) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 60
	}
}

// Load reads the configuration file at path. Environment variables prefixed
// with ALLOCD_ override file values, with __ separating nesting levels.
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
	// Optional environment overrides
	if err := k.Load(env.Provider("ALLOCD_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "allocd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Pool.SetDefaults()
	cfg.Pricing.SetDefaults()
	cfg.Negotiation.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Sweep.SetDefaults()
	if err := cfg.Negotiation.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Package config loads and validates the process-local configuration
// file. A missing or schema-invalid file is a startup error, not a
// recoverable condition.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mode is the orchestrator's operating mode.
type Mode string

const (
	ModeObserve   Mode = "observe"
	ModeRemediate Mode = "remediate"
)

// Constraints bounds the orchestrator's replan budget.
type Constraints struct {
	MaxActionsPerIncident int `json:"maxActionsPerIncident"`
}

// Config is the full process configuration.
type Config struct {
	Mode        Mode        `json:"mode"`
	Constraints Constraints `json:"constraints"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the configuration schema.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeObserve, ModeRemediate:
	default:
		return fmt.Errorf(`mode must be "observe" or "remediate", got %q`, c.Mode)
	}
	if c.Constraints.MaxActionsPerIncident <= 0 {
		return fmt.Errorf("constraints.maxActionsPerIncident must be a positive integer, got %d", c.Constraints.MaxActionsPerIncident)
	}
	return nil
}

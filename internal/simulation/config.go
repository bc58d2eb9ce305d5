// Package simulation drives the line follower: it owns the grid and the car,
// runs the follow loop one tick at a time and tells the frontends what
// changed. Frontend settings are loaded from an optional YAML file.
package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaSrc string

// DefaultConfigPath is where the frontends look for settings when no
// path is given.
const DefaultConfigPath = "linefollow.yaml"

// Config holds the frontend settings. The kernel constants (grid size,
// car geometry, gains) are fixed and not part of it.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Timing  TimingConfig  `yaml:"timing"`
	Audio   AudioConfig   `yaml:"audio"`
}

// DisplayConfig controls how the grid is drawn
type DisplayConfig struct {
	Scale     int  `yaml:"scale"`      // Window zoom factor
	GridLines bool `yaml:"grid_lines"` // Draw the light cell grid
	Verbose   bool `yaml:"verbose"`    // Log every tick
}

// TimingConfig defines the follow loop period
type TimingConfig struct {
	TickMs int `yaml:"tick_ms"`
}

// AudioConfig toggles sound cues
type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TickPeriod returns the follow loop period.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Timing.TickMs) * time.Millisecond
}

// TicksPerSecond returns the tick rate matching TickPeriod, rounded.
func (c *Config) TicksPerSecond() int {
	if c.Timing.TickMs <= 0 {
		return 1
	}
	tps := (1000 + c.Timing.TickMs/2) / c.Timing.TickMs
	if tps < 1 {
		tps = 1
	}
	return tps
}

// DefaultConfig returns the settings the demo ships with.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Scale:     1,
			GridLines: true,
			Verbose:   false,
		},
		Timing: TimingConfig{
			TickMs: 30,
		},
		Audio: AudioConfig{
			Enabled: true,
		},
	}
}

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaSrc)

// LoadConfig loads settings from a YAML file. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates and decodes YAML settings over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	if err := validateConfig(data); err != nil {
		return nil, err
	}

	config := DefaultConfig() // Start with defaults
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func validateConfig(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Round-trip through JSON so the validator sees plain JSON types
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

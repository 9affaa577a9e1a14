// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Bloom      BloomConfig      `yaml:"bloom"`
	Camera     CameraConfig     `yaml:"camera"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds particle simulation cadence parameters.
type SimulationConfig struct {
	FixedStepHz         float64 `yaml:"fixed_step_hz"`          // physics integration rate
	MinUpdatesPerSecond float64 `yaml:"min_updates_per_second"` // floor on emit/step cadence during frame hitches
	ReadbackInterval    int     `yaml:"readback_interval"`      // frames between GPU readback + compaction
	MaxParticles        int     `yaml:"max_particles"`          // per-system slot ceiling
	BurstBatchSize      int     `yaml:"burst_batch_size"`       // bounds any single GPU upload during a burst
}

// BloomConfig holds bloom post-process defaults.
type BloomConfig struct {
	Intensity  float64 `yaml:"intensity"`
	Threshold  float64 `yaml:"threshold"`
	BlurPasses int     `yaml:"blur_passes"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	FovY        float64 `yaml:"fov_y"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FixedStep   float32 // 1 / Simulation.FixedStepHz as float32
	MaxFrameGap float32 // 1 / Simulation.MinUpdatesPerSecond as float32
	ScreenW32   float32
	ScreenH32   float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config, applying
// floors so a sparse user config can never zero out a cadence.
func (c *Config) computeDerived() {
	if c.Simulation.FixedStepHz <= 0 {
		c.Simulation.FixedStepHz = 60
	}
	if c.Simulation.MinUpdatesPerSecond <= 0 {
		c.Simulation.MinUpdatesPerSecond = 30
	}
	if c.Simulation.ReadbackInterval < 1 {
		c.Simulation.ReadbackInterval = 120
	}
	if c.Simulation.MaxParticles < 1 {
		c.Simulation.MaxParticles = 10000
	}
	if c.Simulation.BurstBatchSize < 1 {
		c.Simulation.BurstBatchSize = 1024
	}

	c.Derived.FixedStep = float32(1.0 / c.Simulation.FixedStepHz)
	c.Derived.MaxFrameGap = float32(1.0 / c.Simulation.MinUpdatesPerSecond)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/forcefield/forces"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Emitter    EmitterConfig    `yaml:"emitter"`
	Forces     []ForceConfig    `yaml:"forces"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	Scale     float64 `yaml:"scale"` // pixels per effect-space unit
}

// SimulationConfig holds stepping parameters.
type SimulationConfig struct {
	DT      float64 `yaml:"dt"`
	Seed    uint64  `yaml:"seed"`    // random tables and per-particle streams
	Workers int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// EmitterConfig describes the single particle layer.
type EmitterConfig struct {
	Origin        r3.Vec  `yaml:"origin"`
	Direction     r3.Vec  `yaml:"direction"`
	Spread        float64 `yaml:"spread"` // cone half-angle in degrees
	Rate          float64 `yaml:"rate"`   // particles per second
	MaxParticles  int     `yaml:"max_particles"`
	LifetimeMin   float64 `yaml:"lifetime_min"`
	LifetimeMax   float64 `yaml:"lifetime_max"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	LayerDuration float64 `yaml:"layer_duration"` // seconds per layer loop
	Down          r3.Vec  `yaml:"down"`           // effect-space gravity axis
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Forces           []forces.Force // built from Forces, in order
	EmitterDirection r3.Vec         // unit length
	Down             r3.Vec         // unit length, zero if unset
}

// Load reads the embedded defaults, overlays path when it is set, then
// validates the result and builds its force list.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse unmarshals YAML over cfg. Only fields present in data are
// overwritten; a forces list replaces the existing one.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// computeDerived validates the loaded values and builds the force list.
func (c *Config) computeDerived() error {
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("%w: simulation.dt must be positive", ErrInvalidParameter)
	}
	if c.Emitter.LifetimeMax < c.Emitter.LifetimeMin || c.Emitter.LifetimeMin <= 0 {
		return fmt.Errorf("%w: emitter lifetime range [%v, %v]", ErrInvalidParameter, c.Emitter.LifetimeMin, c.Emitter.LifetimeMax)
	}
	if c.Emitter.SpeedMax < c.Emitter.SpeedMin {
		return fmt.Errorf("%w: emitter speed range [%v, %v]", ErrInvalidParameter, c.Emitter.SpeedMin, c.Emitter.SpeedMax)
	}
	if c.Emitter.LayerDuration <= 0 {
		c.Emitter.LayerDuration = c.Emitter.LifetimeMax
	}

	c.Derived.EmitterDirection = unitOr(c.Emitter.Direction, r3.Vec{Y: 1})
	c.Derived.Down = unitOr(c.Emitter.Down, r3.Vec{})

	fs, err := BuildForces(c.Forces)
	if err != nil {
		return err
	}
	c.Derived.Forces = fs
	return nil
}

// unitOr normalizes v, or returns fallback when v is too short to normalize.
func unitOr(v, fallback r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < 1e-9 || math.IsNaN(n) {
		return fallback
	}
	return r3.Scale(1/n, v)
}

// WriteYAML saves c so that Load(path) reproduces it.
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

// Package config provides configuration loading and access for the generator.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/noise"
	"github.com/pthm-cable/lattice/shapes"
	"github.com/pthm-cable/lattice/space"
	"github.com/pthm-cable/lattice/visualization"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generator configuration parameters.
type Config struct {
	Visualization VisualizationConfig `yaml:"visualization"`
	Field         FieldConfig         `yaml:"field"`
	Object        TRSConfig           `yaml:"object"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Animation     AnimationConfig     `yaml:"animation"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Log           LogConfig           `yaml:"log"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// VisualizationConfig holds the grid and instance settings.
type VisualizationConfig struct {
	Resolution    int     `yaml:"resolution"`
	Shape         string  `yaml:"shape"`
	Displacement  float64 `yaml:"displacement"`
	InstanceScale float64 `yaml:"instance_scale"`
}

// FieldConfig selects the per-point field and its domain.
type FieldConfig struct {
	Kind   string    `yaml:"kind"`  // hash, noise or both
	Noise  string    `yaml:"noise"` // noise kind when Kind is noise
	Seed   int32     `yaml:"seed"`
	Domain TRSConfig `yaml:"domain"`
}

// TRSConfig is a translation / rotation (degrees) / scale triple.
type TRSConfig struct {
	Translation [3]float32 `yaml:"translation"`
	Rotation    [3]float32 `yaml:"rotation"`
	Scale       [3]float32 `yaml:"scale"`
}

// SchedulerConfig holds worker pool parameters.
type SchedulerConfig struct {
	Workers   int `yaml:"workers"`    // 0 = GOMAXPROCS
	BatchSize int `yaml:"batch_size"` // Blocks per chunk, 0 = resolution
}

// AnimationConfig controls the headless run loop.
type AnimationConfig struct {
	Ticks      int     `yaml:"ticks"`
	DomainSpin float32 `yaml:"domain_spin"` // Degrees of domain Y rotation per tick
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// LogConfig holds log output and rotation settings.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Hash      bool // run a hash field session
	Noise     bool // run a noise field session
	Shape     shapes.Kind
	NoiseKind noise.Kind
	Options   visualization.Options
	Domain    space.TRS
	Object    space.TRS
}

// Configuration errors.
var (
	ErrFieldKind = errors.New("unknown field kind")
	ErrTicks     = errors.New("ticks must be positive")
)

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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve validates the configuration and recomputes derived values.
// Call it again after changing fields programmatically.
func (c *Config) Resolve() error {
	if err := c.computeDerived(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Derived.Options.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Animation.Ticks < 1 {
		return fmt.Errorf("invalid config: %w: %d", ErrTicks, c.Animation.Ticks)
	}
	if c.Telemetry.PerfWindow < 1 {
		return fmt.Errorf("invalid config: perf window must be positive, got %d", c.Telemetry.PerfWindow)
	}
	if c.Scheduler.Workers < 0 {
		return fmt.Errorf("invalid config: negative worker count %d", c.Scheduler.Workers)
	}
	return nil
}

// computeDerived parses names into kinds and builds the session options.
func (c *Config) computeDerived() error {
	shape, err := shapes.ParseKind(c.Visualization.Shape)
	if err != nil {
		return err
	}
	c.Derived.Shape = shape

	c.Derived.Hash = false
	c.Derived.Noise = false
	switch c.Field.Kind {
	case "hash":
		c.Derived.Hash = true
	case "noise", "both":
		c.Derived.Hash = c.Field.Kind == "both"
		c.Derived.Noise = true
		kind, err := noise.ParseKind(c.Field.Noise)
		if err != nil {
			return err
		}
		c.Derived.NoiseKind = kind
	default:
		return fmt.Errorf("%w %q", ErrFieldKind, c.Field.Kind)
	}

	c.Derived.Options = visualization.Options{
		Resolution:    c.Visualization.Resolution,
		Shape:         shape,
		Displacement:  float32(c.Visualization.Displacement),
		InstanceScale: float32(c.Visualization.InstanceScale),
		BatchSize:     c.Scheduler.BatchSize,
	}
	c.Derived.Domain = c.Field.Domain.TRS()
	c.Derived.Object = c.Object.TRS()
	return nil
}

// TRS converts the config triple.
func (t TRSConfig) TRS() space.TRS {
	vec := func(a [3]float32) lanes.Vec3 { return lanes.Vec3{X: a[0], Y: a[1], Z: a[2]} }
	return space.TRS{
		Translation: vec(t.Translation),
		Rotation:    vec(t.Rotation),
		Scale:       vec(t.Scale),
	}
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

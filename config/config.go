// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Bot        BotConfig        `yaml:"bot"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Sim        SimConfig        `yaml:"sim"`
	Screen     ScreenConfig     `yaml:"screen"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Storage    StorageConfig    `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the food grid dimensions in cells.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds population sizing.
type PopulationConfig struct {
	Size       int `yaml:"size"`
	FoodPerBot int `yaml:"food_per_bot"` // Food cells placed per bot each generation
}

// BotConfig holds the fixed shape of every bot program.
type BotConfig struct {
	GenomeLength int `yaml:"genome_length"`
	Lifetime     int `yaml:"lifetime"` // Instructions a bot may execute per generation
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate              float64 `yaml:"rate"`
	InitialVolatility float64 `yaml:"initial_volatility"` // Volatility of generation 0 genomes
}

// SimConfig holds clock parameters.
type SimConfig struct {
	TicksPerSecond int `yaml:"ticks_per_second"`
	MaxGenerations int `yaml:"max_generations"` // 0 = unlimited
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	HallOfFameSize int `yaml:"hall_of_fame_size"`
	LogEvery       int `yaml:"log_every"` // Log stats every N generations
}

// StorageConfig holds run history settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FoodCount  int     // Population.FoodPerBot * Population.Size
	Cells      int     // World.Width * World.Height
	MaxFitness float64 // Food density * Bot.Lifetime, the fitness normalizer
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

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks that every knob is usable. Sizes must be positive and the
// food count must fit on the grid, otherwise reseeding could never finish.
func (c *Config) Validate() error {
	var errs []error
	positive := func(key string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", key, v))
		}
	}

	positive("world.width", c.World.Width)
	positive("world.height", c.World.Height)
	positive("population.size", c.Population.Size)
	positive("population.food_per_bot", c.Population.FoodPerBot)
	positive("bot.genome_length", c.Bot.GenomeLength)
	positive("bot.lifetime", c.Bot.Lifetime)
	positive("sim.ticks_per_second", c.Sim.TicksPerSecond)

	if c.Mutation.Rate < 0 || c.Mutation.Rate >= 1 {
		errs = append(errs, fmt.Errorf("mutation.rate must be in [0,1), got %g", c.Mutation.Rate))
	}
	if c.Mutation.InitialVolatility < 0 {
		errs = append(errs, fmt.Errorf("mutation.initial_volatility must not be negative, got %g", c.Mutation.InitialVolatility))
	}
	if c.Sim.MaxGenerations < 0 {
		errs = append(errs, fmt.Errorf("sim.max_generations must not be negative, got %d", c.Sim.MaxGenerations))
	}

	if c.Telemetry.HallOfFameSize < 0 {
		errs = append(errs, fmt.Errorf("telemetry.hall_of_fame_size must not be negative, got %d", c.Telemetry.HallOfFameSize))
	}

	if c.World.Width > 0 && c.World.Height > 0 {
		food := c.Population.FoodPerBot * c.Population.Size
		cells := c.World.Width * c.World.Height
		if food > cells {
			errs = append(errs, fmt.Errorf("population.food_per_bot * population.size (%d) exceeds grid cells (%d)", food, cells))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call it again after changing fields in code.
func (c *Config) ComputeDerived() {
	c.Derived.FoodCount = c.Population.FoodPerBot * c.Population.Size
	c.Derived.Cells = c.World.Width * c.World.Height
	c.Derived.MaxFitness = 0
	if c.Derived.Cells > 0 {
		c.Derived.MaxFitness = float64(c.Derived.FoodCount) / float64(c.Derived.Cells) * float64(c.Bot.Lifetime)
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.MarshalYAMLBytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// MarshalYAMLBytes returns the configuration encoded as YAML.
func (c *Config) MarshalYAMLBytes() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

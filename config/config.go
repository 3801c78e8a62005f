// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Nutrition  NutritionConfig  `yaml:"nutrition"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Population PopulationConfig `yaml:"population"`
	Params     ParamsConfig     `yaml:"params"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	TargetFPS     int `yaml:"target_fps"`
	TicksPerFrame int `yaml:"ticks_per_frame"`
}

// WorldConfig holds the torus dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TerrainConfig holds elevation generation parameters.
type TerrainConfig struct {
	NX              int     `yaml:"nx"`
	NY              int     `yaml:"ny"`
	SmoothingPasses int     `yaml:"smoothing_passes"`
	E0              float64 `yaml:"e0"`         // Elevation of peak productivity
	CMountain       float64 `yaml:"c_mountain"` // Parabola steepness
	Source          string  `yaml:"source"`     // "uniform" or "simplex"
	NoiseScale      float64 `yaml:"noise_scale"`
}

// NutritionConfig holds logistic growth and diffusion parameters.
type NutritionConfig struct {
	R0        float64 `yaml:"r0"`
	K0        float64 `yaml:"k0"`
	KMin      float64 `yaml:"k_min"`
	Diffusion float64 `yaml:"diffusion"`
	InitFill  float64 `yaml:"init_fill"` // Initial n as a fraction of k
}

// SpatialConfig holds spatial index parameters.
type SpatialConfig struct {
	CellSize      float64 `yaml:"cell_size"`
	DensityRadius float64 `yaml:"density_radius"`
}

// PopulationConfig holds initial population settings.
type PopulationConfig struct {
	Herbivores int   `yaml:"herbivores"`
	Carnivores int   `yaml:"carnivores"`
	Seed       int64 `yaml:"seed"`
}

// ParamsConfig holds the tunable behavior constants. Read-only during a run.
type ParamsConfig struct {
	EatRate        float64 `yaml:"eat_rate"`
	EtaEat         float64 `yaml:"eta_eat"` // Nutrition to energy conversion
	BiteCost       float64 `yaml:"bite_cost"`
	CooldownTicks  int     `yaml:"cooldown_ticks"` // Predation cooldown
	PreyEnergyGain float64 `yaml:"prey_energy_gain"`
	PredationReach float64 `yaml:"predation_reach"` // Added to own radius for the candidate query

	BasalCost float64 `yaml:"basal_cost"`
	MoveCost  float64 `yaml:"move_cost"`
	SlopeCost float64 `yaml:"slope_cost"`
	CrowdCost float64 `yaml:"crowd_cost"`
	Rho0      float64 `yaml:"rho0"` // Crowding reference density

	MatureAge         int     `yaml:"mature_age"`
	MateRadius        float64 `yaml:"mate_radius"`
	GestationTicks    int     `yaml:"gestation_ticks"`
	MateCooldownTicks int     `yaml:"mate_cooldown_ticks"`
	MaleMateCost      float64 `yaml:"male_mate_cost"`
	FemaleMateCost    float64 `yaml:"female_mate_cost"`
	MaleMateMin       float64 `yaml:"male_mate_min"`
	FemaleMateMin     float64 `yaml:"female_mate_min"`
	BirthCost         float64 `yaml:"birth_cost"`
	AMate             float64 `yaml:"a_mate"` // Mating rejection steepness

	GeneReproThreshold bool `yaml:"gene_repro_threshold"`

	MutationRate  float64 `yaml:"mutation_rate"`
	MutationSigma float64 `yaml:"mutation_sigma"`
	BirthJitter   float64 `yaml:"birth_jitter"`
	ChildEnergy   float64 `yaml:"child_energy"`
}

// TelemetryConfig holds reporting parameters.
type TelemetryConfig struct {
	Interval        int `yaml:"interval"`         // Ticks between report rows
	WindowTicks     int `yaml:"window_ticks"`     // Ticks per event-stats window
	BookmarkHistory int `yaml:"bookmark_history"` // Windows of history for bookmark detection
	PerfWindow      int `yaml:"perf_window"`      // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellW      float64 // World units per terrain cell (x)
	CellH      float64 // World units per terrain cell (y)
	BucketCols int
	BucketRows int
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

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
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
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.Terrain.NX < 1 || c.Terrain.NY < 1 {
		errs = append(errs, fmt.Errorf("terrain lattice must be at least 1x1, got %dx%d", c.Terrain.NX, c.Terrain.NY))
	}
	if c.Terrain.SmoothingPasses < 0 {
		errs = append(errs, fmt.Errorf("smoothing_passes must be non-negative, got %d", c.Terrain.SmoothingPasses))
	}
	switch c.Terrain.Source {
	case "", "uniform", "simplex":
	default:
		errs = append(errs, fmt.Errorf("unknown terrain source %q", c.Terrain.Source))
	}
	if c.Spatial.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("spatial cell_size must be positive, got %g", c.Spatial.CellSize))
	}
	if c.Population.Herbivores < 0 || c.Population.Carnivores < 0 {
		errs = append(errs, errors.New("initial population counts must be non-negative"))
	}
	if c.Telemetry.Interval < 0 {
		errs = append(errs, fmt.Errorf("telemetry interval must be non-negative, got %d", c.Telemetry.Interval))
	}
	if c.Telemetry.WindowTicks < 0 {
		errs = append(errs, fmt.Errorf("telemetry window_ticks must be non-negative, got %d", c.Telemetry.WindowTicks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Terrain.Source == "" {
		c.Terrain.Source = "uniform"
	}
	c.Derived.CellW = c.World.Width / float64(c.Terrain.NX)
	c.Derived.CellH = c.World.Height / float64(c.Terrain.NY)
	c.Derived.BucketCols = max(1, int(math.Ceil(c.World.Width/c.Spatial.CellSize)))
	c.Derived.BucketRows = max(1, int(math.Ceil(c.World.Height/c.Spatial.CellSize)))
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

// Package config provides configuration loading and access for the warp subsystem.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all warp subsystem tuning parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Energy      EnergyConfig      `yaml:"energy"`
	Cost        CostConfig        `yaml:"cost"`
	Routes      RoutesConfig      `yaml:"routes"`
	Learning    LearningConfig    `yaml:"learning"`
	Emergency   EmergencyConfig   `yaml:"emergency"`
	Exploration ExplorationConfig `yaml:"exploration"`
	Affinity    AffinityConfig    `yaml:"affinity"`
	Mastery     MasteryConfig     `yaml:"mastery"`
	Warp        WarpConfig        `yaml:"warp"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// ScreenConfig holds display settings for the demo app.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// EnergyConfig holds the energy pool parameters.
type EnergyConfig struct {
	Max            float64 `yaml:"max"`
	Initial        float64 `yaml:"initial"`
	RegenPerSecond float64 `yaml:"regen_per_second"`
}

// CostConfig holds the physics baseline and the hard floor beneath all
// learned adjustments.
type CostConfig struct {
	MinBase       float64 `yaml:"min_base"`       // Minimum base cost regardless of distance
	UnitDistance  float64 `yaml:"unit_distance"`  // World units per base cost unit
	FloorFraction float64 `yaml:"floor_fraction"` // Final cost never drops below base * this
}

// RoutesConfig holds route identity and familiarity parameters.
type RoutesConfig struct {
	GridPitch             float64 `yaml:"grid_pitch"`             // Source quantization cell size
	FamiliaritySaturation uint32  `yaml:"familiarity_saturation"` // Uses at which the discount saturates
	FamiliarityFloor      float64 `yaml:"familiarity_floor"`      // Multiplier at saturation
}

// LearningConfig holds memory growth and consolidation parameters.
type LearningConfig struct {
	ConsolidateEvery uint32  `yaml:"consolidate_every"` // Warps between consolidation passes
	PruneBelowUses   uint32  `yaml:"prune_below_uses"`  // Routes with fewer uses are evicted
	CurveCapacity    int     `yaml:"curve_capacity"`    // Learning curve ring buffer size
	TrendWindow      int     `yaml:"trend_window"`      // Samples used for the adaptation slope
	ChainWindowSec   float64 `yaml:"chain_window_sec"`  // Max gap between warps to count a chain
	OptimalFraction  float64 `yaml:"optimal_fraction"`  // Warp is optimal when cost <= base * this
}

// EmergencyConfig holds emergency detection weights and cost relief shape.
type EmergencyConfig struct {
	LowHealthThreshold float64 `yaml:"low_health_threshold"` // Health below this counts as low
	HealthWeight       float64 `yaml:"health_weight"`
	ChainWeight        float64 `yaml:"chain_weight"`
	DangerWeight       float64 `yaml:"danger_weight"`
	DangerSaturation   int     `yaml:"danger_saturation"` // Nearby dangers for full danger signal
	PanicWindowSec     float64 `yaml:"panic_window_sec"`  // Repeat warp inside this window = panic
	TriggerScore       float64 `yaml:"trigger_score"`     // Relief applies above this score
	ReliefBase         float64 `yaml:"relief_base"`       // Multiplier = relief_base - score*relief_scale
	ReliefScale        float64 `yaml:"relief_scale"`
}

// ExplorationConfig holds the first-visit discount parameters.
type ExplorationConfig struct {
	FirstVisitBonus float64 `yaml:"first_visit_bonus"`
	EarlyVisitBonus float64 `yaml:"early_visit_bonus"`
	EarlyVisitMax   uint32  `yaml:"early_visit_max"` // Visits still counted as "early"
}

// AffinityConfig holds the revisit-affinity discount parameters.
type AffinityConfig struct {
	MaxDiscount float64 `yaml:"max_discount"` // Bonus = 1 - affinity*max_discount
}

// MasteryConfig holds the skill-blend weights for the mastery multiplier.
type MasteryConfig struct {
	Floor             float64 `yaml:"floor"` // Multiplier at full mastery
	OptimalWeight     float64 `yaml:"optimal_weight"`
	CalmWeight        float64 `yaml:"calm_weight"`
	ExplorationWeight float64 `yaml:"exploration_weight"`
}

// WarpConfig holds state machine and targeting parameters.
type WarpConfig struct {
	DurationSec          float64 `yaml:"duration_sec"` // Fixed in-flight animation time
	PickRadius           float64 `yaml:"pick_radius"`  // Max pick distance for targeting
	ReturnVisitThreshold uint32  `yaml:"return_visit_threshold"`
}

// TelemetryConfig holds telemetry output parameters.
type TelemetryConfig struct {
	StatsEveryWarps uint32 `yaml:"stats_every_warps"`
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

	return cfg, nil
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

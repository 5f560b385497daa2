// Package config provides Viper-based configuration loading for the
// ballistics simulation.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds the tuning constants of the tick simulation.
type SimulationConfig struct {
	// TickRate is the number of simulation ticks per second.
	TickRate int `mapstructure:"tick_rate"`
	// GravityY is the vertical gravitational acceleration in m/s²
	// (negative is down).
	GravityY float64 `mapstructure:"gravity_y"`
	// AirDensity is the ambient air density in kg/m³.
	AirDensity float64 `mapstructure:"air_density"`
	// WindX/WindY/WindZ form the ambient wind velocity in m/s.
	WindX float64 `mapstructure:"wind_x"`
	WindY float64 `mapstructure:"wind_y"`
	WindZ float64 `mapstructure:"wind_z"`
	// EnergyLossPerMeter is the penetration energy a projectile spends
	// per meter of flight. Materially changes penetration balance.
	EnergyLossPerMeter float64 `mapstructure:"energy_loss_per_meter"`
	// PenetrationDamping scales projectile velocity after passing
	// through a surface.
	PenetrationDamping float64 `mapstructure:"penetration_damping"`
	// DefaultSurfaceResistance is used for surfaces with no scripted
	// material.
	DefaultSurfaceResistance float64 `mapstructure:"default_surface_resistance"`
	// MaxStepTravel caps per-RK4-step travel distance in meters;
	// 0 disables sub-stepping.
	MaxStepTravel float64 `mapstructure:"max_step_travel"`
	// ScriptInstructionLimit bounds Lua opcodes per material script run;
	// 0 uses the scripting package default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Dt returns the tick duration in seconds.
//
// Precondition: TickRate > 0 (enforced by Validate).
func (s SimulationConfig) Dt() float64 {
	return 1 / float64(s.TickRate)
}

// ContentConfig holds the content definition directories.
type ContentConfig struct {
	// WeaponsDir holds weapon YAML definitions.
	WeaponsDir string `mapstructure:"weapons_dir"`
	// AttachmentsDir holds attachment YAML definitions.
	AttachmentsDir string `mapstructure:"attachments_dir"`
	// MaterialsDir holds Lua material scripts.
	MaterialsDir string `mapstructure:"materials_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickRate < 1 {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be >= 1, got %d", s.TickRate))
	}
	if s.AirDensity < 0 {
		errs = append(errs, "simulation.air_density must not be negative")
	}
	if s.EnergyLossPerMeter < 0 {
		errs = append(errs, "simulation.energy_loss_per_meter must not be negative")
	}
	if s.PenetrationDamping < 0 || s.PenetrationDamping > 1 {
		errs = append(errs, fmt.Sprintf("simulation.penetration_damping must be in [0, 1], got %v", s.PenetrationDamping))
	}
	if s.DefaultSurfaceResistance < 0 {
		errs = append(errs, "simulation.default_surface_resistance must not be negative")
	}
	if s.MaxStepTravel < 0 {
		errs = append(errs, "simulation.max_step_travel must not be negative")
	}
	if s.ScriptInstructionLimit < 0 {
		errs = append(errs, "simulation.script_instruction_limit must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BALLISTICS_ prefix
	v.SetEnvPrefix("BALLISTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.gravity_y", -9.81)
	v.SetDefault("simulation.air_density", 1.225)
	v.SetDefault("simulation.wind_x", 0.0)
	v.SetDefault("simulation.wind_y", 0.0)
	v.SetDefault("simulation.wind_z", 0.0)
	v.SetDefault("simulation.energy_loss_per_meter", 1.0)
	v.SetDefault("simulation.penetration_damping", 0.6)
	v.SetDefault("simulation.default_surface_resistance", 100.0)
	v.SetDefault("simulation.max_step_travel", 0.0)
	v.SetDefault("simulation.script_instruction_limit", 0)

	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.attachments_dir", "content/attachments")
	v.SetDefault("content.materials_dir", "content/materials")
}

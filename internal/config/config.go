// Package config provides configuration loading from YAML files and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phinze/swipedeck/internal/swipe"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigPath         = "SWIPEDECK_CONFIG"
	EnvMinSwipeCm         = "SWIPEDECK_MIN_SWIPE_CM"
	EnvTriggerAtThreshold = "SWIPEDECK_TRIGGER_AT_THRESHOLD"
	EnvEightDirections    = "SWIPEDECK_EIGHT_DIRECTIONS"
	EnvScreenDPI          = "SWIPEDECK_SCREEN_DPI"
	EnvLogLevel           = "SWIPEDECK_LOG_LEVEL"
)

// Config holds the full application configuration, assembled from YAML + env.
type Config struct {
	Swipe    SwipeConfig  `yaml:"swipe"`
	Device   DeviceConfig `yaml:"device"`
	LogLevel string       `yaml:"log_level"`
}

// SwipeConfig holds the sampler tunables.
type SwipeConfig struct {
	MinSwipeCm         float64 `yaml:"min_swipe_cm"`
	TriggerAtThreshold bool    `yaml:"trigger_at_threshold"`
	EightDirections    bool    `yaml:"eight_directions"`
	ScreenDPI          float64 `yaml:"screen_dpi,omitempty"`
	Velocity           string  `yaml:"velocity,omitempty"`
}

// DeviceConfig holds Stream Deck settings.
type DeviceConfig struct {
	Serial     string `yaml:"serial,omitempty"`
	Brightness int    `yaml:"brightness"`
	TickRate   int    `yaml:"tick_rate"`
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	sc := swipe.DefaultConfig()
	return &Config{
		Swipe: SwipeConfig{
			MinSwipeCm:         sc.MinSwipeLengthCm,
			TriggerAtThreshold: sc.TriggerAtThreshold,
			EightDirections:    sc.UseEightDirections,
		},
		Device: DeviceConfig{
			Brightness: 80,
			TickRate:   60,
		},
		LogLevel: "info",
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "swipedeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load assembles configuration from the default YAML file and environment
// variables. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// 1. Try to load YAML config file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// 2. Environment variables override everything
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvMinSwipeCm); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinSwipeCm, err)
		}
		c.Swipe.MinSwipeCm = f
	}
	if v := os.Getenv(EnvTriggerAtThreshold); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTriggerAtThreshold, err)
		}
		c.Swipe.TriggerAtThreshold = b
	}
	if v := os.Getenv(EnvEightDirections); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEightDirections, err)
		}
		c.Swipe.EightDirections = b
	}
	if v := os.Getenv(EnvScreenDPI); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvScreenDPI, err)
		}
		c.Swipe.ScreenDPI = f
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	if c.Swipe.MinSwipeCm < 0 {
		return fmt.Errorf("swipe.min_swipe_cm must not be negative, got %v", c.Swipe.MinSwipeCm)
	}
	if c.Swipe.ScreenDPI < 0 {
		return fmt.Errorf("swipe.screen_dpi must not be negative, got %v", c.Swipe.ScreenDPI)
	}
	if _, err := swipe.ParseVelocityMode(c.Swipe.Velocity); err != nil {
		return fmt.Errorf("swipe.velocity: %w", err)
	}
	if c.Device.Brightness < 0 || c.Device.Brightness > 100 {
		return fmt.Errorf("device.brightness must be between 0 and 100, got %d", c.Device.Brightness)
	}
	if c.Device.TickRate < 0 {
		return fmt.Errorf("device.tick_rate must not be negative, got %d", c.Device.TickRate)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level. An empty level is info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// SamplerConfig converts the swipe section for the sampler. Call Validate
// first; an unknown velocity mode falls back to the scaled formula.
func (c *Config) SamplerConfig() swipe.Config {
	mode, _ := swipe.ParseVelocityMode(c.Swipe.Velocity)
	return swipe.Config{
		MinSwipeLengthCm:   c.Swipe.MinSwipeCm,
		TriggerAtThreshold: c.Swipe.TriggerAtThreshold,
		UseEightDirections: c.Swipe.EightDirections,
		Velocity:           mode,
		ScreenDPI:          c.Swipe.ScreenDPI,
	}
}

// WriteConfigFile writes config to the default YAML file.
func WriteConfigFile(cfg *Config) error {
	return WriteConfigFileTo(DefaultConfigPath(), cfg)
}

// WriteConfigFileTo writes config to path, creating its directory.
func WriteConfigFileTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

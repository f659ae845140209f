package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the trim control's tunables. Defaults match the values the
// engine was designed around; a partial YAML file overrides only what it
// names.
type Config struct {
	// Geometry
	EdgeInsetPx   float64 `yaml:"edge_inset_px"`
	HandleWidthPx float64 `yaml:"handle_width_px"`
	PixelScale    float64 `yaml:"pixel_scale"`

	// Behavior
	MinimumDurationSec float64 `yaml:"minimum_duration_sec"`
	ZoomDwellMs        int     `yaml:"zoom_dwell_ms"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		EdgeInsetPx:        16,
		HandleWidthPx:      16,
		PixelScale:         1,
		MinimumDurationSec: 1,
		ZoomDwellMs:        500,
		LogLevel:           "INFO",
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults untouched.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, c.validate()
}

func (c *Config) validate() error {
	if c.EdgeInsetPx < 0 {
		return fmt.Errorf("edge_inset_px must be >= 0, got %v", c.EdgeInsetPx)
	}
	if c.MinimumDurationSec < 0 {
		return fmt.Errorf("minimum_duration_sec must be >= 0, got %v", c.MinimumDurationSec)
	}
	if c.ZoomDwellMs < 0 {
		return fmt.Errorf("zoom_dwell_ms must be >= 0, got %v", c.ZoomDwellMs)
	}
	if c.PixelScale <= 0 {
		return fmt.Errorf("pixel_scale must be > 0, got %v", c.PixelScale)
	}
	return nil
}

func (c *Config) ZoomDwell() time.Duration {
	return time.Duration(c.ZoomDwellMs) * time.Millisecond
}

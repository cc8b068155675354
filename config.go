package canvas

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Config tunes engine behavior. Zero values are replaced by defaults when
// loading; construct by hand from DefaultConfig when not loading a file.
type Config struct {
	// MaxFrameRate caps how often a root republishes its buffer, in frames
	// per second.
	MaxFrameRate float64 `toml:"max_frame_rate"`
	// RenderWorkers bounds how many layer repaint tasks run concurrently.
	RenderWorkers int `toml:"render_workers"`
	// DoubleClickTimeMS is the maximum interval between clicks that form a
	// double click.
	DoubleClickTimeMS int `toml:"double_click_time_ms"`
	// DoubleClickDistance is the maximum cursor travel, in units, between
	// clicks that form a double click.
	DoubleClickDistance int `toml:"double_click_distance"`
	// SplitterSnapTolerance is the distance within which a dragged splitter
	// handle snaps to thirds and center.
	SplitterSnapTolerance int `toml:"splitter_snap_tolerance"`
	// SmoothScroll animates wheel scrolling instead of jumping.
	SmoothScroll bool `toml:"smooth_scroll"`
	// ScrollWheelSpeed is the distance, in units, of one wheel line step.
	ScrollWheelSpeed int `toml:"scroll_wheel_speed"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxFrameRate:          60,
		RenderWorkers:         max(2, runtime.NumCPU()/2),
		DoubleClickTimeMS:     400,
		DoubleClickDistance:   5,
		SplitterSnapTolerance: 12,
		SmoothScroll:          true,
		ScrollWheelSpeed:      40,
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing file is
// not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// SaveConfig writes the config as TOML.
func SaveConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.MaxFrameRate <= 0 {
		c.MaxFrameRate = def.MaxFrameRate
	}
	if c.RenderWorkers <= 0 {
		c.RenderWorkers = def.RenderWorkers
	}
	if c.DoubleClickTimeMS <= 0 {
		c.DoubleClickTimeMS = def.DoubleClickTimeMS
	}
	if c.DoubleClickDistance <= 0 {
		c.DoubleClickDistance = def.DoubleClickDistance
	}
	if c.SplitterSnapTolerance <= 0 {
		c.SplitterSnapTolerance = def.SplitterSnapTolerance
	}
	if c.ScrollWheelSpeed <= 0 {
		c.ScrollWheelSpeed = def.ScrollWheelSpeed
	}
}

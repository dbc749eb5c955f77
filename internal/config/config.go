// Package config handles flamegrid configuration loading and validation.
package config

import (
	"fmt"
	"strings"

	"github.com/flamegrid/flamegrid/internal/category"
)

// Config is the root configuration structure for flamegrid.
type Config struct {
	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Categories overrides the built-in category attribute table.
	Categories []CategoryConfig `yaml:"categories" mapstructure:"categories"`

	// Viewport tunes zoom/scroll behavior.
	Viewport ViewportConfig `yaml:"viewport" mapstructure:"viewport"`

	// Density tunes the minimap overview index.
	Density DensityConfig `yaml:"density" mapstructure:"density"`

	// TUI settings
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path; the TUI always logs to a file so
	// log lines never interleave with the display.
	File string `yaml:"file" mapstructure:"file"`
}

// CategoryConfig overrides one category's resolution/display attributes.
type CategoryConfig struct {
	// Name is the category label (DML, SOQL, Method, ...).
	Name string `yaml:"name" mapstructure:"name"`

	// Priority ranks the category for dominant resolution; lower wins.
	Priority int `yaml:"priority" mapstructure:"priority"`

	// Weight multiplies the category's density-index contribution.
	Weight float64 `yaml:"weight" mapstructure:"weight"`

	// Color is the category's display color (hex).
	Color string `yaml:"color" mapstructure:"color"`
}

// ViewportConfig tunes viewport clamping and geometry.
type ViewportConfig struct {
	// MinTimePerPixel is the finest zoom precision in time units per pixel.
	MinTimePerPixel float64 `yaml:"min_time_per_pixel" mapstructure:"min_time_per_pixel"`

	// RowHeight is the pixel height of one depth level.
	RowHeight float64 `yaml:"row_height" mapstructure:"row_height"`

	// DepthPadding is how far (px) the deepest row may scroll past the top.
	DepthPadding float64 `yaml:"depth_padding" mapstructure:"depth_padding"`
}

// DensityConfig tunes the minimap overview index.
type DensityConfig struct {
	// Strategy selects the computation strategy (direct, sweep).
	Strategy string `yaml:"strategy" mapstructure:"strategy"`

	// MaxBuckets caps the overview bucket count regardless of display width.
	MaxBuckets int `yaml:"max_buckets" mapstructure:"max_buckets"`
}

// TUIConfig contains TUI settings.
type TUIConfig struct {
	// Theme is the color theme name.
	Theme string `yaml:"theme" mapstructure:"theme"`

	// FrameRate is the render coalescing rate in frames per second.
	FrameRate int `yaml:"frame_rate" mapstructure:"frame_rate"`

	// ShowMinimap toggles the overview strip.
	ShowMinimap bool `yaml:"show_minimap" mapstructure:"show_minimap"`

	// ShowStats toggles the per-query stats line.
	ShowStats bool `yaml:"show_stats" mapstructure:"show_stats"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Viewport: ViewportConfig{
			MinTimePerPixel: 0.001,
			RowHeight:       15,
			DepthPadding:    30,
		},
		Density: DensityConfig{
			Strategy:   "sweep",
			MaxBuckets: 512,
		},
		TUI: TUIConfig{
			Theme:       "default",
			FrameRate:   30,
			ShowMinimap: true,
			ShowStats:   true,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Viewport.MinTimePerPixel <= 0 {
		return fmt.Errorf("viewport.min_time_per_pixel must be positive")
	}
	if c.Viewport.RowHeight <= 0 {
		return fmt.Errorf("viewport.row_height must be positive")
	}
	if c.Density.MaxBuckets < 1 {
		return fmt.Errorf("density.max_buckets must be at least 1")
	}
	switch c.Density.Strategy {
	case "direct", "sweep":
		// ok
	default:
		return fmt.Errorf("density.strategy must be one of direct, sweep")
	}
	if c.TUI.FrameRate < 1 {
		return fmt.Errorf("tui.frame_rate must be at least 1")
	}

	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("categories[%d].name is required", i)
		}
		if cat.Weight < 0 {
			return fmt.Errorf("categories[%d].weight must not be negative", i)
		}
	}

	return nil
}

// CategoryTable builds the category attribute table: built-in defaults with
// the configured overrides applied on top. An override naming an unknown
// category lands on KindOther.
func (c *Config) CategoryTable() category.Table {
	tbl := category.DefaultTable()
	for _, cat := range c.Categories {
		k := category.Parse(cat.Name)
		if cat.Priority > 0 {
			tbl[k].Priority = cat.Priority
		}
		if cat.Weight > 0 {
			tbl[k].Weight = cat.Weight
		}
		if cat.Color != "" {
			tbl[k].Color = cat.Color
		}
	}
	return tbl
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamegrid/flamegrid/internal/category"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min_time_per_pixel", func(c *Config) { c.Viewport.MinTimePerPixel = 0 }},
		{"zero row_height", func(c *Config) { c.Viewport.RowHeight = 0 }},
		{"zero max_buckets", func(c *Config) { c.Density.MaxBuckets = 0 }},
		{"unknown strategy", func(c *Config) { c.Density.Strategy = "psychic" }},
		{"zero frame_rate", func(c *Config) { c.TUI.FrameRate = 0 }},
		{"unnamed category", func(c *Config) { c.Categories = []CategoryConfig{{Weight: 1}} }},
		{"negative weight", func(c *Config) { c.Categories = []CategoryConfig{{Name: "DML", Weight: -1}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCategoryTableOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories = []CategoryConfig{
		{Name: "DML", Priority: 4, Weight: 9.5, Color: "#123456"},
		{Name: "Method", Color: "#abcdef"},
	}

	tbl := cfg.CategoryTable()

	assert.Equal(t, 4, tbl.Priority(category.KindDML))
	assert.Equal(t, 9.5, tbl.Weight(category.KindDML))
	assert.Equal(t, "#123456", tbl.Color(category.KindDML))

	// Partial overrides keep the defaults for unset fields.
	def := category.DefaultTable()
	assert.Equal(t, def.Priority(category.KindMethod), tbl.Priority(category.KindMethod))
	assert.Equal(t, "#abcdef", tbl.Color(category.KindMethod))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	payload := `
logging:
  level: debug
viewport:
  row_height: 12
density:
  strategy: direct
  max_buckets: 64
categories:
  - name: SOQL
    weight: 3.5
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 12.0, cfg.Viewport.RowHeight)
	assert.Equal(t, "direct", cfg.Density.Strategy)
	assert.Equal(t, 64, cfg.Density.MaxBuckets)

	// Untouched settings keep defaults.
	assert.Equal(t, 0.001, cfg.Viewport.MinTimePerPixel)

	tbl := cfg.CategoryTable()
	assert.Equal(t, 3.5, tbl.Weight(category.KindSOQL))
}

func TestLoadFromMissingExplicitFileFails(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

package options

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	css "github.com/mazznoer/csscolorparser"
	"github.com/richinsley/heatsurface/heatfield"
	"github.com/richinsley/heatsurface/surface"
)

// Config holds tunables and feature flags read from a JSON file
type Config struct {
	Features  Features  `json:"features"`
	Rendering Rendering `json:"rendering"`
}

type Features struct {
	// Animate lets the heat field drift over time instead of holding still
	Animate bool `json:"animate"`
}

type Rendering struct {
	// Smoothing is the per-frame pointer follow factor (0-1]
	Smoothing float64 `json:"smoothing"`

	// MaxPixelRatio caps the render density on high-DPI displays
	MaxPixelRatio float64 `json:"max_pixel_ratio"`

	// Palette replaces the eight ramp stops, coldest first, as CSS colors.
	// Empty keeps the built-in ramp.
	Palette []string `json:"palette"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Rendering: Rendering{
			Smoothing:     0.15,
			MaxPixelRatio: 2,
		},
	}
}

// Load reads a configuration file over the defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Ramp returns base with its stops replaced by the configured palette.
func (c *Config) Ramp(base heatfield.Ramp) (heatfield.Ramp, error) {
	p := c.Rendering.Palette
	if len(p) == 0 {
		return base, nil
	}
	if len(p) != len(base.Stops) {
		return base, fmt.Errorf("palette has %d colors, expected %d", len(p), len(base.Stops))
	}
	r := base
	for i, s := range p {
		clr, err := css.Parse(s)
		if err != nil {
			return base, fmt.Errorf("invalid palette color %d (%s): %w", i, heatfield.StopNames[i], err)
		}
		r.Stops[i] = colorful.Color{R: clr.R, G: clr.G, B: clr.B}
	}
	return r, r.Validate()
}

// Apply copies the configuration into surface options.
func (c *Config) Apply(opts *surface.Options) error {
	ramp, err := c.Ramp(opts.Ramp)
	if err != nil {
		return err
	}
	opts.Ramp = ramp
	opts.Animate = opts.Animate || c.Features.Animate
	if c.Rendering.Smoothing > 0 && c.Rendering.Smoothing <= 1 {
		opts.Smoothing = c.Rendering.Smoothing
	}
	if c.Rendering.MaxPixelRatio > 0 {
		opts.MaxPixelRatio = float32(c.Rendering.MaxPixelRatio)
	}
	return nil
}

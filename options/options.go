package options

import (
	"fmt"
	"strconv"
	"strings"
)

type SurfaceOptions struct {
	Help       *bool
	Mode       *string // interactive, record or snapshot
	Duration   *float64
	FPS        *int
	Width      *int
	Height     *int
	OutputFile *string
	Codec      *string
	FFMPEGPath *string
	Headless   *bool // record through EGL instead of a hidden GLFW window
	ConfigFile *string // optional JSON config, see Config
	Animate    *bool
	Variant    *string
	ImagePath  *string // panel image (GIF, PNG or JPEG)
	Contact    *string
	Pointer    *string // "x,y" in window units for record and snapshot modes
}

// ParsePoint parses "x,y". An empty string reports ok == false.
func ParsePoint(s string) (x, y float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return x, y, true, nil
}

package heatfield

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

const numStops = 8

// Ramp is the piecewise-linear heat palette. Values below Bounds[0] are the
// first stop; segment i (1..6) blends Stops[i-1] into Stops[i] over
// [Bounds[i-1], Bounds[i]); the last segment blends Stops[6] into Stops[7]
// over [Bounds[6], Saturation] and values at or above Saturation are Stops[7].
type Ramp struct {
	Stops      [numStops]colorful.Color
	Bounds     [numStops - 1]float64
	Saturation float64
}

// StopNames label the stops of the default palette, coldest first.
var StopNames = [numStops]string{"black", "darkBlue", "blue", "cyan", "green", "yellow", "orange", "red"}

func DefaultRamp() Ramp {
	return Ramp{
		Stops: [numStops]colorful.Color{
			{R: 0.0, G: 0.0, B: 0.0},
			{R: 0.0, G: 0.0, B: 0.3},
			{R: 0.0, G: 0.0, B: 0.8},
			{R: 0.0, G: 0.6, B: 0.8},
			{R: 0.0, G: 0.8, B: 0.3},
			{R: 1.0, G: 0.9, B: 0.0},
			{R: 1.0, G: 0.5, B: 0.0},
			{R: 1.0, G: 0.0, B: 0.0},
		},
		Bounds:     [numStops - 1]float64{0.20, 0.40, 0.58, 0.72, 0.86, 0.92, 0.96},
		Saturation: 0.996,
	}
}

// Validate reports whether the boundaries are strictly increasing.
func (r *Ramp) Validate() error {
	prev := r.Bounds[0]
	for i := 1; i < len(r.Bounds); i++ {
		if r.Bounds[i] <= prev {
			return fmt.Errorf("ramp bound %d (%v) is not above bound %d (%v)", i, r.Bounds[i], i-1, prev)
		}
		prev = r.Bounds[i]
	}
	if r.Saturation <= prev {
		return fmt.Errorf("ramp saturation %v is not above the last bound %v", r.Saturation, prev)
	}
	return nil
}

// At maps a heat value to a color.
func (r *Ramp) At(t float64) colorful.Color {
	if t < r.Bounds[0] {
		return r.Stops[0]
	}
	for i := 1; i < len(r.Bounds); i++ {
		if t < r.Bounds[i] {
			lo := r.Bounds[i-1]
			return r.Stops[i-1].BlendRgb(r.Stops[i], (t-lo)/(r.Bounds[i]-lo))
		}
	}
	if t >= r.Saturation {
		return r.Stops[numStops-1]
	}
	lo := r.Bounds[len(r.Bounds)-1]
	return r.Stops[numStops-2].BlendRgb(r.Stops[numStops-1], (t-lo)/(r.Saturation-lo))
}

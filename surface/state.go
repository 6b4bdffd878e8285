package surface

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the container size in window coordinates.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Aspect is width/height, or 1 for a collapsed viewport.
func (v Viewport) Aspect() float32 {
	if !v.Valid() {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// ToNDC maps a window position to normalized device coordinates, y up.
func (v Viewport) ToNDC(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{
		(x/float64(v.Width))*2 - 1,
		-((y/float64(v.Height))*2 - 1),
	}
}

// Pointer holds the raw pointer target and its smoothed follower, both in
// NDC. The follower starts at the origin.
type Pointer struct {
	target   mgl64.Vec2
	smoothed mgl64.Vec2
}

func (p *Pointer) SetTarget(v mgl64.Vec2) {
	p.target = v
}

func (p Pointer) Target() mgl64.Vec2 {
	return p.target
}

func (p Pointer) Smoothed() mgl64.Vec2 {
	return p.smoothed
}

// Advance moves the follower toward the target by factor of the remaining
// distance. For factor in (0,1] it never overshoots.
func (p *Pointer) Advance(factor float64) {
	p.smoothed = p.smoothed.Add(p.target.Sub(p.smoothed).Mul(factor))
}

func (p *Pointer) uniform() mgl32.Vec2 {
	return mgl32.Vec2{float32(p.smoothed.X()), float32(p.smoothed.Y())}
}

// Clock converts scheduler timestamps into seconds since the first sample.
type Clock struct {
	start   float64
	started bool
	last    float64
}

// Sample returns the elapsed time for timestamp ts. Time never runs
// backwards even if ts does.
func (c *Clock) Sample(ts float64) float64 {
	if !c.started {
		c.start = ts
		c.started = true
	}
	elapsed := ts - c.start
	if elapsed < c.last {
		elapsed = c.last
	}
	c.last = elapsed
	return elapsed
}

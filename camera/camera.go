package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV  = 75 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 1000
	DefaultZ    = 5
)

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	FOV    float32
	Near   float32
	Far    float32
	Aspect float32

	Position mgl32.Vec3

	projection mgl32.Mat4
	view       mgl32.Mat4
}

// NewCamera returns the landing surface camera for the given aspect ratio.
func NewCamera(aspect float32) *Camera {
	c := &Camera{
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: mgl32.Vec3{0, 0, DefaultZ},
	}
	c.view = mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
	c.SetAspect(aspect)
	return c
}

// SetAspect updates the aspect ratio and recomputes the projection. Non-positive
// or non-finite ratios are replaced with 1.
func (c *Camera) SetAspect(aspect float32) {
	if !(aspect > 0) || math.IsInf(float64(aspect), 0) {
		aspect = 1
	}
	c.Aspect = aspect
	c.UpdateProjection()
}

func (c *Camera) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// View is the model-view matrix of an untransformed object.
func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// VisibleHeight is the height of the view at the z = 0 plane.
func (c *Camera) VisibleHeight() float32 {
	half := float64(mgl32.DegToRad(c.FOV)) / 2
	return 2 * c.Position.Z() * float32(math.Tan(half))
}

// VisibleWidth is the width of the view at the z = 0 plane.
func (c *Camera) VisibleWidth() float32 {
	return c.VisibleHeight() * c.Aspect
}

package surface

import (
	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/mesh"
	"github.com/richinsley/heatsurface/shader"
)

// Container is the host element the surface renders into. Detached reports
// a container with no window behind it, including a nil pointer held in the
// interface.
type Container interface {
	graphics.Events
	GetWindowSize() (int, int)
	GetFramebufferSize() (int, int)
	ContentScale() float32
	Detached() bool
}

// Target is an offscreen color buffer sized in device pixels.
type Target interface {
	Resize(width, height int) error
	Release()
}

type Program interface {
	Release()
}

type Mesh interface {
	Release()
}

// Device is the GPU side of a surface. All calls happen on the render thread.
type Device interface {
	NewTarget(width, height int) (Target, error)
	NewProgram(vertex, fragment string) (Program, error)
	NewMesh(p *mesh.Plane) (Mesh, error)
	Draw(t Target, p Program, m Mesh, xf shader.Transform, u *shader.Uniforms)
	// Present copies t to the container's framebuffer.
	Present(t Target, fbWidth, fbHeight int)
	// ReadPixels returns t as RGBA rows, top row first.
	ReadPixels(t Target) (pix []byte, width, height int)
	Release()
}

// Package surface mounts the interactive heat-field shader into a container.
// A surface owns its GPU resources from Create until Destroy, follows the
// container's size and pointer, and redraws once per display tick.
package surface

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/heatsurface/camera"
	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/heatfield"
	"github.com/richinsley/heatsurface/mesh"
	"github.com/richinsley/heatsurface/shader"
)

// ErrContextUnavailable is returned by Create when the container cannot
// provide a GPU device.
var ErrContextUnavailable = errors.New("graphics context unavailable")

type Options struct {
	Params  heatfield.Params
	Ramp    heatfield.Ramp
	Animate bool
	// Smoothing is the fraction of the remaining pointer distance covered
	// per frame.
	Smoothing float64
	// MaxPixelRatio caps the render density in pixels per window unit.
	MaxPixelRatio float32
	Scheduler     FrameScheduler
	// NewDevice defaults to NewGLDevice.
	NewDevice func(Container) (Device, error)
}

func DefaultOptions() Options {
	return Options{
		Params:        heatfield.DefaultParams(),
		Ramp:          heatfield.DefaultRamp(),
		Smoothing:     0.15,
		MaxPixelRatio: 2,
	}
}

type Surface struct {
	container Container
	scheduler FrameScheduler
	device    Device
	camera    *camera.Camera

	program Program
	mesh    Mesh
	target  Target

	viewport      Viewport
	pixelRatio    float32
	maxPixelRatio float32
	pointer       Pointer
	clock         Clock
	uniforms      shader.Uniforms
	smoothing     float64

	pointerListener graphics.Listener
	resizeListener  graphics.Listener

	alive     bool
	destroyed bool
}

// Create mounts a surface in c. A nil or detached container is a no-op and
// returns a nil surface without error. On failure everything built so far is released.
func Create(c Container, opts Options) (*Surface, error) {
	if c == nil || c.Detached() {
		return nil, nil
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("surface needs a frame scheduler")
	}
	if err := opts.Ramp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid color ramp: %w", err)
	}
	if opts.Smoothing <= 0 || opts.Smoothing > 1 {
		opts.Smoothing = 0.15
	}
	if opts.MaxPixelRatio <= 0 {
		opts.MaxPixelRatio = 2
	}
	newDevice := opts.NewDevice
	if newDevice == nil {
		newDevice = NewGLDevice
	}

	device, err := newDevice(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}

	w, h := c.GetWindowSize()
	s := &Surface{
		container:     c,
		scheduler:     opts.Scheduler,
		device:        device,
		viewport:      Viewport{Width: w, Height: h},
		pixelRatio:    pixelRatio(c.ContentScale(), opts.MaxPixelRatio),
		maxPixelRatio: opts.MaxPixelRatio,
		smoothing:     opts.Smoothing,
	}
	s.camera = camera.NewCamera(s.viewport.Aspect())

	s.program, err = device.NewProgram(shader.MeshVertexShader(), shader.HeatFieldFragment(opts.Params, opts.Ramp, opts.Animate))
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to build heat-field program: %w", err)
	}
	s.mesh, err = device.NewMesh(mesh.ForAspect(s.viewport.Aspect()))
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to build mesh: %w", err)
	}
	if s.viewport.Valid() {
		tw, th := s.targetSize()
		s.target, err = device.NewTarget(tw, th)
		if err != nil {
			s.release()
			return nil, fmt.Errorf("failed to create render target: %w", err)
		}
	}
	s.setResolution()

	s.pointerListener = c.AddPointerListener(s.OnPointerMove)
	s.resizeListener = c.AddResizeListener(func(width, height int) {
		s.OnResize(Viewport{Width: width, Height: height})
	})

	s.alive = true
	s.scheduler.RequestFrame(s.Frame)
	log.Printf("Surface created at %dx%d (pixel ratio %.2f)", w, h, s.pixelRatio)
	return s, nil
}

func pixelRatio(scale, limit float32) float32 {
	if scale <= 0 || math.IsNaN(float64(scale)) {
		scale = 1
	}
	if scale > limit {
		return limit
	}
	return scale
}

func (s *Surface) targetSize() (int, int) {
	w := int(math.Round(float64(float32(s.viewport.Width) * s.pixelRatio)))
	h := int(math.Round(float64(float32(s.viewport.Height) * s.pixelRatio)))
	return max(w, 1), max(h, 1)
}

func (s *Surface) setResolution() {
	s.uniforms.Resolution = mgl32.Vec2{float32(s.viewport.Width), float32(s.viewport.Height)}
}

// Destroy unmounts the surface. Calling it again does nothing.
func (s *Surface) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	s.destroyed = true
	s.alive = false
	s.container.RemoveListener(s.pointerListener)
	s.container.RemoveListener(s.resizeListener)
	s.release()
	log.Println("Surface destroyed")
}

func (s *Surface) release() {
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
	if s.mesh != nil {
		s.mesh.Release()
		s.mesh = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
}

// Alive reports whether the surface is mounted.
func (s *Surface) Alive() bool {
	return s != nil && s.alive
}

// OnResize follows a new container size. A collapsed viewport is recorded
// and drawing pauses until a valid size arrives.
func (s *Surface) OnResize(v Viewport) {
	if !s.alive {
		return
	}
	s.viewport = v
	s.setResolution()
	if !v.Valid() {
		return
	}

	s.pixelRatio = pixelRatio(s.container.ContentScale(), s.maxPixelRatio)
	s.camera.SetAspect(v.Aspect())

	tw, th := s.targetSize()
	if s.target == nil {
		t, err := s.device.NewTarget(tw, th)
		if err != nil {
			log.Printf("Failed to create render target: %v", err)
		} else {
			s.target = t
		}
	} else if err := s.target.Resize(tw, th); err != nil {
		log.Printf("Failed to resize render target: %v", err)
	}

	m, err := s.device.NewMesh(mesh.ForAspect(v.Aspect()))
	if err != nil {
		log.Printf("Failed to rebuild mesh: %v", err)
		return
	}
	s.mesh.Release()
	s.mesh = m
}

// OnPointerMove sets the pointer target from a window position. The drawn
// pointer catches up over the following frames.
func (s *Surface) OnPointerMove(x, y float64) {
	if !s.alive || !s.viewport.Valid() {
		return
	}
	s.pointer.SetTarget(s.viewport.ToNDC(x, y))
}

// Frame draws one tick and asks for the next. A frame that runs after
// Destroy returns without touching anything.
func (s *Surface) Frame(ts float64) {
	if !s.alive {
		return
	}

	s.pointer.Advance(s.smoothing)
	s.uniforms.Time = float32(s.clock.Sample(ts))
	s.uniforms.Mouse = s.pointer.uniform()

	if s.viewport.Valid() && s.target != nil {
		xf := shader.Transform{Projection: s.camera.Projection(), ModelView: s.camera.View()}
		s.device.Draw(s.target, s.program, s.mesh, xf, &s.uniforms)
		fbw, fbh := s.container.GetFramebufferSize()
		s.device.Present(s.target, fbw, fbh)
	}

	s.scheduler.RequestFrame(s.Frame)
}

// ReadPixels returns the last drawn frame as RGBA rows, top row first.
func (s *Surface) ReadPixels() ([]byte, int, int, error) {
	if !s.alive || s.target == nil {
		return nil, 0, 0, fmt.Errorf("surface has no frame to read")
	}
	pix, w, h := s.device.ReadPixels(s.target)
	return pix, w, h, nil
}

func (s *Surface) Viewport() Viewport {
	return s.viewport
}

func (s *Surface) Pointer() Pointer {
	return s.pointer
}

func (s *Surface) Uniforms() shader.Uniforms {
	return s.uniforms
}

func (s *Surface) Camera() *camera.Camera {
	return s.camera
}

func (s *Surface) PixelRatio() float32 {
	return s.pixelRatio
}

package surface

import (
	"fmt"

	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/mesh"
	"github.com/richinsley/heatsurface/renderer"
	"github.com/richinsley/heatsurface/shader"
)

type glDevice struct {
	isGLES  bool
	blitter *renderer.Blitter
}

// NewGLDevice acquires an OpenGL device from a container backed by a
// graphics.Context.
func NewGLDevice(c Container) (Device, error) {
	ctx, ok := c.(graphics.Context)
	if !ok {
		return nil, fmt.Errorf("container %T has no OpenGL context", c)
	}
	if err := renderer.Init(ctx); err != nil {
		return nil, err
	}
	blitter, err := renderer.NewBlitter(ctx.IsGLES())
	if err != nil {
		return nil, err
	}
	return &glDevice{isGLES: ctx.IsGLES(), blitter: blitter}, nil
}

func (d *glDevice) NewTarget(width, height int) (Target, error) {
	r, err := renderer.NewTarget(width, height)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *glDevice) NewProgram(vertex, fragment string) (Program, error) {
	r, err := renderer.NewProgram(vertex, fragment, d.isGLES)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *glDevice) NewMesh(p *mesh.Plane) (Mesh, error) {
	r, err := renderer.NewMesh(p)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *glDevice) Draw(t Target, p Program, m Mesh, xf shader.Transform, u *shader.Uniforms) {
	p.(*renderer.Program).Draw(t.(*renderer.Target), m.(*renderer.Mesh), xf, u)
}

func (d *glDevice) Present(t Target, fbWidth, fbHeight int) {
	d.blitter.Present(t.(*renderer.Target), fbWidth, fbHeight)
}

func (d *glDevice) ReadPixels(t Target) ([]byte, int, int) {
	rt := t.(*renderer.Target)
	w, h := rt.Size()
	return rt.ReadPixels(), w, h
}

func (d *glDevice) Release() {
	if d.blitter != nil {
		d.blitter.Release()
		d.blitter = nil
	}
}

package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/heatsurface/shader"
	"github.com/richinsley/heatsurface/translator"
)

const (
	positionLocation = 0
	uvLocation       = 1
)

// Program is the heat-field shader program with its uniform locations.
// Locations are -1 when the translator dropped an unused uniform.
type Program struct {
	id            uint32
	timeLoc       int32
	mouseLoc      int32
	resolutionLoc int32
	projectionLoc int32
	modelViewLoc  int32
}

// NewProgram translates WebGL2 vertex and fragment sources to the context's
// dialect, then compiles and links them.
func NewProgram(vertexSource, fragmentSource string, isGLES bool) (*Program, error) {
	vs, err := translator.Translate(vertexSource, "vertex", isGLES)
	if err != nil {
		return nil, err
	}
	fs, err := translator.Translate(fragmentSource, "fragment", isGLES)
	if err != nil {
		return nil, err
	}

	id, err := newProgram(vs.Code, fs.Code, map[uint32]string{
		positionLocation: vs.MappedName(shader.AttribPosition),
		uvLocation:       vs.MappedName(shader.AttribUV),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	return &Program{
		id:            id,
		timeLoc:       uniformLocation(id, fs, shader.UniformTime),
		mouseLoc:      uniformLocation(id, fs, shader.UniformMouse),
		resolutionLoc: uniformLocation(id, fs, shader.UniformResolution),
		projectionLoc: uniformLocation(id, vs, shader.UniformProjection),
		modelViewLoc:  uniformLocation(id, vs, shader.UniformModelView),
	}, nil
}

func uniformLocation(program uint32, s *translator.Shader, name string) int32 {
	if !s.Has(name) {
		return -1
	}
	return gl.GetUniformLocation(program, gl.Str(s.MappedName(name)+"\x00"))
}

// Draw renders m into t with the given camera and uniform values.
func (p *Program) Draw(t *Target, m *Mesh, xf shader.Transform, u *shader.Uniforms) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(p.id)
	if p.timeLoc != -1 {
		gl.Uniform1f(p.timeLoc, u.Time)
	}
	if p.mouseLoc != -1 {
		gl.Uniform2f(p.mouseLoc, u.Mouse.X(), u.Mouse.Y())
	}
	if p.resolutionLoc != -1 {
		gl.Uniform2f(p.resolutionLoc, u.Resolution.X(), u.Resolution.Y())
	}
	if p.projectionLoc != -1 {
		gl.UniformMatrix4fv(p.projectionLoc, 1, false, &xf.Projection[0])
	}
	if p.modelViewLoc != -1 {
		gl.UniformMatrix4fv(p.modelViewLoc, 1, false, &xf.ModelView[0])
	}

	m.draw()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (p *Program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

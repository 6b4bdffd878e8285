package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/heatsurface/shader"
)

// Sprite places a texture in window coordinates (pixels, y down).
type Sprite struct {
	Center   mgl32.Vec2
	Size     mgl32.Vec2
	Rotation float32 // radians, positive is clockwise on screen
	Alpha    float32
}

// SpriteRenderer draws textured quads over the presented frame.
type SpriteRenderer struct {
	quad          *quad
	program       uint32
	projectionLoc int32
	modelLoc      int32
	textureLoc    int32
	alphaLoc      int32
}

func NewSpriteRenderer(isGLES bool) (*SpriteRenderer, error) {
	vs, fs := shader.SpriteShaders(isGLES)
	program, err := newProgram(vs, fs, map[uint32]string{0: "in_vert"})
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite program: %w", err)
	}
	return &SpriteRenderer{
		quad:          newQuad(),
		program:       program,
		projectionLoc: gl.GetUniformLocation(program, gl.Str("u_projection\x00")),
		modelLoc:      gl.GetUniformLocation(program, gl.Str("u_model\x00")),
		textureLoc:    gl.GetUniformLocation(program, gl.Str("u_texture\x00")),
		alphaLoc:      gl.GetUniformLocation(program, gl.Str("u_alpha\x00")),
	}, nil
}

// Begin sets up blending and a window-space projection. The window size is in
// screen coordinates, the framebuffer size in pixels.
func (s *SpriteRenderer) Begin(winWidth, winHeight, fbWidth, fbHeight int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(s.program)
	projection := mgl32.Ortho(0, float32(winWidth), float32(winHeight), 0, -1, 1)
	gl.UniformMatrix4fv(s.projectionLoc, 1, false, &projection[0])
	gl.Uniform1i(s.textureLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (s *SpriteRenderer) Draw(t *Texture, sp Sprite) {
	if sp.Alpha <= 0 {
		return
	}
	model := mgl32.Translate3D(sp.Center.X(), sp.Center.Y(), 0).
		Mul4(mgl32.HomogRotate3DZ(sp.Rotation)).
		Mul4(mgl32.Scale3D(sp.Size.X(), sp.Size.Y(), 1))
	gl.UniformMatrix4fv(s.modelLoc, 1, false, &model[0])
	gl.Uniform1f(s.alphaLoc, sp.Alpha)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	s.quad.draw()
}

func (s *SpriteRenderer) End() {
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
}

func (s *SpriteRenderer) Release() {
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
	s.quad.release()
}

package renderer

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/shader"
)

// Add a package-level variable to ensure gl.Init() is called only once.
var glInitOnce sync.Once

// Init makes ctx current on the calling thread and loads the OpenGL entry
// points on first use.
func Init(ctx graphics.Context) error {
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
		if initErr == nil {
			log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))
		}
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return nil
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// quad is a two-triangle [-1,1]² quad at attribute location 0.
type quad struct {
	vao uint32
	vbo uint32
}

func newQuad() *quad {
	q := &quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return q
}

func (q *quad) draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (q *quad) release() {
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
		q.vao = 0
	}
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
		q.vbo = 0
	}
}

// Blitter copies an offscreen target to the default framebuffer.
type Blitter struct {
	quad       *quad
	program    uint32
	textureLoc int32
}

func NewBlitter(isGLES bool) (*Blitter, error) {
	program, err := newProgram(shader.GenerateVertexShader(isGLES), shader.GetBlitFragmentShader(false, isGLES), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	return &Blitter{
		quad:       newQuad(),
		program:    program,
		textureLoc: gl.GetUniformLocation(program, gl.Str("u_texture\x00")),
	}, nil
}

// Present stretches t over the whole framebuffer.
func (b *Blitter) Present(t *Target, fbWidth, fbHeight int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(b.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	if b.textureLoc != -1 {
		gl.Uniform1i(b.textureLoc, 0)
	}
	b.quad.draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (b *Blitter) Release() {
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
	b.quad.release()
}

// newProgram compiles and links a program. attribs binds attribute names to
// locations before linking.
func newProgram(vertexShaderSource, fragmentShaderSource string, attribs map[uint32]string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	for loc, name := range attribs {
		gl.BindAttribLocation(program, loc, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}

package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/heatsurface/heatfield"
)

// Uniforms holds the per-frame values of the heat-field program.
type Uniforms struct {
	Time       float32
	Mouse      mgl32.Vec2
	Resolution mgl32.Vec2
}

// Transform is the camera state the mesh vertex shader needs.
type Transform struct {
	Projection mgl32.Mat4
	ModelView  mgl32.Mat4
}

// Uniform and attribute names shared by the sources and the renderer.
const (
	UniformTime       = "uTime"
	UniformMouse      = "uMouse"
	UniformResolution = "uResolution"
	UniformProjection = "projectionMatrix"
	UniformModelView  = "modelViewMatrix"

	AttribPosition = "position"
	AttribUV       = "uv"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlipGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// sprites are unit quads placed by u_model in window pixels, y down
const spriteVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
uniform mat4 u_projection;
uniform mat4 u_model;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = u_projection * u_model * vec4(in_vert * 0.5, 0.0, 1.0);
}
`

const spriteFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform float u_alpha;
void main() {
    vec4 c = texture(u_texture, frag_uv);
    fragColor = c * u_alpha;
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlipGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

const spriteVertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
uniform mat4 u_projection;
uniform mat4 u_model;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = u_projection * u_model * vec4(in_vert * 0.5, 0.0, 1.0);
}
`

const spriteFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform float u_alpha;
void main() {
    vec4 c = texture(u_texture, frag_uv);
    fragColor = c * u_alpha;
}
`

// ──────────────────────────── Heat field (WebGL2) ────────────────────────────
//
// The mesh program is written once in the WebGL2 dialect and translated to
// the context's dialect before compilation.

const meshVertexShaderSource = `#version 300 es
precision highp float;

uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;

in vec3 position;
in vec2 uv;
out vec2 vUv;

void main() {
    vUv = uv;
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
`

const heatFieldNoise = `
float noise(vec2 p) {
    return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}

float smoothNoise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    f = f * f * (3.0 - 2.0 * f);

    float a = noise(i);
    float b = noise(i + vec2(1.0, 0.0));
    float c = noise(i + vec2(0.0, 1.0));
    float d = noise(i + vec2(1.0, 1.0));

    return mix(mix(a, b, f.x), mix(c, d, f.x), f.y);
}

float fbm(vec2 p) {
    float value = 0.0;
    float amplitude = 0.5;
    for (int i = 0; i < %d; i++) {
        value += amplitude * smoothNoise(p);
        p *= %s;
        amplitude *= %s;
    }
    return value;
}
`

const heatFieldMain = `
void main() {
    vec2 uv = vUv;
    vec2 p = uv * 2.0 - 1.0;
    p.x *= uResolution.x / max(uResolution.y, 1.0);

    p *= %[1]s;
    vec2 mousePos = uMouse * %[1]s;

    float distToMouse = length(p - mousePos);
    float mouseInfluence = smoothstep(%[2]s, 0.0, distToMouse) * %[3]s;
    float pressStrength = smoothstep(%[4]s, 0.0, distToMouse);
    p += (mousePos - p) * pressStrength * %[5]s;

    float time = %[6]s;

    vec2 q = vec2(
        fbm(p * 2.0 + time * 0.3),
        fbm(p * 2.0 + time * 0.25)
    );
    vec2 r = vec2(
        fbm(p * 1.5 + q * 1.5 + time * 0.2),
        fbm(p * 1.5 + q * 1.3 - time * 0.18)
    );
    float heat = fbm(p * 1.2 + r * 2.0);

    float wave1 = sin(p.y * 3.0 + time + heat * 2.0) * 0.5 + 0.5;
    float wave2 = sin(p.x * 2.0 - time * 0.7 + heat * 1.5) * 0.5 + 0.5;

    float finalHeat = heat * %[7]s + wave1 * %[8]s + wave2 * %[9]s;
    finalHeat += mouseInfluence;
    finalHeat = finalHeat * %[10]s + %[11]s;

    vec3 color = heatMap(finalHeat);

    float consistentGrain = smoothNoise(uv * %[12]s) * %[15]s;
    float fineGrain = noise(uv * %[13]s) * %[16]s;
    float weavePattern = (smoothNoise(uv * %[14]s) * 0.5 + 0.5) * %[17]s;
    color += consistentGrain + fineGrain + weavePattern;

    fragColor = vec4(color, 1.0);
}
`

// glf formats a constant as a GLSL float literal.
func glf(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func vec3(r, g, b float64) string {
	return fmt.Sprintf("vec3(%s, %s, %s)", glf(r), glf(g), glf(b))
}

// HeatMapFunction emits the GLSL ramp for r.
func HeatMapFunction(r heatfield.Ramp) string {
	var b strings.Builder
	b.WriteString("\nvec3 heatMap(float t) {\n")
	for i, c := range r.Stops {
		fmt.Fprintf(&b, "    vec3 s%d = %s; // %s\n", i, vec3(c.R, c.G, c.B), heatfield.StopNames[i])
	}
	fmt.Fprintf(&b, "    if (t < %s) {\n        return s0;\n", glf(r.Bounds[0]))
	for i := 1; i < len(r.Bounds); i++ {
		lo, hi := r.Bounds[i-1], r.Bounds[i]
		fmt.Fprintf(&b, "    } else if (t < %s) {\n        return mix(s%d, s%d, (t - %s) / %s);\n",
			glf(hi), i-1, i, glf(lo), glf(hi-lo))
	}
	last := len(r.Stops) - 1
	lo := r.Bounds[len(r.Bounds)-1]
	fmt.Fprintf(&b, "    } else if (t < %s) {\n        return mix(s%d, s%d, (t - %s) / %s);\n",
		glf(r.Saturation), last-1, last, glf(lo), glf(r.Saturation-lo))
	fmt.Fprintf(&b, "    }\n    return s%d;\n}\n", last)
	return b.String()
}

// HeatFieldFragment returns the WebGL2 fragment source for p and r. When
// animate is false the time term is the constant 0.0; uTime is declared
// either way.
func HeatFieldFragment(p heatfield.Params, r heatfield.Ramp, animate bool) string {
	timeExpr := "0.0"
	if animate {
		timeExpr = UniformTime
	}

	var b strings.Builder
	b.WriteString(`#version 300 es
precision highp float;
precision highp int;

uniform float uTime;
uniform vec2 uMouse;
uniform vec2 uResolution;

in vec2 vUv;
out vec4 fragColor;
`)
	fmt.Fprintf(&b, heatFieldNoise, p.Octaves, glf(p.Lacunarity), glf(p.Gain))
	b.WriteString(HeatMapFunction(r))
	fmt.Fprintf(&b, heatFieldMain,
		glf(p.Zoom),
		glf(p.GlowRadius), glf(p.GlowStrength),
		glf(p.PressRadius), glf(p.PressStrength),
		timeExpr,
		glf(p.HeatWeight), glf(p.WaveWeights[0]), glf(p.WaveWeights[1]),
		glf(p.Scale), glf(p.Bias),
		glf(p.GrainFrequencies[0]), glf(p.GrainFrequencies[1]), glf(p.GrainFrequencies[2]),
		glf(p.GrainWeights[0]), glf(p.GrainWeights[1]), glf(p.GrainWeights[2]),
	)
	return b.String()
}

// ────────────────────────────────── Public API ─────────────────────────────────

// MeshVertexShader returns the WebGL2 vertex source of the heat-field mesh.
func MeshVertexShader() string {
	return meshVertexShaderSource
}

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

func GetBlitFragmentShader(flip, isGLES bool) string {
	if isGLES {
		if flip {
			return blitFragmentShaderSourceFlipGLES
		}
		return blitFragmentShaderSourceGLES
	}
	if flip {
		return blitFragmentShaderSourceFlipGL
	}
	return blitFragmentShaderSourceGL
}

func SpriteShaders(isGLES bool) (vertex, fragment string) {
	if isGLES {
		return spriteVertexShaderSourceGLES, spriteFragmentShaderSourceGLES
	}
	return spriteVertexShaderSourceGL, spriteFragmentShaderSourceGL
}

package heatfield

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var hashKey = mgl64.Vec2{12.9898, 78.233}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep matches GLSL, including reversed edges (e0 > e1).
func smoothstep(e0, e1, x float64) float64 {
	t := (x - e0) / (e1 - e0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

// Hash is the sine hash used by every noise term.
func Hash(p mgl64.Vec2) float64 {
	return fract(math.Sin(p.Dot(hashKey)) * 43758.5453)
}

// SmoothNoise is bilinear value noise over the integer lattice with a
// Hermite fade.
func SmoothNoise(p mgl64.Vec2) float64 {
	i := mgl64.Vec2{math.Floor(p[0]), math.Floor(p[1])}
	f := p.Sub(i)
	f = mgl64.Vec2{f[0] * f[0] * (3 - 2*f[0]), f[1] * f[1] * (3 - 2*f[1])}

	a := Hash(i)
	b := Hash(i.Add(mgl64.Vec2{1, 0}))
	c := Hash(i.Add(mgl64.Vec2{0, 1}))
	d := Hash(i.Add(mgl64.Vec2{1, 1}))

	return mix(mix(a, b, f[0]), mix(c, d, f[0]), f[1])
}

// FBM sums octaves of SmoothNoise starting at amplitude 0.5.
func (pr *Params) FBM(p mgl64.Vec2) float64 {
	value := 0.0
	amplitude := 0.5
	for i := 0; i < pr.Octaves; i++ {
		value += amplitude * SmoothNoise(p)
		p = p.Mul(pr.Lacunarity)
		amplitude *= pr.Gain
	}
	return value
}

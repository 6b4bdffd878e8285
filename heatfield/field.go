package heatfield

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Field evaluates the heat field for one set of uniforms. Mouse is in
// normalized device coordinates, Resolution in pixels, Time in seconds.
type Field struct {
	Params     Params
	Ramp       Ramp
	Mouse      mgl64.Vec2
	Resolution mgl64.Vec2
	Time       float64
	// Animate feeds Time into the warp; otherwise the pattern is frozen.
	Animate bool
}

func New(params Params, ramp Ramp) *Field {
	return &Field{Params: params, Ramp: ramp, Resolution: mgl64.Vec2{1, 1}}
}

func (f *Field) aspect() float64 {
	if f.Resolution[1] <= 0 {
		return 1
	}
	return f.Resolution[0] / f.Resolution[1]
}

// Influence returns the glow and press terms for a zoomed position.
func (f *Field) Influence(p mgl64.Vec2) (glow, press float64) {
	pr := &f.Params
	dist := p.Sub(f.Mouse.Mul(pr.Zoom)).Len()
	glow = smoothstep(pr.GlowRadius, 0, dist) * pr.GlowStrength
	press = smoothstep(pr.PressRadius, 0, dist)
	return glow, press
}

// FinalHeat is the ramp input at surface coordinate uv in [0,1]².
func (f *Field) FinalHeat(uv mgl64.Vec2) float64 {
	pr := &f.Params

	p := uv.Mul(2).Sub(mgl64.Vec2{1, 1})
	p[0] *= f.aspect()
	p = p.Mul(pr.Zoom)
	mouse := f.Mouse.Mul(pr.Zoom)

	glow, press := f.Influence(p)
	p = p.Add(mouse.Sub(p).Mul(press * pr.PressStrength))

	t := 0.0
	if f.Animate {
		t = f.Time
	}

	q := mgl64.Vec2{
		pr.FBM(p.Mul(2).Add(mgl64.Vec2{t * 0.3, t * 0.3})),
		pr.FBM(p.Mul(2).Add(mgl64.Vec2{t * 0.25, t * 0.25})),
	}
	r := mgl64.Vec2{
		pr.FBM(p.Mul(1.5).Add(q.Mul(1.5)).Add(mgl64.Vec2{t * 0.2, t * 0.2})),
		pr.FBM(p.Mul(1.5).Add(q.Mul(1.3)).Sub(mgl64.Vec2{t * 0.18, t * 0.18})),
	}
	heat := pr.FBM(p.Mul(1.2).Add(r.Mul(2)))

	wave1 := math.Sin(p[1]*3+t+heat*2)*0.5 + 0.5
	wave2 := math.Sin(p[0]*2-t*0.7+heat*1.5)*0.5 + 0.5

	final := heat*pr.HeatWeight + wave1*pr.WaveWeights[0] + wave2*pr.WaveWeights[1]
	final += glow
	return final*pr.Scale + pr.Bias
}

// Grain is the additive paper texture at uv.
func (f *Field) Grain(uv mgl64.Vec2) float64 {
	pr := &f.Params
	consistent := SmoothNoise(uv.Mul(pr.GrainFrequencies[0])) * pr.GrainWeights[0]
	fine := Hash(uv.Mul(pr.GrainFrequencies[1])) * pr.GrainWeights[1]
	weave := (SmoothNoise(uv.Mul(pr.GrainFrequencies[2]))*0.5 + 0.5) * pr.GrainWeights[2]
	return consistent + fine + weave
}

// Shade is the unclamped output color at uv.
func (f *Field) Shade(uv mgl64.Vec2) colorful.Color {
	c := f.Ramp.At(f.FinalHeat(uv))
	g := f.Grain(uv)
	return colorful.Color{R: c.R + g, G: c.G + g, B: c.B + g}
}

// Render fills dst with the centered part of the surface a camera sees.
// visible is the fraction of the surface inside the frustum (1 renders the
// whole surface). Row 0 is the top of the image.
func (f *Field) Render(dst *image.RGBA, visible float64) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		v := 0.5 + (0.5-(float64(y-b.Min.Y)+0.5)/h)*visible
		for x := b.Min.X; x < b.Max.X; x++ {
			u := 0.5 + ((float64(x-b.Min.X)+0.5)/w-0.5)*visible
			r, g, bl := f.Shade(mgl64.Vec2{u, v}).Clamped().RGB255()
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 255})
		}
	}
}

package heatfield

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

const eps = 1e-6

func colorDistance(a, b colorful.Color) float64 {
	return math.Max(math.Abs(a.R-b.R), math.Max(math.Abs(a.G-b.G), math.Abs(a.B-b.B)))
}

func TestRampContinuousAtBounds(t *testing.T) {
	r := DefaultRamp()
	for _, bound := range r.Bounds {
		below := r.At(bound - 1e-9)
		above := r.At(bound)
		if d := colorDistance(below, above); d > 1e-6 {
			t.Errorf("ramp jumps by %v at %v: %v -> %v", d, bound, below, above)
		}
	}
}

func TestRampSaturates(t *testing.T) {
	r := DefaultRamp()
	black := colorful.Color{}
	red := colorful.Color{R: 1}

	for _, v := range []float64{-5, -0.12, 0, 0.1, 0.199999} {
		if got := r.At(v); got != black {
			t.Errorf("At(%v) = %v, expected pure black", v, got)
		}
	}
	for _, v := range []float64{0.996, 0.999, 1.0, 1.5, 10} {
		if got := r.At(v); got != red {
			t.Errorf("At(%v) = %v, expected pure red", v, got)
		}
	}
}

func TestRampHitsEveryStop(t *testing.T) {
	r := DefaultRamp()
	for i, bound := range r.Bounds {
		got := r.At(bound)
		if d := colorDistance(got, r.Stops[i]); d > eps {
			t.Errorf("At(%v) = %v, expected stop %s %v", bound, got, StopNames[i], r.Stops[i])
		}
	}
	mid := r.At(0.30)
	if d := colorDistance(mid, colorful.Color{B: 0.15}); d > eps {
		t.Errorf("At(0.30) = %v, expected half of dark blue", mid)
	}
}

func TestRampValidate(t *testing.T) {
	r := DefaultRamp()
	if err := r.Validate(); err != nil {
		t.Fatalf("default ramp invalid: %v", err)
	}
	r.Bounds[3] = r.Bounds[2]
	if err := r.Validate(); err == nil {
		t.Error("expected error for non-increasing bounds")
	}
	r = DefaultRamp()
	r.Saturation = 0.9
	if err := r.Validate(); err == nil {
		t.Error("expected error for saturation below last bound")
	}
}

func TestSmoothstepReversedEdges(t *testing.T) {
	if got := smoothstep(0.4, 0, 0); got != 1 {
		t.Errorf("smoothstep at the inner edge = %v, expected 1", got)
	}
	if got := smoothstep(0.4, 0, 0.4); got != 0 {
		t.Errorf("smoothstep at the outer edge = %v, expected 0", got)
	}
	if got := smoothstep(0.4, 0, 0.2); math.Abs(got-0.5) > eps {
		t.Errorf("smoothstep midway = %v, expected 0.5", got)
	}
}

func TestNoiseRange(t *testing.T) {
	p := DefaultParams()
	for i := 0; i < 500; i++ {
		v := mgl64.Vec2{float64(i) * 0.37, float64(i) * -1.13}
		if h := Hash(v); h < 0 || h >= 1 {
			t.Fatalf("Hash(%v) = %v out of [0,1)", v, h)
		}
		if n := SmoothNoise(v); n < 0 || n > 1 {
			t.Fatalf("SmoothNoise(%v) = %v out of [0,1]", v, n)
		}
		if f := p.FBM(v); f < 0 || f > 0.9375 {
			t.Fatalf("FBM(%v) = %v out of [0,0.9375]", v, f)
		}
	}
}

func TestInfluencePeaksAtPointer(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	f.Mouse = mgl64.Vec2{0.3, -0.2}
	at := f.Mouse.Mul(f.Params.Zoom)

	glow, press := f.Influence(at)
	if math.Abs(glow-0.95) > eps || math.Abs(press-1) > eps {
		t.Fatalf("influence at pointer = (%v, %v), expected (0.95, 1)", glow, press)
	}

	prev := glow
	for d := 0.05; d <= 0.4; d += 0.05 {
		g, _ := f.Influence(at.Add(mgl64.Vec2{d, 0}))
		if g >= prev {
			t.Errorf("glow does not fall off at distance %v: %v >= %v", d, g, prev)
		}
		prev = g
	}
	if g, _ := f.Influence(at.Add(mgl64.Vec2{0.5, 0})); g != 0 {
		t.Errorf("glow beyond its radius = %v, expected 0", g)
	}
}

func TestCenteredPointer(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	f.Resolution = mgl64.Vec2{800, 600}

	// Every noise and wave term is exactly centered at the origin.
	got := f.FinalHeat(mgl64.Vec2{0.5, 0.5})
	want := (0.2+0.2)*0.5*0.65 + 0.95*0.65 - 0.12
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("FinalHeat at centered pointer = %v, expected %v", got, want)
	}
}

func TestPointerHeatsItsSurroundings(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	f.Resolution = mgl64.Vec2{800, 600}

	cases := []struct {
		pointer, away mgl64.Vec2
	}{
		{mgl64.Vec2{0, 0}, mgl64.Vec2{-1, -1}},
		{mgl64.Vec2{0.5, 0}, mgl64.Vec2{-1, -1}},
		{mgl64.Vec2{-0.5, 0.5}, mgl64.Vec2{1, -1}},
	}
	for _, c := range cases {
		uv := mgl64.Vec2{(c.pointer[0] + 1) / 2, (c.pointer[1] + 1) / 2}

		f.Mouse = c.pointer
		near := f.FinalHeat(uv)
		f.Mouse = c.away
		far := f.FinalHeat(uv)

		if near-far < 0.15 {
			t.Errorf("pointer at %v raises heat only %v -> %v", c.pointer, far, near)
		}
	}
}

func TestFrozenUnlessAnimated(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	f.Resolution = mgl64.Vec2{1280, 720}
	uv := mgl64.Vec2{0.3, 0.7}

	f.Time = 0
	base := f.FinalHeat(uv)
	f.Time = 12.5
	if got := f.FinalHeat(uv); got != base {
		t.Errorf("time changed a frozen field: %v -> %v", base, got)
	}

	f.Animate = true
	if got := f.FinalHeat(uv); got == base {
		t.Error("time had no effect on an animated field")
	}
}

func TestZeroResolutionDoesNotFault(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	f.Resolution = mgl64.Vec2{0, 0}
	v := f.FinalHeat(mgl64.Vec2{0.2, 0.9})
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Errorf("FinalHeat with zero resolution = %v", v)
	}
}

func TestGrainBounds(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	for i := 0; i < 200; i++ {
		uv := mgl64.Vec2{float64(i) / 200, 1 - float64(i)/300}
		g := f.Grain(uv)
		// the weave term never drops below half its weight
		if g < 0.0175-eps || g > 0.125+eps {
			t.Fatalf("Grain(%v) = %v out of range", uv, g)
		}
	}
}

func TestRenderIsOpaque(t *testing.T) {
	f := New(DefaultParams(), DefaultRamp())
	f.Resolution = mgl64.Vec2{32, 24}
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	f.Render(img, 0.96)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("pixel %d alpha = %d, expected 255", i/4, img.Pix[i])
		}
	}
}

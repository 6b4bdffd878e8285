package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/heatsurface/mesh"
)

func TestPlaneCoversView(t *testing.T) {
	for _, aspect := range []float32{0.5, 1, 4.0 / 3.0, 16.0 / 9.0, 2.4} {
		c := NewCamera(aspect)
		p := mesh.ForAspect(aspect)
		w, h := p.Extent()
		if w < c.VisibleWidth() || h < c.VisibleHeight() {
			t.Errorf("aspect %v: plane %vx%v smaller than view %vx%v", aspect, w, h, c.VisibleWidth(), c.VisibleHeight())
		}
	}
}

func TestPlaneCornersProjectOutsideClip(t *testing.T) {
	c := NewCamera(800.0 / 600.0)
	mvp := c.Projection().Mul4(c.View())
	p := mesh.ForAspect(c.Aspect)

	corner := mgl32.Vec4{p.Width / 2, p.Height / 2, 0, 1}
	clip := mvp.Mul4x1(corner)
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.X() < 1 || ndc.Y() < 1 {
		t.Errorf("top-right corner projects inside the viewport: %v", ndc)
	}
}

func TestSetAspectGuardsZero(t *testing.T) {
	c := NewCamera(0)
	if c.Aspect != 1 {
		t.Errorf("expected aspect 1 for zero input, got %v", c.Aspect)
	}
	c.SetAspect(float32(math.Inf(1)))
	if c.Aspect != 1 {
		t.Errorf("expected aspect 1 for infinite input, got %v", c.Aspect)
	}
	c.SetAspect(float32(math.NaN()))
	if c.Aspect != 1 {
		t.Errorf("expected aspect 1 for NaN input, got %v", c.Aspect)
	}
	c.SetAspect(2)
	if c.Aspect != 2 {
		t.Errorf("expected aspect 2, got %v", c.Aspect)
	}
}

func TestVisibleHeight(t *testing.T) {
	c := NewCamera(1)
	want := 2 * 5 * math.Tan(75*math.Pi/360)
	if got := float64(c.VisibleHeight()); math.Abs(got-want) > 1e-4 {
		t.Errorf("VisibleHeight = %v, expected %v", got, want)
	}
}

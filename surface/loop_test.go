package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeDriver struct {
	ticks    int
	maxTicks int
	ended    int
}

func (d *fakeDriver) ShouldClose() bool { return d.ticks >= d.maxTicks }

func (d *fakeDriver) EndFrame() {
	d.ended++
	d.ticks++
}

func (d *fakeDriver) Time() float64 { return float64(d.ticks) / 60 }

func TestLoopDefersRequestsToNextTick(t *testing.T) {
	l := NewLoop(&fakeDriver{})
	var runs []float64
	var tick func(ts float64)
	tick = func(ts float64) {
		runs = append(runs, ts)
		l.RequestFrame(tick)
	}
	l.RequestFrame(tick)

	if n := l.Step(1); n != 1 {
		t.Fatalf("expected one callback, ran %d", n)
	}
	if len(runs) != 1 || l.Pending() != 1 {
		t.Fatalf("request made during a tick ran in the same tick")
	}
	l.Step(2)
	if len(runs) != 2 || runs[1] != 2 {
		t.Errorf("unexpected runs %v", runs)
	}
}

func TestLoopRunsUntilClose(t *testing.T) {
	d := &fakeDriver{maxTicks: 5}
	l := NewLoop(d)
	frames := 0
	var tick func(ts float64)
	tick = func(ts float64) {
		frames++
		l.RequestFrame(tick)
	}
	l.RequestFrame(tick)
	l.Run()

	if frames != 5 || d.ended != 5 {
		t.Errorf("expected 5 frames and 5 EndFrame calls, got %d and %d", frames, d.ended)
	}
}

func TestViewportGuards(t *testing.T) {
	if (Viewport{0, 600}).Valid() {
		t.Error("zero width viewport reported valid")
	}
	if a := (Viewport{0, 0}).Aspect(); a != 1 {
		t.Errorf("expected aspect 1 for a collapsed viewport, got %v", a)
	}
	if a := (Viewport{800, 400}).Aspect(); a != 2 {
		t.Errorf("expected aspect 2, got %v", a)
	}
}

func TestPointerNeverOvershoots(t *testing.T) {
	var p Pointer
	p.SetTarget(mgl64.Vec2{-1, 1})
	for i := 0; i < 200; i++ {
		p.Advance(0.15)
		if s := p.Smoothed(); s.X() < -1 || s.Y() > 1 {
			t.Fatalf("step %d overshot: %v", i, s)
		}
	}
	if d := p.Target().Sub(p.Smoothed()).Len(); d > 1e-9 {
		t.Errorf("pointer did not converge, %v left", d)
	}
}

func TestClockIsMonotonic(t *testing.T) {
	var c Clock
	if c.Sample(100) != 0 {
		t.Error("first sample should be zero")
	}
	if got := c.Sample(101.5); got != 1.5 {
		t.Errorf("expected 1.5, got %v", got)
	}
	if got := c.Sample(101); got != 1.5 {
		t.Errorf("clock ran backwards to %v", got)
	}
}

func TestLoopRunsEveryRequestInOrder(t *testing.T) {
	l := NewLoop(&fakeDriver{})
	var order []string
	l.RequestFrame(func(float64) { order = append(order, "surface") })
	l.RequestFrame(func(float64) { order = append(order, "host") })
	l.RequestFrame(func(float64) { order = append(order, "surface") })

	if n := l.Step(0); n != 3 {
		t.Fatalf("expected three callbacks, ran %d", n)
	}
	if len(order) != 3 || order[0] != "surface" || order[1] != "host" || order[2] != "surface" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestSurfaceKeepsOnePendingFrame(t *testing.T) {
	s, _, loop := newTestSurface(t, newFakeContainer(800, 600))
	for i := 0; i < 5; i++ {
		loop.Step(float64(i))
		if loop.Pending() != 1 {
			t.Fatalf("tick %d: expected one pending frame, got %d", i, loop.Pending())
		}
	}
	s.Destroy()
	loop.Step(5)
	if loop.Pending() != 0 {
		t.Errorf("destroyed surface rescheduled itself")
	}
}

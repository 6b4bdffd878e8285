package surface

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/heatfield"
	"github.com/richinsley/heatsurface/mesh"
	"github.com/richinsley/heatsurface/shader"
)

type fakeContainer struct {
	width, height int
	scale         float32
	next          graphics.Listener
	pointer       map[graphics.Listener]func(x, y float64)
	resize        map[graphics.Listener]func(w, h int)
	removed       int
}

func newFakeContainer(w, h int) *fakeContainer {
	return &fakeContainer{
		width:   w,
		height:  h,
		scale:   1,
		pointer: map[graphics.Listener]func(x, y float64){},
		resize:  map[graphics.Listener]func(w, h int){},
	}
}

func (c *fakeContainer) AddPointerListener(f func(x, y float64)) graphics.Listener {
	c.next++
	c.pointer[c.next] = f
	return c.next
}

func (c *fakeContainer) AddResizeListener(f func(w, h int)) graphics.Listener {
	c.next++
	c.resize[c.next] = f
	return c.next
}

func (c *fakeContainer) AddClickListener(func(x, y float64)) graphics.Listener {
	c.next++
	return c.next
}

func (c *fakeContainer) RemoveListener(id graphics.Listener) {
	c.removed++
	delete(c.pointer, id)
	delete(c.resize, id)
}

func (c *fakeContainer) GetWindowSize() (int, int) { return c.width, c.height }

func (c *fakeContainer) GetFramebufferSize() (int, int) {
	return int(float32(c.width) * c.scale), int(float32(c.height) * c.scale)
}

func (c *fakeContainer) ContentScale() float32 { return c.scale }

func (c *fakeContainer) Detached() bool { return c == nil }

func (c *fakeContainer) move(x, y float64) {
	for _, f := range c.pointer {
		f(x, y)
	}
}

func (c *fakeContainer) setSize(w, h int) {
	c.width, c.height = w, h
	for _, f := range c.resize {
		f(w, h)
	}
}

type fakeResource struct {
	released int
	width    int
	height   int
	plane    *mesh.Plane
}

func (r *fakeResource) Release() { r.released++ }

func (r *fakeResource) Resize(w, h int) error {
	r.width, r.height = w, h
	return nil
}

type fakeDevice struct {
	programErr error
	targets    []*fakeResource
	meshes     []*fakeResource
	programs   []*fakeResource
	draws      int
	presents   int
	released   int
	lastDraw   shader.Uniforms
}

func (d *fakeDevice) NewTarget(w, h int) (Target, error) {
	r := &fakeResource{width: w, height: h}
	d.targets = append(d.targets, r)
	return r, nil
}

func (d *fakeDevice) NewProgram(vertex, fragment string) (Program, error) {
	if d.programErr != nil {
		return nil, d.programErr
	}
	r := &fakeResource{}
	d.programs = append(d.programs, r)
	return r, nil
}

func (d *fakeDevice) NewMesh(p *mesh.Plane) (Mesh, error) {
	r := &fakeResource{plane: p}
	d.meshes = append(d.meshes, r)
	return r, nil
}

func (d *fakeDevice) Draw(t Target, p Program, m Mesh, xf shader.Transform, u *shader.Uniforms) {
	d.draws++
	d.lastDraw = *u
}

func (d *fakeDevice) Present(t Target, fbWidth, fbHeight int) { d.presents++ }

func (d *fakeDevice) ReadPixels(t Target) ([]byte, int, int) {
	r := t.(*fakeResource)
	return make([]byte, r.width*r.height*4), r.width, r.height
}

func (d *fakeDevice) Release() { d.released++ }

// calls counts every resource operation the device has seen.
func (d *fakeDevice) calls() int {
	n := d.draws + d.presents + d.released + len(d.targets) + len(d.meshes) + len(d.programs)
	for _, rs := range [][]*fakeResource{d.targets, d.meshes, d.programs} {
		for _, r := range rs {
			n += r.released
		}
	}
	return n
}

func newTestSurface(t *testing.T, c *fakeContainer) (*Surface, *fakeDevice, *Loop) {
	t.Helper()
	dev := &fakeDevice{}
	loop := &Loop{}
	opts := DefaultOptions()
	opts.Scheduler = loop
	opts.NewDevice = func(Container) (Device, error) { return dev, nil }
	s, err := Create(c, opts)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return s, dev, loop
}

func TestCreateWithoutContainer(t *testing.T) {
	opts := DefaultOptions()
	opts.Scheduler = &Loop{}
	s, err := Create(nil, opts)
	if s != nil || err != nil {
		t.Fatalf("expected nil surface and nil error, got %v, %v", s, err)
	}
	s.Destroy()
}

func TestCreateWithNilWindow(t *testing.T) {
	var c *fakeContainer
	created := false
	opts := DefaultOptions()
	opts.Scheduler = &Loop{}
	opts.NewDevice = func(Container) (Device, error) {
		created = true
		return &fakeDevice{}, nil
	}
	s, err := Create(c, opts)
	if s != nil || err != nil {
		t.Fatalf("expected nil surface and nil error, got %v, %v", s, err)
	}
	if created {
		t.Error("device acquired for a nil window")
	}
}

func TestCreateDeviceFailure(t *testing.T) {
	c := newFakeContainer(800, 600)
	loop := &Loop{}
	opts := DefaultOptions()
	opts.Scheduler = loop
	opts.NewDevice = func(Container) (Device, error) { return nil, errors.New("no webgl") }

	_, err := Create(c, opts)
	if !errors.Is(err, ErrContextUnavailable) {
		t.Fatalf("expected ErrContextUnavailable, got %v", err)
	}
	if len(c.pointer) != 0 || len(c.resize) != 0 {
		t.Error("listeners registered after a failed create")
	}
	if loop.Pending() != 0 {
		t.Error("frame scheduled after a failed create")
	}
}

func TestCreateReleasesOnPartialFailure(t *testing.T) {
	c := newFakeContainer(800, 600)
	dev := &fakeDevice{programErr: errors.New("link failed")}
	opts := DefaultOptions()
	opts.Scheduler = &Loop{}
	opts.NewDevice = func(Container) (Device, error) { return dev, nil }

	if _, err := Create(c, opts); err == nil {
		t.Fatal("expected an error when the program fails to build")
	}
	if dev.released != 1 {
		t.Errorf("expected device released once, got %d", dev.released)
	}
}

func TestCreateSchedulesOneFrame(t *testing.T) {
	c := newFakeContainer(800, 600)
	_, dev, loop := newTestSurface(t, c)
	if loop.Pending() != 1 {
		t.Fatalf("expected one pending frame, got %d", loop.Pending())
	}
	loop.Step(0)
	if dev.draws != 1 || dev.presents != 1 {
		t.Errorf("expected one draw and one present, got %d and %d", dev.draws, dev.presents)
	}
	if loop.Pending() != 1 {
		t.Errorf("expected the frame to reschedule itself once, got %d", loop.Pending())
	}
}

func TestCenterPointerMapsToOrigin(t *testing.T) {
	c := newFakeContainer(800, 600)
	s, _, _ := newTestSurface(t, c)
	c.move(400, 300)
	if got := s.Pointer().Target(); got.X() != 0 || got.Y() != 0 {
		t.Errorf("expected target (0,0), got %v", got)
	}
	c.move(0, 0)
	if got := s.Pointer().Target(); got.X() != -1 || got.Y() != 1 {
		t.Errorf("expected top-left to map to (-1,1), got %v", got)
	}
}

func TestCenteredPointerHeatsCenter(t *testing.T) {
	c := newFakeContainer(800, 600)
	s, dev, loop := newTestSurface(t, c)

	c.move(700, 100)
	for n := 1; n <= 10; n++ {
		loop.Step(float64(n) / 60)
	}
	c.move(400, 300)
	n := 11
	for ; n < 300; n++ {
		loop.Step(float64(n) / 60)
		if dev.lastDraw.Mouse.Len() < 1e-6 {
			break
		}
	}
	u := dev.lastDraw
	if u.Mouse.Len() >= 1e-6 {
		t.Fatalf("mouse uniform did not settle at the origin: %v", u.Mouse)
	}
	if u.Resolution.X() != 800 || u.Resolution.Y() != 600 {
		t.Fatalf("expected resolution 800x600, got %v", u.Resolution)
	}

	f := heatfield.New(heatfield.DefaultParams(), heatfield.DefaultRamp())
	f.Resolution = mgl64.Vec2{float64(u.Resolution.X()), float64(u.Resolution.Y())}
	f.Mouse = mgl64.Vec2{float64(u.Mouse.X()), float64(u.Mouse.Y())}
	center := f.FinalHeat(mgl64.Vec2{0.5, 0.5})
	if want := 0.6275; math.Abs(center-want) > 1e-4 {
		t.Errorf("heat under the pointer = %v, expected %v", center, want)
	}
	if corner := f.FinalHeat(mgl64.Vec2{0.05, 0.05}); corner >= center {
		t.Errorf("corner heat %v not below the pointer's %v", corner, center)
	}
}

func TestPointerConvergesGeometrically(t *testing.T) {
	c := newFakeContainer(800, 600)
	s, _, loop := newTestSurface(t, c)
	c.move(800, 150) // (1, 0.5)

	target := s.Pointer().Target()
	initial := target.Sub(s.Pointer().Smoothed()).Len()
	for n := 1; n <= 30; n++ {
		loop.Step(float64(n) / 60)
		got := target.Sub(s.Pointer().Smoothed()).Len()
		want := initial * math.Pow(0.85, float64(n))
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("frame %d: distance %v, expected %v", n, got, want)
		}
		if sm := s.Pointer().Smoothed(); sm.X() > target.X() || sm.Y() > target.Y() {
			t.Fatalf("frame %d: smoothed pointer overshot: %v", n, sm)
		}
	}
}

func TestResizeRebuildsMesh(t *testing.T) {
	c := newFakeContainer(800, 600)
	c.scale = 2
	s, dev, _ := newTestSurface(t, c)

	c.setSize(1600, 800)

	if len(dev.meshes) != 2 {
		t.Fatalf("expected a second mesh after resize, got %d", len(dev.meshes))
	}
	if dev.meshes[0].released != 1 {
		t.Error("old mesh was not released")
	}
	w, h := dev.meshes[1].plane.Extent()
	if math.Abs(float64(w)-16) > 1e-5 || h != 8 {
		t.Errorf("expected a 16x8 plane, got %vx%v", w, h)
	}
	if tg := dev.targets[0]; tg.width != 3200 || tg.height != 1600 {
		t.Errorf("expected target 3200x1600, got %dx%d", tg.width, tg.height)
	}
	if s.Camera().Aspect != 2 {
		t.Errorf("expected camera aspect 2, got %v", s.Camera().Aspect)
	}
	if r := s.Uniforms().Resolution; r.X() != 1600 || r.Y() != 800 {
		t.Errorf("expected resolution 1600x800, got %v", r)
	}
}

func TestPixelRatioIsCapped(t *testing.T) {
	c := newFakeContainer(800, 600)
	c.scale = 3
	s, dev, _ := newTestSurface(t, c)
	if s.PixelRatio() != 2 {
		t.Errorf("expected pixel ratio 2, got %v", s.PixelRatio())
	}
	if tg := dev.targets[0]; tg.width != 1600 || tg.height != 1200 {
		t.Errorf("expected target 1600x1200, got %dx%d", tg.width, tg.height)
	}
}

func TestDestroyTwice(t *testing.T) {
	c := newFakeContainer(800, 600)
	s, dev, _ := newTestSurface(t, c)

	s.Destroy()
	if len(c.pointer) != 0 || len(c.resize) != 0 {
		t.Error("listeners still registered after Destroy")
	}
	if dev.released != 1 || dev.meshes[0].released != 1 || dev.programs[0].released != 1 || dev.targets[0].released != 1 {
		t.Error("Destroy did not release every resource exactly once")
	}

	calls, removed := dev.calls(), c.removed
	s.Destroy()
	if dev.calls() != calls || c.removed != removed {
		t.Error("second Destroy touched resources")
	}
}

func TestQueuedFrameAfterDestroy(t *testing.T) {
	c := newFakeContainer(800, 600)
	s, dev, loop := newTestSurface(t, c)

	s.Destroy()
	calls := dev.calls()
	if ran := loop.Step(1); ran != 1 {
		t.Fatalf("expected the queued frame to run, ran %d", ran)
	}
	if dev.calls() != calls {
		t.Error("queued frame touched the device after Destroy")
	}
	if loop.Pending() != 0 {
		t.Error("destroyed surface requested another frame")
	}

	c.move(10, 10)
	c.setSize(100, 100)
	if dev.calls() != calls {
		t.Error("events reached a destroyed surface")
	}
}

func TestCollapsedViewportSkipsFrames(t *testing.T) {
	c := newFakeContainer(800, 600)
	s, dev, loop := newTestSurface(t, c)

	c.setSize(0, 600)
	c.move(100, 100)
	if got := s.Pointer().Target(); got.X() != 0 || got.Y() != 0 {
		t.Errorf("pointer moved on a collapsed viewport: %v", got)
	}

	loop.Step(0)
	loop.Step(1.0 / 60)
	if dev.draws != 0 {
		t.Errorf("expected no draws on a collapsed viewport, got %d", dev.draws)
	}
	if loop.Pending() != 1 {
		t.Error("collapsed viewport stopped the frame loop")
	}

	c.setSize(400, 300)
	loop.Step(2.0 / 60)
	if dev.draws != 1 {
		t.Errorf("expected drawing to resume, got %d draws", dev.draws)
	}
}

func TestFrameWritesTime(t *testing.T) {
	c := newFakeContainer(800, 600)
	_, dev, loop := newTestSurface(t, c)

	loop.Step(10)
	loop.Step(10.5)
	if dev.lastDraw.Time != 0.5 {
		t.Errorf("expected uTime 0.5, got %v", dev.lastDraw.Time)
	}
	if r := dev.lastDraw.Resolution; r.X() != 800 || r.Y() != 600 {
		t.Errorf("expected resolution 800x600, got %v", r)
	}
}

func TestReadPixels(t *testing.T) {
	c := newFakeContainer(320, 240)
	s, _, _ := newTestSurface(t, c)
	pix, w, h, err := s.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}
	if w != 320 || h != 240 || len(pix) != 320*240*4 {
		t.Errorf("unexpected frame %dx%d (%d bytes)", w, h, len(pix))
	}
	s.Destroy()
	if _, _, _, err := s.ReadPixels(); err == nil {
		t.Error("expected an error reading a destroyed surface")
	}
}

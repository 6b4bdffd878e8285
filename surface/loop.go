package surface

// FrameScheduler delivers one callback per request on the next display tick.
// Requests are not coalesced: a caller keeps at most one pending by asking
// again only from inside its own callback.
type FrameScheduler interface {
	RequestFrame(func(ts float64))
}

// Driver is what a Loop needs from the window.
type Driver interface {
	ShouldClose() bool
	EndFrame()
	Time() float64
}

// Loop is a FrameScheduler driven by the window's swap interval. Callbacks
// requested during a tick run on the following tick, in request order.
type Loop struct {
	driver  Driver
	pending []func(ts float64)
}

func NewLoop(d Driver) *Loop {
	return &Loop{driver: d}
}

func (l *Loop) RequestFrame(f func(ts float64)) {
	l.pending = append(l.pending, f)
}

// Pending reports how many callbacks wait for the next tick.
func (l *Loop) Pending() int {
	return len(l.pending)
}

// Step runs the callbacks queued before it was called and returns how many
// ran. Requests made by those callbacks wait for the next Step.
func (l *Loop) Step(ts float64) int {
	batch := l.pending
	l.pending = nil
	for _, f := range batch {
		f(ts)
	}
	return len(batch)
}

// Run ticks until the window asks to close. Every tick ends with EndFrame,
// which swaps buffers and dispatches window events.
func (l *Loop) Run() {
	for !l.driver.ShouldClose() {
		l.Step(l.driver.Time())
		l.driver.EndFrame()
	}
}

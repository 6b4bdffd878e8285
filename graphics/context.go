package graphics

// Listener identifies a registered event handler so it can be removed.
type Listener uint64

// Events is the event side of a context. Pointer positions and sizes are in
// window coordinates (not framebuffer pixels). Handlers run on the thread
// that calls EndFrame.
type Events interface {
	AddPointerListener(func(x, y float64)) Listener
	AddResizeListener(func(width, height int)) Listener
	AddClickListener(func(x, y float64)) Listener
	RemoveListener(Listener)
}

// Context defines the interface for an OpenGL context.
type Context interface {
	Events

	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	GetWindowSize() (int, int)
	// ContentScale is the ratio of framebuffer pixels to window coordinates.
	ContentScale() float32
	Time() float64
	IsGLES() bool
	// Detached reports a context with no window or display behind it.
	Detached() bool
}

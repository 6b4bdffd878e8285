package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/heatsurface/graphics"
)

// Context is a GLFW window. Pointer, resize and click handlers registered on
// it are dispatched from the window's callbacks during EndFrame.
type Context struct {
	window *glfw.Window
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()

	nextID  graphics.Listener
	pointer map[graphics.Listener]func(x, y float64)
	resize  map[graphics.Listener]func(width, height int)
	click   map[graphics.Listener]func(x, y float64)
}

// New creates and initializes a new GLFW window and returns a Context object.
// A hidden window is used for offscreen recording.
func New(width, height int, title string, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
		pointer:      make(map[graphics.Listener]func(x, y float64)),
		resize:       make(map[graphics.Listener]func(width, height int)),
		click:        make(map[graphics.Listener]func(x, y float64)),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetSizeCallback(c.glfwSizeCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, x, y float64) {
	for _, f := range c.pointer {
		f(x, y)
	}
}

func (c *Context) glfwSizeCallback(w *glfw.Window, width, height int) {
	for _, f := range c.resize {
		f(width, height)
	}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Release {
		return
	}
	x, y := w.GetCursorPos()
	for _, f := range c.click {
		f(x, y)
	}
}

func (c *Context) add() graphics.Listener {
	c.nextID++
	return c.nextID
}

func (c *Context) AddPointerListener(f func(x, y float64)) graphics.Listener {
	id := c.add()
	c.pointer[id] = f
	return id
}

func (c *Context) AddResizeListener(f func(width, height int)) graphics.Listener {
	id := c.add()
	c.resize[id] = f
	return id
}

func (c *Context) AddClickListener(f func(x, y float64)) graphics.Listener {
	id := c.add()
	c.click[id] = f
	return id
}

// RemoveListener unregisters a handler. Unknown ids are ignored.
func (c *Context) RemoveListener(id graphics.Listener) {
	delete(c.pointer, id)
	delete(c.resize, id)
	delete(c.click, id)
}

// Detached reports whether the window is gone. It is safe on a nil *Context.
func (c *Context) Detached() bool {
	return c == nil || c.window == nil
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glfw.SwapInterval(1)
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
}

func (c *Context) ShouldClose() bool {
	return c.window == nil || c.window.ShouldClose()
}

// EndFrame presents the frame and dispatches pending events.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

func (c *Context) ContentScale() float32 {
	fbWidth, _ := c.window.GetFramebufferSize()
	winWidth, _ := c.window.GetSize()
	if winWidth > 0 && fbWidth > 0 {
		return float32(fbWidth) / float32(winWidth)
	}
	x, _ := c.window.GetContentScale()
	return x
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

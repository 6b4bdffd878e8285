//go:build linux

package headless

import (
	"fmt"
	"log"
	"time"
	"unsafe"

	"github.com/richinsley/heatsurface/graphics"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC queryDevices;
static PFNEGLGETPLATFORMDISPLAYEXTPROC platformDisplay;

static void load_device_ext(void) {
	queryDevices = (PFNEGLQUERYDEVICESEXTPROC)eglGetProcAddress("eglQueryDevicesEXT");
	platformDisplay = (PFNEGLGETPLATFORMDISPLAYEXTPROC)eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *dev, const EGLint *attrs) {
	return platformDisplay ? platformDisplay(platform, dev, attrs) : EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max, EGLDeviceEXT *devices, EGLint *n) {
	return queryDevices ? queryDevices(max, devices, n) : EGL_FALSE;
}
*/
import "C"

// Headless is an EGL pbuffer context for rendering without a display. It has
// a fixed size, so registered listeners never fire.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width, height int
	start         time.Time
	nextID        graphics.Listener
	listeners     map[graphics.Listener]struct{}
}

// display picks the first GPU reported by EGL_EXT_device_enumeration and
// falls back to the default display when the extension is missing.
func display() (C.EGLDisplay, error) {
	C.load_device_ext()

	var n C.EGLint
	if C.query_devices(0, nil, &n) == C.EGL_FALSE || n == 0 {
		log.Println("EGL device enumeration unavailable, using the default display")
		d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if d == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return d, fmt.Errorf("no default EGL display")
		}
		return d, nil
	}

	devices := make([]C.EGLDeviceEXT, n)
	if C.query_devices(n, &devices[0], &n) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to list %d EGL devices", len(devices))
	}
	for i := range devices[:n] {
		d := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if d != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Rendering on EGL device %d of %d", i, n)
			return d, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("none of %d EGL devices has a display", n)
}

var (
	pbufferConfig = []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_NONE,
	}
	es3Context = []C.EGLint{C.EGL_CONTEXT_CLIENT_VERSION, 3, C.EGL_NONE}
)

// NewHeadless creates an OpenGL ES 3 context on a width x height pbuffer and
// makes it current. Anything created before a failure is torn down.
func NewHeadless(width, height int) (*Headless, error) {
	d, err := display()
	if err != nil {
		return nil, err
	}
	h := &Headless{
		display:   d,
		width:     width,
		height:    height,
		start:     time.Now(),
		listeners: make(map[graphics.Listener]struct{}),
	}
	if err := h.init(); err != nil {
		h.Shutdown()
		return nil, err
	}
	return h, nil
}

func (h *Headless) init() error {
	var major, minor C.EGLint
	if C.eglInitialize(h.display, &major, &minor) == C.EGL_FALSE {
		return fmt.Errorf("eglInitialize failed")
	}
	log.Printf("EGL %d.%d, pbuffer %dx%d", major, minor, h.width, h.height)

	var config C.EGLConfig
	var n C.EGLint
	if C.eglChooseConfig(h.display, &pbufferConfig[0], &config, 1, &n) == C.EGL_FALSE || n == 0 {
		return fmt.Errorf("no RGBA8 pbuffer config with ES 3 support")
	}

	size := []C.EGLint{C.EGL_WIDTH, C.EGLint(h.width), C.EGL_HEIGHT, C.EGLint(h.height), C.EGL_NONE}
	h.surface = C.eglCreatePbufferSurface(h.display, config, &size[0])
	if h.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return fmt.Errorf("failed to create %dx%d pbuffer", h.width, h.height)
	}
	h.context = C.eglCreateContext(h.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &es3Context[0])
	if h.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return fmt.Errorf("failed to create ES 3 context")
	}
	if C.eglMakeCurrent(h.display, h.surface, h.surface, h.context) == C.EGL_FALSE {
		return fmt.Errorf("failed to make the EGL context current")
	}
	return nil
}

func (h *Headless) MakeCurrent() {
	C.eglMakeCurrent(h.display, h.surface, h.surface, h.context)
}

// Shutdown releases the context, the pbuffer and the display. It is safe to
// call more than once.
func (h *Headless) Shutdown() {
	if h.Detached() {
		return
	}
	none := C.EGLSurface(C.EGL_NO_SURFACE)
	C.eglMakeCurrent(h.display, none, none, C.EGLContext(C.EGL_NO_CONTEXT))
	if h.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(h.display, h.context)
	}
	if h.surface != none {
		C.eglDestroySurface(h.display, h.surface)
	}
	C.eglTerminate(h.display)
	h.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}

// Detached is safe on a nil *Headless.
func (h *Headless) Detached() bool {
	return h == nil || h.display == C.EGLDisplay(C.EGL_NO_DISPLAY)
}

func (h *Headless) ShouldClose() bool {
	return h.display == C.EGLDisplay(C.EGL_NO_DISPLAY)
}

func (h *Headless) EndFrame() {
	C.eglSwapBuffers(h.display, h.surface)
}

func (h *Headless) GetFramebufferSize() (int, int) { return h.width, h.height }
func (h *Headless) GetWindowSize() (int, int) { return h.width, h.height }
func (h *Headless) ContentScale() float32 { return 1 }
func (h *Headless) IsGLES() bool { return true }

func (h *Headless) Time() float64 {
	return time.Since(h.start).Seconds()
}

func (h *Headless) add() graphics.Listener {
	h.nextID++
	h.listeners[h.nextID] = struct{}{}
	return h.nextID
}

func (h *Headless) AddPointerListener(func(x, y float64)) graphics.Listener { return h.add() }
func (h *Headless) AddResizeListener(func(width, height int)) graphics.Listener { return h.add() }
func (h *Headless) AddClickListener(func(x, y float64)) graphics.Listener { return h.add() }

func (h *Headless) RemoveListener(id graphics.Listener) {
	delete(h.listeners, id)
}

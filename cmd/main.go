package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"math"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/richinsley/heatsurface/camera"
	"github.com/richinsley/heatsurface/encoder"
	"github.com/richinsley/heatsurface/glfwcontext"
	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/headless"
	"github.com/richinsley/heatsurface/heatfield"
	"github.com/richinsley/heatsurface/mesh"
	"github.com/richinsley/heatsurface/options"
	"github.com/richinsley/heatsurface/surface"
	"github.com/richinsley/heatsurface/ui"
)

const (
	windowTitle    = "Studio B"
	screenshotFile = "screenshot.png"
)

func init() {
	runtime.LockOSThread()
}

func surfaceOptions(opts *options.SurfaceOptions) surface.Options {
	so := surface.DefaultOptions()
	so.Animate = *opts.Animate
	if *opts.ConfigFile != "" {
		cfg, err := options.Load(*opts.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := cfg.Apply(&so); err != nil {
			log.Fatalf("Invalid config %s: %v", *opts.ConfigFile, err)
		}
		log.Printf("Loaded config from %s", *opts.ConfigFile)
	}
	return so
}

func runInteractive(opts *options.SurfaceOptions, so surface.Options, variant ui.Variant) {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, windowTitle, true)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer ctx.Shutdown()

	loop := surface.NewLoop(ctx)
	so.Scheduler = loop
	s, err := surface.Create(ctx, so)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer s.Destroy()

	host, err := ui.NewHost(ctx, loop, ui.Config{
		Variant:   variant,
		ImagePath: *opts.ImagePath,
		Contact:   *opts.Contact,
	})
	if err != nil {
		log.Fatalf("Failed to create page: %v", err)
	}
	defer host.Destroy()

	ctx.RegisterKeyCallback(glfw.KeyS, func() {
		if err := saveFrame(s, screenshotFile); err != nil {
			log.Printf("Failed to save screenshot: %v", err)
			return
		}
		log.Printf("Saved screenshot to %s", screenshotFile)
	})

	log.Println("Starting interactive render loop...")
	loop.Run()
}

// saveFrame writes the surface's last rendered frame as a PNG.
func saveFrame(s *surface.Surface, path string) error {
	pix, w, h, err := s.ReadPixels()
	if err != nil {
		return err
	}
	img := &image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// recordContext returns an EGL pbuffer context when useEGL is set, otherwise
// a hidden GLFW window. Frames are read back from the offscreen target either
// way.
func recordContext(width, height int, useEGL bool) (graphics.Context, func(), error) {
	if useEGL {
		h, err := headless.NewHeadless(width, height)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Using EGL headless context")
		return h, h.Shutdown, nil
	}
	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, err
	}
	ctx, err := glfwcontext.New(width, height, windowTitle, false)
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, err
	}
	return ctx, func() {
		ctx.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

func runRecord(opts *options.SurfaceOptions, so surface.Options, pointer *mgl64.Vec2) {
	ctx, shutdown, err := recordContext(*opts.Width, *opts.Height, *opts.Headless)
	if err != nil {
		log.Fatalf("Failed to create render context: %v", err)
	}
	defer shutdown()

	loop := surface.NewLoop(ctx)
	so.Scheduler = loop
	s, err := surface.Create(ctx, so)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer s.Destroy()

	if pointer != nil {
		s.OnPointerMove(pointer.X(), pointer.Y())
	}

	fps := *opts.FPS
	total := int(math.Ceil(*opts.Duration * float64(fps)))
	var rec *encoder.Recorder
	log.Printf("Starting offscreen render of %d frames...", total)
	for i := 0; i < total; i++ {
		loop.Step(float64(i) / float64(fps))
		pix, w, h, err := s.ReadPixels()
		if err != nil {
			log.Fatalf("Failed to read frame %d: %v", i, err)
		}
		if rec == nil {
			rec, err = encoder.Start(encoder.Config{
				Width:      w,
				Height:     h,
				FPS:        fps,
				Codec:      *opts.Codec,
				OutputFile: *opts.OutputFile,
				FFMPEGPath: *opts.FFMPEGPath,
			})
			if err != nil {
				log.Fatalf("Failed to start encoder: %v", err)
			}
		}
		if err := rec.WriteFrame(pix, int64(i)); err != nil {
			log.Fatalf("Failed to encode frame %d: %v", i, err)
		}
		ctx.EndFrame()
	}
	if rec != nil {
		if err := rec.Close(); err != nil {
			log.Fatalf("Recording failed: %v", err)
		}
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
}

// runSnapshot renders one frame on the CPU, with the page elements drawn
// over it, and writes a PNG. It needs no display.
func runSnapshot(opts *options.SurfaceOptions, so surface.Options, variant ui.Variant, pointer *mgl64.Vec2) {
	w, h := *opts.Width, *opts.Height
	vp := surface.Viewport{Width: w, Height: h}
	if !vp.Valid() {
		log.Fatalf("Invalid snapshot size %dx%d", w, h)
	}

	field := heatfield.New(so.Params, so.Ramp)
	field.Resolution = mgl64.Vec2{float64(w), float64(h)}
	field.Animate = so.Animate
	field.Time = *opts.Duration
	state := ui.NewState(variant, w, h)
	if pointer != nil {
		// the smoothed pointer has caught up
		field.Mouse = vp.ToNDC(pointer.X(), pointer.Y())
		state.PointerMoved(pointer.X(), pointer.Y())
		for i := 0; i < 600 && !state.Settled(); i++ {
			state.Step()
		}
	}

	cam := camera.NewCamera(vp.Aspect())
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	field.Render(img, float64(cam.VisibleHeight()/mesh.FrustumHeight))

	info := ui.InfoImage(*opts.Contact, 1)
	draw.Draw(img, info.Bounds().Add(image.Pt(32, 32)), info, image.Point{}, draw.Over)
	size := int(math.Round(ui.ButtonSize * state.ButtonScale()))
	button := ui.ButtonImage(size)
	c := state.ButtonCenter()
	at := image.Pt(int(c.X())-size/2, int(c.Y())-size/2)
	draw.Draw(img, button.Bounds().Add(at), button, image.Point{}, draw.Over)

	f, err := os.Create(*opts.OutputFile)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *opts.OutputFile, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("Failed to encode snapshot: %v", err)
	}
	log.Printf("Wrote snapshot to %s", *opts.OutputFile)
}

func main() {
	opts := &options.SurfaceOptions{}

	opts.Help = flag.Bool("help", false, "Show help message")
	opts.Mode = flag.String("mode", "interactive", "Mode: interactive, record or snapshot")
	opts.Width = flag.Int("width", 1280, "Width of the window or output")
	opts.Height = flag.Int("height", 720, "Height of the window or output")
	opts.ConfigFile = flag.String("config", "", "Path to a JSON config file")
	opts.Animate = flag.Bool("animate", false, "Let the heat field drift over time")
	opts.Variant = flag.String("variant", "reveal", "Page variant: reveal or plain")
	opts.ImagePath = flag.String("image", "", "Image shown in the content panel (GIF, PNG or JPEG)")
	opts.Contact = flag.String("contact", "studio@hey.com", "Contact address shown on the page")
	opts.Pointer = flag.String("pointer", "", "Pointer position x,y for record and snapshot modes")

	// Recording flags
	opts.Duration = flag.Float64("duration", 10.0, "Duration to record in seconds (snapshot: time of the frame)")
	opts.FPS = flag.Int("fps", 60, "Frames per second for recording")
	opts.OutputFile = flag.String("output", "", "Output file (default output.mp4 or snapshot.png)")
	opts.Codec = flag.String("codec", "h264", "Video codec: h264 or hevc")
	opts.FFMPEGPath = flag.String("ffmpeg", "", "Path to ffmpeg executable")
	opts.Headless = flag.Bool("headless", false, "Record through an EGL pbuffer instead of a hidden window (Linux only)")

	flag.Parse()

	if *opts.Help {
		fmt.Println("Studio B landing surface")
		flag.PrintDefaults()
		return
	}

	variant, err := ui.ParseVariant(*opts.Variant)
	if err != nil {
		log.Fatalf("Invalid variant: %v", err)
	}
	var pointer *mgl64.Vec2
	if x, y, ok, err := options.ParsePoint(*opts.Pointer); err != nil {
		log.Fatalf("Invalid pointer: %v", err)
	} else if ok {
		pointer = &mgl64.Vec2{x, y}
	}

	so := surfaceOptions(opts)

	switch *opts.Mode {
	case "interactive":
		runInteractive(opts, so, variant)
	case "record":
		if *opts.OutputFile == "" {
			*opts.OutputFile = "output.mp4"
		}
		runRecord(opts, so, pointer)
	case "snapshot":
		if *opts.OutputFile == "" {
			*opts.OutputFile = "snapshot.png"
		}
		runSnapshot(opts, so, variant, pointer)
	default:
		log.Fatalf("Unknown mode %q", *opts.Mode)
	}
}

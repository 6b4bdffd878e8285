package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/heatsurface/graphics"
	"github.com/richinsley/heatsurface/renderer"
	"github.com/richinsley/heatsurface/surface"
)

// Config selects the host's variant and content.
type Config struct {
	Variant Variant
	// ImagePath is the panel image; empty or unreadable falls back to a
	// plain card.
	ImagePath string
	Contact   string
}

const infoMargin = 32

// Host draws the page elements over the surface's output and routes the
// container's pointer and click events to them.
type Host struct {
	ctx       graphics.Context
	scheduler surface.FrameScheduler
	state     *State
	// density is the integer pixel scale the textures are rendered at.
	density int

	sprites *renderer.SpriteRenderer
	info    *renderer.Texture
	button  *renderer.Texture
	panels  map[[2]int]*renderer.Texture
	source  image.Image

	listeners []graphics.Listener
	alive     bool
}

// NewHost builds the overlay textures and starts drawing on the next tick.
// It must be created after the surface so it draws on top.
func NewHost(ctx graphics.Context, scheduler surface.FrameScheduler, cfg Config) (*Host, error) {
	w, h := ctx.GetWindowSize()
	density := max(1, int(ctx.ContentScale()+0.5))

	hs := &Host{
		ctx:       ctx,
		scheduler: scheduler,
		state:     NewState(cfg.Variant, w, h),
		density:   density,
		panels:    map[[2]int]*renderer.Texture{},
	}

	var err error
	hs.sprites, err = renderer.NewSpriteRenderer(ctx.IsGLES())
	if err != nil {
		return nil, err
	}
	hs.info, err = renderer.NewTexture(InfoImage(cfg.Contact, density))
	if err != nil {
		hs.release()
		return nil, fmt.Errorf("failed to create info texture: %w", err)
	}
	// rendered at the largest scale the button reaches
	hs.button, err = renderer.NewTexture(ButtonImage(int(ButtonSize * maxButtonScale * float64(density))))
	if err != nil {
		hs.release()
		return nil, fmt.Errorf("failed to create button texture: %w", err)
	}

	if cfg.Variant == VariantReveal && cfg.ImagePath != "" {
		img, err := loadImage(cfg.ImagePath)
		if err != nil {
			log.Printf("Panel image unavailable, using a plain card: %v", err)
		} else {
			hs.source = img
		}
	}

	hs.listeners = []graphics.Listener{
		ctx.AddPointerListener(hs.state.PointerMoved),
		ctx.AddClickListener(func(x, y float64) {
			if hs.state.Click(x, y) {
				log.Printf("Content panel shown: %v", hs.state.ShowContent)
			}
		}),
		ctx.AddResizeListener(hs.state.Resize),
	}

	hs.alive = true
	hs.scheduler.RequestFrame(hs.Frame)
	return hs, nil
}

// loadImage decodes a GIF, PNG or JPEG file. For animated GIFs this is the
// first frame.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Printf("Loaded %s panel image %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// panelTexture returns the panel card for the current breakpoint, building
// it on first use.
func (hs *Host) panelTexture() (*renderer.Texture, error) {
	w, h := hs.state.PanelSize()
	key := [2]int{w, h}
	if t, ok := hs.panels[key]; ok {
		return t, nil
	}
	t, err := renderer.NewTexture(PanelImage(hs.source, w*hs.density, h*hs.density))
	if err != nil {
		return nil, err
	}
	hs.panels[key] = t
	return t, nil
}

func (hs *Host) State() *State {
	return hs.state
}

// Frame advances the animations and draws the overlay.
func (hs *Host) Frame(ts float64) {
	if !hs.alive {
		return
	}
	hs.state.Step()

	winW, winH := hs.ctx.GetWindowSize()
	fbW, fbH := hs.ctx.GetFramebufferSize()
	if winW > 0 && winH > 0 {
		hs.sprites.Begin(winW, winH, fbW, fbH)

		iw := float32(hs.info.Width / hs.density)
		ih := float32(hs.info.Height / hs.density)
		hs.sprites.Draw(hs.info, renderer.Sprite{
			Center: mgl32.Vec2{infoMargin + iw/2, infoMargin + ih/2},
			Size:   mgl32.Vec2{iw, ih},
			Alpha:  1,
		})

		bc := hs.state.ButtonCenter()
		bs := float32(ButtonSize * hs.state.ButtonScale())
		hs.sprites.Draw(hs.button, renderer.Sprite{
			Center: mgl32.Vec2{float32(bc.X()), float32(bc.Y())},
			Size:   mgl32.Vec2{bs, bs},
			Alpha:  1,
		})

		if hs.state.Variant == VariantReveal && hs.state.PanelOpacity() > 0 {
			if t, err := hs.panelTexture(); err != nil {
				log.Printf("Failed to create panel texture: %v", err)
			} else {
				pc := hs.state.PanelCenter()
				pw, ph := hs.state.PanelSize()
				hs.sprites.Draw(t, renderer.Sprite{
					Center:   mgl32.Vec2{float32(pc.X()), float32(pc.Y())},
					Size:     mgl32.Vec2{float32(pw), float32(ph)},
					Rotation: PanelRotation,
					Alpha:    float32(hs.state.PanelOpacity()),
				})
			}
		}

		hs.sprites.End()
	}

	hs.scheduler.RequestFrame(hs.Frame)
}

// Destroy removes the host's listeners and textures. Calling it again does
// nothing.
func (hs *Host) Destroy() {
	if hs == nil || !hs.alive {
		return
	}
	hs.alive = false
	for _, l := range hs.listeners {
		hs.ctx.RemoveListener(l)
	}
	hs.listeners = nil
	hs.release()
}

func (hs *Host) release() {
	for k, t := range hs.panels {
		t.Release()
		delete(hs.panels, k)
	}
	if hs.button != nil {
		hs.button.Release()
		hs.button = nil
	}
	if hs.info != nil {
		hs.info.Release()
		hs.info = nil
	}
	if hs.sprites != nil {
		hs.sprites.Release()
		hs.sprites = nil
	}
}

// Package ui is the page around the heat surface: the info notice, the blob
// button and the content panel it reveals.
package ui

import (
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

type Variant string

const (
	// VariantReveal shows the blob button, which slides away to reveal the
	// content panel.
	VariantReveal Variant = "reveal"
	// VariantPlain shows a static button and no panel.
	VariantPlain Variant = "plain"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantReveal, VariantPlain:
		return Variant(s), nil
	case "":
		return VariantReveal, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

const (
	// proximityRange is the pointer distance over which the button grows.
	proximityRange = 300
	maxButtonScale = 1.25

	// PanelRotation is the panel's tilt, counter-clockwise on screen.
	PanelRotation = -10 * math.Pi / 180

	frameRate = 60
)

// ProximityScale maps the pointer's distance from the button center to the
// button scale: 1.25 on the center, 1.0 from 300 units away.
func ProximityScale(distance float64) float64 {
	s := maxButtonScale - (distance/proximityRange)*0.25
	return math.Max(1, math.Min(maxButtonScale, s))
}

// PanelBox returns the panel size for a viewport width, stepping at the
// 640 and 768 breakpoints.
func PanelBox(viewportWidth float64) (w, h int) {
	switch {
	case viewportWidth >= 768:
		return 500, 375
	case viewportWidth >= 640:
		return 400, 300
	default:
		return 300, 225
	}
}

// spring animates one value toward a target.
type spring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	// eps is the distance and speed below which the value is at rest.
	eps float64
}

func newSpring(frequency, damping, pos, eps float64) spring {
	return spring{
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), frequency, damping),
		pos:    pos,
		target: pos,
		eps:    eps,
	}
}

func (s *spring) step() {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
}

func (s *spring) snap(v float64) {
	s.pos, s.vel, s.target = v, 0, v
}

func (s *spring) settled() bool {
	return math.Abs(s.pos-s.target) < s.eps && math.Abs(s.vel) < s.eps
}

// State is the host's layout and animation state in window units. It has
// no GPU resources.
type State struct {
	Variant     Variant
	ShowContent bool

	width, height float64
	buttonMask    *image.Alpha

	scale   spring
	buttonX spring
	panelX  spring
	opacity spring
}

func NewState(v Variant, width, height int) *State {
	s := &State{
		Variant:    v,
		width:      float64(width),
		height:     float64(height),
		buttonMask: BlobMask(ButtonSize),
		// ~0.1s for the scale, ~0.7s for the slides.
		scale:   newSpring(40, 1, 1, 0.001),
		buttonX: newSpring(9, 1, 0, 0.5),
		panelX:  newSpring(9, 1, 0, 0.5),
		opacity: newSpring(9, 1, 0, 0.01),
	}
	s.buttonX.snap(s.buttonTargetX())
	s.panelX.snap(s.panelTargetX())
	return s
}

func (s *State) buttonTargetX() float64 {
	if s.ShowContent {
		// off the left edge, with the button's left side at -2 viewports
		return -2*s.width + ButtonSize/2
	}
	return s.width / 2
}

func (s *State) panelTargetX() float64 {
	if s.ShowContent {
		return s.width / 2
	}
	w, _ := PanelBox(s.width)
	return 2*s.width + float64(w)/2
}

// Resize moves everything to its resting place for the new size.
func (s *State) Resize(width, height int) {
	s.width, s.height = float64(width), float64(height)
	s.buttonX.snap(s.buttonTargetX())
	s.panelX.snap(s.panelTargetX())
}

func (s *State) ButtonCenter() mgl64.Vec2 {
	return mgl64.Vec2{s.buttonX.pos, s.height / 2}
}

func (s *State) ButtonScale() float64 {
	return s.scale.pos
}

func (s *State) PanelCenter() mgl64.Vec2 {
	return mgl64.Vec2{s.panelX.pos, s.height / 2}
}

func (s *State) PanelOpacity() float64 {
	return math.Max(0, math.Min(1, s.opacity.pos))
}

func (s *State) PanelSize() (int, int) {
	return PanelBox(s.width)
}

// PointerMoved updates the button's target scale while it is on screen.
func (s *State) PointerMoved(x, y float64) {
	if s.Variant != VariantReveal || s.ShowContent {
		return
	}
	d := mgl64.Vec2{x, y}.Sub(s.ButtonCenter()).Len()
	s.scale.target = ProximityScale(d)
}

// Click toggles the panel. It reports whether the click hit the button or
// the panel.
func (s *State) Click(x, y float64) bool {
	if s.Variant != VariantReveal {
		return false
	}
	if s.ShowContent {
		if !s.panelContains(x, y) {
			return false
		}
		s.setShowContent(false)
		return true
	}
	if !s.buttonContains(x, y) {
		return false
	}
	s.setShowContent(true)
	return true
}

func (s *State) setShowContent(show bool) {
	s.ShowContent = show
	s.buttonX.target = s.buttonTargetX()
	s.panelX.target = s.panelTargetX()
	s.scale.target = 1
	if show {
		s.opacity.target = 1
	} else {
		s.opacity.target = 0
	}
}

// buttonContains tests (x, y) against the blob's coverage at the button's
// current position and scale.
func (s *State) buttonContains(x, y float64) bool {
	k := s.ButtonScale()
	c := s.ButtonCenter()
	bx := (x-c.X())/k + ButtonSize/2
	by := (y-c.Y())/k + ButtonSize/2
	if bx < 0 || by < 0 || bx >= ButtonSize || by >= ButtonSize {
		return false
	}
	return s.buttonMask.AlphaAt(int(bx), int(by)).A >= 128
}

// panelContains tests (x, y) against the rotated panel box.
func (s *State) panelContains(x, y float64) bool {
	c := s.PanelCenter()
	dx, dy := x-c.X(), y-c.Y()
	// undo the panel's rotation
	sin, cos := math.Sincos(-PanelRotation)
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	w, h := s.PanelSize()
	return math.Abs(lx) <= float64(w)/2 && math.Abs(ly) <= float64(h)/2
}

// Step advances every animation by one frame.
func (s *State) Step() {
	s.scale.step()
	s.buttonX.step()
	s.panelX.step()
	s.opacity.step()
}

// Settled reports whether every animation has come to rest.
func (s *State) Settled() bool {
	return s.scale.settled() && s.buttonX.settled() && s.panelX.settled() && s.opacity.settled()
}

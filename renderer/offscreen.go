package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Target is an offscreen framebuffer with a color texture and a depth buffer.
// The surface renders into it at its capped pixel density, then blits it to
// the window.
type Target struct {
	fbo               uint32
	textureID         uint32
	depthRenderbuffer uint32
	width             int
	height            int
}

func NewTarget(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}

	t := &Target{}
	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.textureID)
	gl.GenRenderbuffers(1, &t.depthRenderbuffer)

	if err := t.Resize(width, height); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// Resize reallocates the attachments. Contents are undefined afterwards.
func (t *Target) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}
	t.width = width
	t.height = height

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.textureID, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depthRenderbuffer)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depthRenderbuffer)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("offscreen fbo is not complete (status 0x%x)", status)
	}
	return nil
}

func (t *Target) Size() (int, int) {
	return t.width, t.height
}

// ReadPixels returns the target as tightly packed RGBA rows, top row first.
func (t *Target) ReadPixels() []byte {
	rowSize := t.width * 4
	raw := make([]byte, rowSize*t.height)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(raw))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// GL rows start at the bottom.
	flipped := make([]byte, len(raw))
	for y := 0; y < t.height; y++ {
		copy(flipped[y*rowSize:(y+1)*rowSize], raw[(t.height-1-y)*rowSize:])
	}
	return flipped
}

func (t *Target) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.textureID != 0 {
		gl.DeleteTextures(1, &t.textureID)
		t.textureID = 0
	}
	if t.depthRenderbuffer != 0 {
		gl.DeleteRenderbuffers(1, &t.depthRenderbuffer)
		t.depthRenderbuffer = 0
	}
}

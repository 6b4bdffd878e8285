package ui

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ButtonSize is the blob button's side in window units.
const ButtonSize = 200

const buttonLabel = "Studio B"

// blob outline in a 200x200 box: start point, then four cubic segments
// (two control points and an end point each).
var blobStart = [2]float32{100, 20}

var blobCurves = [][6]float32{
	{140, 20, 180, 60, 180, 100},
	{180, 140, 140, 180, 100, 180},
	{60, 180, 20, 140, 20, 100},
	{20, 60, 60, 20, 100, 20},
}

// BlobMask rasterizes the blob outline into a size x size coverage mask.
func BlobMask(size int) *image.Alpha {
	k := float32(size) / ButtonSize
	r := vector.NewRasterizer(size, size)
	r.MoveTo(blobStart[0]*k, blobStart[1]*k)
	for _, c := range blobCurves {
		r.CubeTo(c[0]*k, c[1]*k, c[2]*k, c[3]*k, c[4]*k, c[5]*k)
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// roundedRectMask is a w x h mask with corners of the given radius.
func roundedRectMask(w, h int, radius float32) *image.Alpha {
	fw, fh := float32(w), float32(h)
	r := vector.NewRasterizer(w, h)
	r.MoveTo(radius, 0)
	r.LineTo(fw-radius, 0)
	r.QuadTo(fw, 0, fw, radius)
	r.LineTo(fw, fh-radius)
	r.QuadTo(fw, fh, fw-radius, fh)
	r.LineTo(radius, fh)
	r.QuadTo(0, fh, 0, fh-radius)
	r.LineTo(0, radius)
	r.QuadTo(0, 0, radius, 0)
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// textImage draws s with basicfont on a transparent background.
func textImage(s string, c color.Color) *image.RGBA {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	m := face.Metrics()
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), m.Height.Ceil()))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(s)
	return img
}

// ButtonImage renders the blob button at size x size pixels: the blob in
// white at 0.95 opacity with the label in black near the middle.
func ButtonImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill := image.NewUniform(color.NRGBA{255, 255, 255, 242})
	draw.DrawMask(img, img.Bounds(), fill, image.Point{}, BlobMask(size), image.Point{}, draw.Over)

	// 24px label, centered on (100,105) in blob units.
	label := textImage(buttonLabel, color.Black)
	k := float64(size) / ButtonSize
	scale := 24 * k / float64(label.Rect.Dy())
	lw := int(float64(label.Rect.Dx()) * scale)
	lh := int(float64(label.Rect.Dy()) * scale)
	cx, cy := int(100*k), int(105*k)
	dst := image.Rect(cx-lw/2, cy-lh/2, cx-lw/2+lw, cy-lh/2+lh)
	xdraw.CatmullRom.Scale(img, dst, label, label.Bounds(), xdraw.Over, nil)
	return img
}

// InfoImage renders the top-left notice: a heading, then the contact block.
// Lines are drawn at scale times the font's native size.
func InfoImage(contact string, scale int) *image.RGBA {
	lines := []string{"NEW SITE COMING SOON", "", "CONTACT", contact}
	lineHeight := basicfont.Face7x13.Metrics().Height.Ceil() + 3

	w := 1
	for _, l := range lines {
		w = max(w, font.MeasureString(basicfont.Face7x13, l).Ceil())
	}
	src := image.NewRGBA(image.Rect(0, 0, w, lineHeight*len(lines)))
	for i, l := range lines {
		if l == "" {
			continue
		}
		t := textImage(l, color.White)
		draw.Draw(src, t.Bounds().Add(image.Pt(0, i*lineHeight)), t, image.Point{}, draw.Over)
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx()*scale, src.Rect.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// PanelImage fits src into a w x h box the way object-fit: cover does,
// on a black background with rounded corners. A nil src yields a black card
// carrying the studio name.
func PanelImage(src image.Image, w, h int) *image.RGBA {
	card := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(card, card.Bounds(), image.Black, image.Point{}, draw.Src)

	if src != nil {
		xdraw.CatmullRom.Scale(card, card.Bounds(), src, coverRect(src.Bounds(), w, h), xdraw.Src, nil)
	} else {
		label := textImage(buttonLabel, color.White)
		scale := 3
		lw, lh := label.Rect.Dx()*scale, label.Rect.Dy()*scale
		dst := image.Rect((w-lw)/2, (h-lh)/2, (w-lw)/2+lw, (h-lh)/2+lh)
		xdraw.NearestNeighbor.Scale(card, dst, label, label.Bounds(), xdraw.Over, nil)
	}

	out := image.NewRGBA(card.Bounds())
	radius := float32(w) * 8 / 500
	draw.DrawMask(out, out.Bounds(), card, image.Point{}, roundedRectMask(w, h, radius), image.Point{}, draw.Src)
	return out
}

// coverRect is the centered part of b with the aspect ratio of w x h.
func coverRect(b image.Rectangle, w, h int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	if bw*h > bh*w {
		cw := bh * w / h
		x := b.Min.X + (bw-cw)/2
		return image.Rect(x, b.Min.Y, x+cw, b.Max.Y)
	}
	ch := bw * h / w
	y := b.Min.Y + (bh-ch)/2
	return image.Rect(b.Min.X, y, b.Max.X, y+ch)
}

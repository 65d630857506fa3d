// Package raster provides the packed-RGB pixel buffer that frames are rendered into.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"tree-heat/pkg/colorutil"
)

// Raster is a dense row-major buffer of 0xRRGGBB pixels with origin at the top left.
// It implements image.Image so it can be handed to fyne or an encoder directly.
type Raster struct {
	Width  int
	Height int
	Pix    []uint32
}

// New creates a Raster filled with fill.
func New(width, height int, fill uint32) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	r := &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
	if fill != 0 {
		for i := range r.Pix {
			r.Pix[i] = fill
		}
	}
	return r, nil
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint32, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// InBounds reports whether (x, y) addresses a pixel.
func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// Index returns the offset of (x, y) in Pix. The caller checks bounds.
func (r *Raster) Index(x, y int) int {
	return y*r.Width + x
}

// Get returns the packed color at (x, y), or black outside the raster.
func (r *Raster) Get(x, y int) uint32 {
	if !r.InBounds(x, y) {
		return colorutil.Black
	}
	return r.Pix[r.Index(x, y)]
}

// Set writes a packed color at (x, y). Writes outside the raster are dropped.
func (r *Raster) Set(x, y int, c uint32) {
	if r.InBounds(x, y) {
		r.Pix[r.Index(x, y)] = c & 0xFFFFFF
	}
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	return colorutil.ToRGBA(r.Get(x, y))
}

// ToRGBA converts the raster to an *image.RGBA for presentation.
func (r *Raster) ToRGBA() *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	for i, c := range r.Pix {
		cr, cg, cb := colorutil.Unpack(c)
		o := i * 4
		img.Pix[o] = cr
		img.Pix[o+1] = cg
		img.Pix[o+2] = cb
		img.Pix[o+3] = 255
	}
	return img
}

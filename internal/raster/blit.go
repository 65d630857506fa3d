package raster

import (
	"fmt"
	"image"

	"tree-heat/pkg/colorutil"
)

// Blit resamples src into a new width×height raster using nearest-neighbor sampling.
// Destination (x, y) reads source (x*srcW/width, y*srcH/height) with integer division;
// the aspect ratio is not preserved.
func Blit(src image.Image, width, height int) (*Raster, error) {
	if src == nil {
		return nil, fmt.Errorf("blit: nil source image")
	}
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("blit: empty source image %dx%d", srcW, srcH)
	}

	dst, err := New(width, height, 0)
	if err != nil {
		return nil, fmt.Errorf("blit: %w", err)
	}

	// Rows and columns map independently, so precompute the source columns once.
	cols := make([]int, width)
	for x := range cols {
		cols[x] = b.Min.X + x*srcW/width
	}

	for y := 0; y < height; y++ {
		sy := b.Min.Y + y*srcH/height
		row := dst.Pix[y*width : (y+1)*width]
		for x, sx := range cols {
			row[x] = colorutil.FromColor(src.At(sx, sy))
		}
	}
	return dst, nil
}

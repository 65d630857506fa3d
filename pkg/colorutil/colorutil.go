// Package colorutil provides packed 0xRRGGBB color helpers shared by the renderers.
package colorutil

import (
	"image/color"
	"math"
)

// Packed colors used throughout the application.
const (
	Black uint32 = 0x000000
	White uint32 = 0xFFFFFF
	Red   uint32 = 0xFF0000
	Green uint32 = 0x00FF00
)

// Pack assembles channels into a 0xRRGGBB value.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a 0xRRGGBB value into channels. Bits above 24 are ignored.
func Unpack(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ClampChannel rounds v and saturates it to [0, 255]. NaN maps to 0.
func ClampChannel(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// PackFloat clamps each channel and assembles a 0xRRGGBB value.
func PackFloat(r, g, b float64) uint32 {
	return Pack(ClampChannel(r), ClampChannel(g), ClampChannel(b))
}

// FromColor converts any color.Color to 0xRRGGBB, dropping alpha. Channels are taken
// unpremultiplied, so translucent pixels keep their stored colour.
func FromColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pack(n.R, n.G, n.B)
}

// ToRGBA converts 0xRRGGBB to an opaque color.RGBA.
func ToRGBA(c uint32) color.RGBA {
	r, g, b := Unpack(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

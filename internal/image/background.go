// Package image loads the background picture that the heat overlay is painted over.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"tree-heat/internal/raster"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoder selects the library used to decode background files.
type Decoder string

const (
	DecoderGo     Decoder = "go"     // image.Decode with the registered formats
	DecoderOpenCV Decoder = "opencv" // gocv.IMRead
)

// ParseDecoder parses a decoder name; the empty string selects DecoderGo.
func ParseDecoder(s string) (Decoder, error) {
	switch Decoder(strings.ToLower(s)) {
	case DecoderGo, "":
		return DecoderGo, nil
	case DecoderOpenCV:
		return DecoderOpenCV, nil
	default:
		return "", fmt.Errorf("unknown image decoder %q", s)
	}
}

// Background is a decoded background image.
type Background struct {
	Path   string      // Original file path
	Format string      // Format name reported by the decoder
	Image  image.Image // Decoded pixels
}

// Load decodes the background image at path with the selected decoder.
func Load(path string, dec Decoder) (*Background, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if dec == DecoderOpenCV {
		return loadOpenCV(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Background{Path: path, Format: format, Image: img}, nil
}

// Width returns the image width in pixels.
func (b *Background) Width() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *Background) Height() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Raster resamples the background to a width×height base layer.
func (b *Background) Raster(width, height int) (*raster.Raster, error) {
	return raster.Blit(b.Image, width, height)
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

package image

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tree-heat/pkg/colorutil"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(10 * x), G: uint8(10 * y), B: 1, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "background.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoadAndRaster(t *testing.T) {
	path := writePNG(t, 4, 2)
	bg, err := Load(path, DecoderGo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bg.Format != "png" || bg.Width() != 4 || bg.Height() != 2 {
		t.Fatalf("loaded %s %dx%d, want png 4x2", bg.Format, bg.Width(), bg.Height())
	}

	r, err := bg.Raster(8, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := r.Get(7, 3), colorutil.Pack(30, 10, 1); got != want {
		t.Errorf("pixel (7,3) = %06X, want %06X", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("background.gif", DecoderGo); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.gif) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), DecoderGo); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestParseDecoder(t *testing.T) {
	for in, want := range map[string]Decoder{"": DecoderGo, "go": DecoderGo, "OpenCV": DecoderOpenCV} {
		got, err := ParseDecoder(in)
		if err != nil || got != want {
			t.Errorf("ParseDecoder(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDecoder("vips"); err == nil {
		t.Errorf("expected error for unknown decoder")
	}
}

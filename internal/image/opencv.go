package image

import (
	"fmt"

	"gocv.io/x/gocv"
)

// loadOpenCV decodes path with OpenCV, for files the Go decoders reject
// (for example TIFFs with unusual compression).
func loadOpenCV(path string) (*Background, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %s", path)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert OpenCV image: %w", err)
	}
	return &Background{Path: path, Format: "opencv", Image: img}, nil
}

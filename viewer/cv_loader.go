package viewer

import (
	"fmt"

	"gocv.io/x/gocv"

	"regionfinder/imageprocessor"
	"regionfinder/types"
)

// CVImageLoader decodes candidates with OpenCV instead of the Go decoders
type CVImageLoader struct{}

// NewCVImageLoader creates a new OpenCV image loader
func NewCVImageLoader() *CVImageLoader {
	return &CVImageLoader{}
}

// CanLoad checks if OpenCV can decode the file type
func (l *CVImageLoader) CanLoad(path string) bool {
	return imageprocessor.IsImageFile(path)
}

// LoadImage reads the file as 3-channel color and converts it to a patch
func (l *CVImageLoader) LoadImage(path string, channels int) (*types.Patch, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("OpenCV could not decode %s", path)
	}
	defer img.Close()

	decoded, err := img.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	return imageprocessor.PatchFromImage(decoded, channels)
}

// Register makes OpenCV the loader for every extension it understands
func Register(registry *imageprocessor.ImageLoaderRegistry) {
	loader := NewCVImageLoader()
	for _, ext := range imageprocessor.GetSupportedExtensions() {
		if ext == ".gif" {
			// OpenCV has no GIF decoder
			continue
		}
		registry.RegisterLoader(ext, loader)
	}
	registry.SetDefaultLoader(loader)
}

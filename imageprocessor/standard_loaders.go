package imageprocessor

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"

	"regionfinder/types"
)

// StandardImageLoader handles formats decodable through imaging (JPEG, PNG, GIF, BMP, TIFF)
type StandardImageLoader struct {
	SupportedFormats []FormatType
}

// NewStandardImageLoader creates a new loader for standard image formats
func NewStandardImageLoader() *StandardImageLoader {
	return &StandardImageLoader{
		SupportedFormats: []FormatType{FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatTIFF},
	}
}

// CanLoad checks the file's format and that the file exists
func (l *StandardImageLoader) CanLoad(path string) bool {
	format := GetFileFormat(path)
	for _, supported := range l.SupportedFormats {
		if format == supported {
			return fileExists(path)
		}
	}
	return false
}

// LoadImage decodes the file and converts it to a patch.
// EXIF orientation is applied, so the patch has the layout a viewer displays.
func (l *StandardImageLoader) LoadImage(path string, channels int) (*types.Patch, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, newImageLoadError("failed to decode image", path, err)
	}
	return PatchFromImage(img, channels)
}

// WebPImageLoader decodes WebP files
type WebPImageLoader struct{}

// NewWebPImageLoader creates a new WebP loader
func NewWebPImageLoader() *WebPImageLoader {
	return &WebPImageLoader{}
}

// CanLoad checks the file's format and that the file exists
func (l *WebPImageLoader) CanLoad(path string) bool {
	return GetFileFormat(path) == FormatWEBP && fileExists(path)
}

// LoadImage decodes the WebP file and converts it to a patch
func (l *WebPImageLoader) LoadImage(path string, channels int) (*types.Patch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newImageLoadError("failed to open image", path, err)
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		return nil, newImageLoadError("failed to decode webp image", path, err)
	}
	return PatchFromImage(img, channels)
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// newImageLoadError creates a standardized error for image loading failures
func newImageLoadError(message, path string, err error) error {
	return fmt.Errorf("%s: %s: %w", message, path, err)
}

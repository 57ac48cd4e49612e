// Package imageprocessor loads candidate images into patches and scores patches
// against each other with the structural similarity index.
package imageprocessor

import "regionfinder/types"

// ImageLoader is the interface that all image loaders must implement
type ImageLoader interface {
	// CanLoad checks if the loader can handle the given file
	CanLoad(path string) bool

	// LoadImage decodes the file into a patch with the requested channel count
	LoadImage(path string, channels int) (*types.Patch, error)
}

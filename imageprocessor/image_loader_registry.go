package imageprocessor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"regionfinder/types"
)

// ImageLoaderRegistry maintains a registry of image loaders keyed by extension
type ImageLoaderRegistry struct {
	loaders       map[string]ImageLoader
	defaultLoader ImageLoader
	mutex         sync.RWMutex
}

// NewImageLoaderRegistry creates a registry with the pure Go loaders registered
func NewImageLoaderRegistry() *ImageLoaderRegistry {
	registry := &ImageLoaderRegistry{
		loaders: make(map[string]ImageLoader),
	}

	standardLoader := NewStandardImageLoader()
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"} {
		registry.RegisterLoader(ext, standardLoader)
	}
	registry.RegisterLoader(".webp", NewWebPImageLoader())

	registry.defaultLoader = standardLoader
	return registry
}

// RegisterLoader registers a loader for a specific file extension, replacing any previous one
func (r *ImageLoaderRegistry) RegisterLoader(ext string, loader ImageLoader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loaders[strings.ToLower(ext)] = loader
}

// SetDefaultLoader sets the loader used for extensions without a registered loader
func (r *ImageLoaderRegistry) SetDefaultLoader(loader ImageLoader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.defaultLoader = loader
}

// GetLoader returns the appropriate loader for the given path
func (r *ImageLoaderRegistry) GetLoader(path string) ImageLoader {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	if loader, ok := r.loaders[ext]; ok {
		return loader
	}

	return r.defaultLoader
}

// CanLoadFile checks if a loader is registered for the file's extension
func (r *ImageLoaderRegistry) CanLoadFile(path string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	_, ok := r.loaders[ext]
	return ok
}

// LoadImage decodes an image using the appropriate registered loader.
// Every failure wraps types.ErrDecodeFailure.
func (r *ImageLoaderRegistry) LoadImage(path string, channels int) (*types.Patch, error) {
	loader := r.GetLoader(path)
	if loader == nil {
		return nil, fmt.Errorf("%w: no suitable loader found for %s", types.ErrDecodeFailure, path)
	}

	patch, err := loader.LoadImage(path, channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDecodeFailure, path, err)
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: image is empty after loading: %s", types.ErrDecodeFailure, path)
	}

	return patch, nil
}

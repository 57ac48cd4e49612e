package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"regionfinder/logging"
	"regionfinder/types"
)

// ExtensionFilter decides which files are search candidates
type ExtensionFilter struct {
	extensions    map[string]struct{}
	caseSensitive bool
}

// NewExtensionFilter builds a filter for the given extensions (with leading dot).
// Unless caseSensitive is set, ".PNG" and ".png" are the same extension.
func NewExtensionFilter(extensions []string, caseSensitive bool) *ExtensionFilter {
	f := &ExtensionFilter{
		extensions:    make(map[string]struct{}, len(extensions)),
		caseSensitive: caseSensitive,
	}
	for _, ext := range extensions {
		f.extensions[f.fold(ext)] = struct{}{}
	}
	return f
}

// Match checks if the path has one of the candidate extensions
func (f *ExtensionFilter) Match(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	_, ok := f.extensions[f.fold(ext)]
	return ok
}

func (f *ExtensionFilter) fold(ext string) string {
	if f.caseSensitive {
		return ext
	}
	return strings.ToLower(ext)
}

// CollectCandidates walks root recursively and returns the matching files.
// Order is that of filepath.WalkDir: depth first, entries of each directory in
// lexical order. Unreadable entries below root are logged and skipped; an
// unreadable root is reported as types.ErrInaccessibleDirectory.
func CollectCandidates(ctx context.Context, root string, filter *ExtensionFilter) ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %s: %v", types.ErrInaccessibleDirectory, root, err)
			}
			logging.LogWarning("Skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() || !filter.Match(path) {
			return nil
		}

		candidates = append(candidates, path)
		return nil
	})

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return candidates, err
		}
		return nil, err
	}

	return candidates, nil
}

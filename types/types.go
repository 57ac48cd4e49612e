package types

import (
	"image"
	"time"
)

// Selection holds the two corners of a dragged rectangle in image pixel coordinates.
// Start is where the pointer went down, End is the latest pointer position.
type Selection struct {
	Start image.Point `json:"start"`
	End   image.Point `json:"end"`
}

// Normalize returns the selection as a rectangle spanning (min_x, min_y)-(max_x, max_y)
func (s Selection) Normalize() image.Rectangle {
	return image.Rect(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// Empty reports whether the selection covers no pixels
func (s Selection) Empty() bool {
	return s.Normalize().Empty()
}

// SearchRequest describes a single region search.
// A nil Threshold means the engine's configured threshold is used.
type SearchRequest struct {
	Reference     *Patch
	RootDirectory string
	Threshold     *float64
}

// WithThreshold returns a copy of r that overrides the configured threshold
func (r SearchRequest) WithThreshold(threshold float64) SearchRequest {
	r.Threshold = &threshold
	return r
}

// RegionMatch holds a candidate file that contains a window similar to the reference
type RegionMatch struct {
	Path string `json:"path"`
	// Offset of the first qualifying window, X is the column and Y the row.
	Offset       image.Point `json:"offset"`
	SSIMScore    float64     `json:"ssim_score"`
	MSE          float64     `json:"mse"`
	HashDistance int         `json:"hash_distance"`
}

// SearchStats summarizes one search call
type SearchStats struct {
	Candidates     int           `json:"candidates"`
	Scanned        int           `json:"scanned"`
	Matched        int           `json:"matched"`
	TooSmall       int           `json:"too_small"`
	DecodeFailures int           `json:"decode_failures"`
	WindowsScored  int64         `json:"windows_scored"`
	Elapsed        time.Duration `json:"elapsed"`
}

// SearchResult holds the ordered matches of a search together with its statistics
type SearchResult struct {
	Matches []RegionMatch `json:"matches"`
	Stats   SearchStats   `json:"stats"`
}

// Paths returns the matched file paths in candidate enumeration order
func (r *SearchResult) Paths() []string {
	if r == nil {
		return nil
	}
	paths := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		paths = append(paths, m.Path)
	}
	return paths
}

package types

import (
	"fmt"
	"image"
)

// DefaultChannels is the channel count of color patches (R, G, B)
const DefaultChannels = 3

// Patch is a rectangular pixel buffer with interleaved channels.
// The sample for channel c of the pixel at (row, col) is Pix[row*Stride+col*Channels+c].
type Patch struct {
	Pix      []uint8
	Stride   int
	Width    int
	Height   int
	Channels int
}

// NewPatch allocates a zeroed patch of the given shape
func NewPatch(width, height, channels int) *Patch {
	if width < 0 || height < 0 || channels < 1 {
		return &Patch{Channels: channels}
	}
	return &Patch{
		Pix:      make([]uint8, width*height*channels),
		Stride:   width * channels,
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// Empty reports whether the patch has zero area
func (p *Patch) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0 || p.Channels <= 0
}

// SameShape reports whether both patches have identical width, height and channel count
func (p *Patch) SameShape(other *Patch) bool {
	if p == nil || other == nil {
		return false
	}
	return p.Width == other.Width && p.Height == other.Height && p.Channels == other.Channels
}

// At returns the sample of channel ch at (row, col)
func (p *Patch) At(row, col, ch int) uint8 {
	return p.Pix[row*p.Stride+col*p.Channels+ch]
}

// Set stores the sample of channel ch at (row, col)
func (p *Patch) Set(row, col, ch int, v uint8) {
	p.Pix[row*p.Stride+col*p.Channels+ch] = v
}

// SubPatch returns a view of the height x width window whose top-left pixel is (row, col).
// The view shares Pix with p. The window is clipped to the patch bounds, so callers
// that need an exact shape must compare it afterwards.
func (p *Patch) SubPatch(row, col, height, width int) *Patch {
	if row < 0 || col < 0 || row >= p.Height || col >= p.Width || height <= 0 || width <= 0 {
		return &Patch{Channels: p.Channels}
	}
	height = min(height, p.Height-row)
	width = min(width, p.Width-col)

	start := row*p.Stride + col*p.Channels
	end := start + (height-1)*p.Stride + width*p.Channels
	return &Patch{
		Pix:      p.Pix[start:end:end],
		Stride:   p.Stride,
		Width:    width,
		Height:   height,
		Channels: p.Channels,
	}
}

// Crop returns the view of p covered by rect, where rect uses X for columns and Y for rows
func (p *Patch) Crop(rect image.Rectangle) (*Patch, error) {
	bounds := image.Rect(0, 0, p.Width, p.Height)
	clipped := rect.Canon().Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("%w: selection %v lies outside %dx%d image", ErrInvalidReference, rect, p.Width, p.Height)
	}
	return p.SubPatch(clipped.Min.Y, clipped.Min.X, clipped.Dy(), clipped.Dx()), nil
}

// Clone returns a compact copy of p that does not share memory with it
func (p *Patch) Clone() *Patch {
	out := NewPatch(p.Width, p.Height, p.Channels)
	rowBytes := p.Width * p.Channels
	for row := 0; row < p.Height; row++ {
		copy(out.Pix[row*out.Stride:row*out.Stride+rowBytes], p.Pix[row*p.Stride:row*p.Stride+rowBytes])
	}
	return out
}

// String describes the patch shape, mostly for logging
func (p *Patch) String() string {
	if p == nil {
		return "patch(nil)"
	}
	return fmt.Sprintf("patch(%dx%dx%d)", p.Height, p.Width, p.Channels)
}

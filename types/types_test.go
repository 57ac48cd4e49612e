package types

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedPatch(width, height, channels int) *Patch {
	p := NewPatch(width, height, channels)
	for i := range p.Pix {
		p.Pix[i] = uint8(i)
	}
	return p
}

func TestSelectionNormalize(t *testing.T) {
	tests := []struct {
		name      string
		selection Selection
	}{
		{"down right", Selection{Start: image.Pt(1, 2), End: image.Pt(5, 7)}},
		{"up left", Selection{Start: image.Pt(5, 7), End: image.Pt(1, 2)}},
		{"up right", Selection{Start: image.Pt(1, 7), End: image.Pt(5, 2)}},
		{"down left", Selection{Start: image.Pt(5, 2), End: image.Pt(1, 7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, image.Rect(1, 2, 5, 7), tt.selection.Normalize())
			assert.False(t, tt.selection.Empty())
		})
	}

	assert.True(t, Selection{Start: image.Pt(3, 3), End: image.Pt(3, 9)}.Empty())
}

func TestSubPatchSharesPixels(t *testing.T) {
	p := numberedPatch(4, 3, 3)
	view := p.SubPatch(1, 2, 2, 2)

	require.Equal(t, 2, view.Width)
	require.Equal(t, 2, view.Height)
	assert.Equal(t, p.At(1, 2, 0), view.At(0, 0, 0))
	assert.Equal(t, p.At(2, 3, 2), view.At(1, 1, 2))

	view.Set(0, 0, 1, 99)
	assert.Equal(t, uint8(99), p.At(1, 2, 1))
}

func TestSubPatchClipsAndRejects(t *testing.T) {
	p := numberedPatch(4, 3, 3)

	clipped := p.SubPatch(2, 3, 5, 5)
	assert.Equal(t, 1, clipped.Width)
	assert.Equal(t, 1, clipped.Height)
	assert.False(t, clipped.SameShape(NewPatch(5, 5, 3)))

	assert.True(t, p.SubPatch(3, 0, 1, 1).Empty())
	assert.True(t, p.SubPatch(-1, 0, 1, 1).Empty())
	assert.True(t, p.SubPatch(0, 0, 0, 1).Empty())
}

func TestNestedSubPatch(t *testing.T) {
	p := numberedPatch(6, 6, 3)
	inner := p.SubPatch(1, 1, 4, 4).SubPatch(2, 1, 2, 3)

	assert.Equal(t, p.At(3, 2, 0), inner.At(0, 0, 0))
	assert.Equal(t, p.At(4, 4, 2), inner.At(1, 2, 2))
}

func TestCloneIsCompact(t *testing.T) {
	p := numberedPatch(5, 4, 3)
	view := p.SubPatch(1, 1, 2, 3)
	clone := view.Clone()

	assert.Equal(t, 3*3, clone.Stride)
	assert.Len(t, clone.Pix, 2*3*3)
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			for ch := 0; ch < 3; ch++ {
				assert.Equal(t, view.At(row, col, ch), clone.At(row, col, ch))
			}
		}
	}
}

func TestCrop(t *testing.T) {
	p := numberedPatch(10, 8, 3)

	crop, err := p.Crop(image.Rect(2, 1, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, crop.Width)
	assert.Equal(t, 3, crop.Height)
	assert.Equal(t, p.At(1, 2, 0), crop.At(0, 0, 0))

	clipped, err := p.Crop(image.Rect(8, 6, 20, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, clipped.Width)
	assert.Equal(t, 2, clipped.Height)

	_, err = p.Crop(image.Rect(20, 20, 30, 30))
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestPatchShapeHelpers(t *testing.T) {
	var nilPatch *Patch
	assert.True(t, nilPatch.Empty())
	assert.False(t, nilPatch.SameShape(NewPatch(1, 1, 3)))
	assert.Equal(t, "patch(nil)", nilPatch.String())

	p := NewPatch(4, 2, 3)
	assert.True(t, p.SameShape(NewPatch(4, 2, 3)))
	assert.False(t, p.SameShape(NewPatch(2, 4, 3)))
	assert.Equal(t, "patch(2x4x3)", p.String())
	assert.True(t, NewPatch(-1, 2, 3).Empty())
}

func TestSearchResultPaths(t *testing.T) {
	var nilResult *SearchResult
	assert.Nil(t, nilResult.Paths())

	result := &SearchResult{Matches: []RegionMatch{{Path: "b.png"}, {Path: "a.png"}}}
	assert.Equal(t, []string{"b.png", "a.png"}, result.Paths())
}

package scanner

import (
	"context"
	"image"
	"iter"

	"regionfinder/imageprocessor"
	"regionfinder/types"
)

// WindowScores lazily scores every reference-sized window of candidate.
// Rows are the outer loop and columns the inner one, both ascending, over
// row in [0, H-h-1] and col in [0, W-w-1]. The offset of each window is
// reported as image.Point{X: col, Y: row}. The context is checked once per row;
// a cancelled context ends the sequence early. Each range over the sequence
// starts again from the first window.
func WindowScores(ctx context.Context, scorer *imageprocessor.SSIMScorer, reference, candidate *types.Patch) iter.Seq2[image.Point, float64] {
	return func(yield func(image.Point, float64) bool) {
		if reference.Empty() || candidate.Empty() {
			return
		}

		lastRow := candidate.Height - reference.Height - 1
		lastCol := candidate.Width - reference.Width - 1

		for row := 0; row <= lastRow; row++ {
			if ctx.Err() != nil {
				return
			}
			for col := 0; col <= lastCol; col++ {
				window := candidate.SubPatch(row, col, reference.Height, reference.Width)
				if !window.SameShape(reference) {
					continue
				}
				if !yield(image.Pt(col, row), scorer.Score(reference, window)) {
					return
				}
			}
		}
	}
}

// FirstMatch consumes scores until one strictly exceeds threshold.
// It returns that window's offset and score, how many windows were scored, and
// whether a window qualified.
func FirstMatch(scores iter.Seq2[image.Point, float64], threshold float64) (image.Point, float64, int64, bool) {
	var scored int64
	for offset, score := range scores {
		scored++
		if score > threshold {
			return offset, score, scored, true
		}
	}
	return image.Point{}, 0, scored, false
}

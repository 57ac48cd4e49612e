package imageprocessor

import (
	"fmt"

	"github.com/corona10/goimagehash"

	"regionfinder/types"
)

// Diagnostics holds secondary metrics for a matched window.
// They are reported and logged, never used to decide a match.
type Diagnostics struct {
	MSE          float64
	HashDistance int
}

// Diagnose computes the MSE and the difference hash distance between two patches
func Diagnose(reference, window *types.Patch) (Diagnostics, error) {
	var diag Diagnostics

	mse, err := ComputeMSE(reference, window)
	if err != nil {
		return diag, err
	}
	diag.MSE = mse

	distance, err := HashDistance(reference, window)
	if err != nil {
		return diag, err
	}
	diag.HashDistance = distance

	return diag, nil
}

// HashDistance returns the Hamming distance between the difference hashes of two patches
func HashDistance(a, b *types.Patch) (int, error) {
	if a.Empty() || b.Empty() {
		return 0, fmt.Errorf("cannot hash empty patch")
	}

	hashA, err := goimagehash.DifferenceHash(PatchToImage(a))
	if err != nil {
		return 0, fmt.Errorf("cannot compute difference hash: %w", err)
	}

	hashB, err := goimagehash.DifferenceHash(PatchToImage(b))
	if err != nil {
		return 0, fmt.Errorf("cannot compute difference hash: %w", err)
	}

	return hashA.Distance(hashB)
}

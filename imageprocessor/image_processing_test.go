package imageprocessor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionfinder/types"
)

func solidPatch(width, height int, rgb [3]uint8) *types.Patch {
	p := types.NewPatch(width, height, 3)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			for ch := 0; ch < 3; ch++ {
				p.Set(row, col, ch, rgb[ch])
			}
		}
	}
	return p
}

func randomPatch(rng *rand.Rand, width, height, channels int) *types.Patch {
	p := types.NewPatch(width, height, channels)
	for i := range p.Pix {
		p.Pix[i] = uint8(rng.Intn(256))
	}
	return p
}

var (
	red  = [3]uint8{255, 0, 0}
	blue = [3]uint8{0, 0, 255}
)

func TestSSIMSelfSimilarity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	patches := map[string]*types.Patch{
		"solid":     solidPatch(4, 3, red),
		"random":    randomPatch(rng, 9, 5, 3),
		"gray":      randomPatch(rng, 6, 6, 1),
		"one pixel": randomPatch(rng, 1, 1, 3),
		"one row":   randomPatch(rng, 7, 1, 3),
	}

	for name, p := range patches {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 1.0, ComputeSSIM(p, p), 1e-12)
			assert.InDelta(t, 1.0, ComputeSSIM(p, p.Clone()), 1e-12)
		})
	}
}

func TestSSIMSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scorer := NewSSIMScorer()

	for i := 0; i < 20; i++ {
		a := randomPatch(rng, 5, 4, 3)
		b := randomPatch(rng, 5, 4, 3)

		ab := scorer.Score(a, b)
		ba := scorer.Score(b, a)
		assert.InDelta(t, ab, ba, 1e-12)
		assert.GreaterOrEqual(t, ab, -1.0)
		assert.LessOrEqual(t, ab, 1.0)
	}
}

func TestSSIMDistinguishesColors(t *testing.T) {
	score := ComputeSSIM(solidPatch(2, 2, red), solidPatch(2, 2, blue))
	// The green channel is zero in both and scores 1, the other two are near 0.
	assert.InDelta(t, 1.0/3.0, score, 0.01)
	assert.Less(t, score, 0.8)
}

func TestSSIMShapeMismatchScoresZero(t *testing.T) {
	a := solidPatch(2, 2, red)

	assert.Equal(t, 0.0, ComputeSSIM(a, solidPatch(3, 2, red)))
	assert.Equal(t, 0.0, ComputeSSIM(a, solidPatch(2, 3, red)))
	assert.Equal(t, 0.0, ComputeSSIM(a, types.NewPatch(2, 2, 1)))
	assert.Equal(t, 0.0, ComputeSSIM(a, nil))
	assert.Equal(t, 0.0, ComputeSSIM(types.NewPatch(0, 0, 3), types.NewPatch(0, 0, 3)))
}

func TestSSIMOnViewsMatchesCopies(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	big := randomPatch(rng, 10, 8, 3)
	ref := randomPatch(rng, 3, 2, 3)

	view := big.SubPatch(4, 5, 2, 3)
	assert.Equal(t, ComputeSSIM(ref, view.Clone()), ComputeSSIM(ref, view))
}

func TestScorerReusesBuffersAcrossSizes(t *testing.T) {
	scorer := NewSSIMScorer()
	small := solidPatch(2, 2, red)
	large := solidPatch(6, 6, blue)

	assert.InDelta(t, 1.0, scorer.Score(large, large), 1e-12)
	assert.InDelta(t, 1.0, scorer.Score(small, small), 1e-12)
	assert.InDelta(t, 1.0, scorer.Score(large, large), 1e-12)
}

func TestMSE(t *testing.T) {
	a := solidPatch(2, 1, [3]uint8{0, 0, 0})
	b := solidPatch(2, 1, [3]uint8{10, 10, 10})

	mse, err := ComputeMSE(a, b)
	require.NoError(t, err)
	// 6 samples of 10^2, divided by 2 pixels, not by channel count.
	assert.Equal(t, 300.0, mse)

	self, err := ComputeMSE(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, self)
}

func TestMSEOfAnyPatchWithItselfIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 5; i++ {
		p := randomPatch(rng, 1+rng.Intn(8), 1+rng.Intn(8), 3)
		mse, err := ComputeMSE(p, p)
		require.NoError(t, err)
		assert.Equal(t, 0.0, mse)
	}
}

func TestMSEShapeMismatch(t *testing.T) {
	_, err := ComputeMSE(solidPatch(2, 2, red), solidPatch(2, 3, red))
	assert.ErrorIs(t, err, types.ErrShapeMismatch)

	_, err = ComputeMSE(nil, solidPatch(2, 3, red))
	assert.ErrorIs(t, err, types.ErrShapeMismatch)
}

func TestDiagnoseIdenticalPatches(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := randomPatch(rng, 16, 16, 3)

	diag, err := Diagnose(p, p.Clone())
	require.NoError(t, err)
	assert.Equal(t, 0.0, diag.MSE)
	assert.Equal(t, 0, diag.HashDistance)
}

func TestDiagnoseShapeMismatch(t *testing.T) {
	_, err := Diagnose(solidPatch(2, 2, red), solidPatch(4, 4, red))
	assert.ErrorIs(t, err, types.ErrShapeMismatch)
}

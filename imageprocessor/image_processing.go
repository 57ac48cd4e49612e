package imageprocessor

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"regionfinder/types"
)

// SSIM stabilisation constants for 8-bit samples (K1 = 0.01, K2 = 0.03, L = 255)
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)
)

// SSIMScorer computes the structural similarity of equally shaped patches.
// It keeps per-channel buffers between calls, so a scorer must not be shared
// between goroutines.
type SSIMScorer struct {
	bufA []float64
	bufB []float64
}

// NewSSIMScorer creates a scorer with empty buffers
func NewSSIMScorer() *SSIMScorer {
	return &SSIMScorer{}
}

// Score returns the mean over channels of the SSIM computed on the whole patch.
// Patches of different shape, or empty patches, score 0.
func (s *SSIMScorer) Score(a, b *types.Patch) float64 {
	if a.Empty() || b.Empty() || !a.SameShape(b) {
		return 0.0
	}

	n := a.Width * a.Height
	if cap(s.bufA) < n {
		s.bufA = make([]float64, n)
		s.bufB = make([]float64, n)
	}
	x, y := s.bufA[:n], s.bufB[:n]

	var total float64
	for ch := 0; ch < a.Channels; ch++ {
		fillChannel(x, a, ch)
		fillChannel(y, b, ch)
		total += channelSSIM(x, y)
	}

	return total / float64(a.Channels)
}

// ComputeSSIM scores two patches with a fresh scorer
func ComputeSSIM(a, b *types.Patch) float64 {
	return NewSSIMScorer().Score(a, b)
}

// ComputeMSE returns the squared sample difference summed over all channels,
// divided by the pixel count (height * width)
func ComputeMSE(a, b *types.Patch) (float64, error) {
	if a.Empty() || b.Empty() {
		return 0, fmt.Errorf("%w: cannot compare empty patches", types.ErrShapeMismatch)
	}
	if !a.SameShape(b) {
		return 0, fmt.Errorf("%w: %s vs %s", types.ErrShapeMismatch, a, b)
	}

	var sum float64
	for row := 0; row < a.Height; row++ {
		rowA := a.Pix[row*a.Stride : row*a.Stride+a.Width*a.Channels]
		rowB := b.Pix[row*b.Stride : row*b.Stride+b.Width*b.Channels]
		for i := range rowA {
			d := float64(rowA[i]) - float64(rowB[i])
			sum += d * d
		}
	}

	return sum / float64(a.Height*a.Width), nil
}

// channelSSIM evaluates the SSIM formula over one channel treated as a single window.
// Variance and covariance use the sample (n-1) estimator; one-sample channels have none.
func channelSSIM(x, y []float64) float64 {
	var meanX, meanY, varX, varY, cov float64
	if len(x) < 2 {
		meanX, meanY = x[0], y[0]
	} else {
		meanX, varX = stat.MeanVariance(x, nil)
		meanY, varY = stat.MeanVariance(y, nil)
		cov = stat.Covariance(x, y, nil)
	}

	num := (2*meanX*meanY + ssimC1) * (2*cov + ssimC2)
	den := (meanX*meanX + meanY*meanY + ssimC1) * (varX + varY + ssimC2)
	return num / den
}

func fillChannel(dst []float64, p *types.Patch, ch int) {
	i := 0
	for row := 0; row < p.Height; row++ {
		base := row * p.Stride
		for col := 0; col < p.Width; col++ {
			dst[i] = float64(p.Pix[base+col*p.Channels+ch])
			i++
		}
	}
}

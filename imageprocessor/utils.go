package imageprocessor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"regionfinder/types"
)

// PatchFromImage converts an image into a patch with 1 (luma), 3 (RGB) or 4 (RGBA) channels.
// Samples are taken from the non-premultiplied NRGBA representation.
func PatchFromImage(img image.Image, channels int) (*types.Patch, error) {
	if img == nil {
		return nil, fmt.Errorf("cannot convert nil image")
	}
	switch channels {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}

	nrgba := imaging.Clone(img)
	width, height := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	patch := types.NewPatch(width, height, channels)

	for row := 0; row < height; row++ {
		src := nrgba.Pix[row*nrgba.Stride : row*nrgba.Stride+width*4]
		dst := patch.Pix[row*patch.Stride : row*patch.Stride+width*channels]
		for col := 0; col < width; col++ {
			r, g, b, a := src[col*4], src[col*4+1], src[col*4+2], src[col*4+3]
			switch channels {
			case 1:
				dst[col] = luma(r, g, b)
			case 3:
				dst[col*3], dst[col*3+1], dst[col*3+2] = r, g, b
			case 4:
				dst[col*4], dst[col*4+1], dst[col*4+2], dst[col*4+3] = r, g, b, a
			}
		}
	}

	return patch, nil
}

// PatchToImage renders a patch as an opaque NRGBA image (alpha is kept for 4-channel patches)
func PatchToImage(p *types.Patch) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for row := 0; row < p.Height; row++ {
		for col := 0; col < p.Width; col++ {
			i := row*img.Stride + col*4
			switch p.Channels {
			case 1:
				v := p.At(row, col, 0)
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 0xff
			case 4:
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] =
					p.At(row, col, 0), p.At(row, col, 1), p.At(row, col, 2), p.At(row, col, 3)
			default:
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] =
					p.At(row, col, 0), p.At(row, col, 1), p.At(row, col, 2), 0xff
			}
		}
	}
	return img
}

// luma uses the ITU-R 601-2 weights, rounded to the nearest integer
func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

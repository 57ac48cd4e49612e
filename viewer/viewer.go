// Package viewer is the OpenCV side of the tool: interactive region
// selection, display of a match and an OpenCV backed image loader.
package viewer

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"regionfinder/logging"
	"regionfinder/selection"
	"regionfinder/types"
)

const (
	selectWindowName = "RegionFinder - select region"
	matchWindowName  = "RegionFinder - match"
)

var matchColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// SelectRegion shows the image at path and lets the user drag a rectangle.
// Confirm with SPACE or ENTER, cancel with c. A cancelled or empty selection
// returns types.ErrInvalidReference.
func SelectRegion(path string) (types.Selection, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return types.Selection{}, fmt.Errorf("%w: failed to open %s", types.ErrDecodeFailure, path)
	}
	defer img.Close()

	window := gocv.NewWindow(selectWindowName)
	defer window.Close()

	// SelectROI reports the finished drag only, as its two corners
	roi := gocv.SelectROI(selectWindowName, img)
	rect := selection.FromEvents(roi.Min, nil, roi.Max)
	logging.DebugLog("Selected region %s in %s", selection.FormatRect(rect), path)

	sel := types.Selection{Start: rect.Min, End: rect.Max}
	if sel.Empty() {
		return types.Selection{}, fmt.Errorf("%w: no region selected", types.ErrInvalidReference)
	}
	return sel, nil
}

// ShowMatch opens the matched image with the matching window outlined and
// waits for a key press.
func ShowMatch(match types.RegionMatch, size image.Point) error {
	img := gocv.IMRead(match.Path, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("%w: failed to open %s", types.ErrDecodeFailure, match.Path)
	}
	defer img.Close()

	rect := image.Rectangle{Min: match.Offset, Max: match.Offset.Add(size)}
	gocv.Rectangle(&img, rect, matchColor, 1)
	gocv.PutText(&img, fmt.Sprintf("SSIM %.3f", match.SSIMScore), labelOrigin(rect),
		gocv.FontHersheyPlain, 1.0, matchColor, 1)

	window := gocv.NewWindow(matchWindowName)
	defer window.Close()

	window.IMShow(img)
	window.WaitKey(0)
	return nil
}

// labelOrigin puts the score above the rectangle, or below it at the top edge
func labelOrigin(rect image.Rectangle) image.Point {
	if rect.Min.Y >= 14 {
		return image.Pt(rect.Min.X, rect.Min.Y-4)
	}
	return image.Pt(rect.Min.X, rect.Max.Y+14)
}

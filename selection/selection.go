// Package selection turns pointer events into a normalized rectangle and
// extracts the reference patch it covers.
package selection

import (
	"fmt"
	"image"
	"sync"

	"regionfinder/logging"
	"regionfinder/types"
)

// Tracker follows one drag interaction: pointer down, any number of moves, pointer up.
// It is safe for use from the event goroutine of a UI and a reader goroutine.
type Tracker struct {
	mu       sync.Mutex
	current  types.Selection
	active   bool
	complete bool
	onDrag   func(start, end image.Point)
}

// NewTracker creates a tracker. onDrag, if not nil, is called on every move
// with the drag start and the current pointer position.
func NewTracker(onDrag func(start, end image.Point)) *Tracker {
	return &Tracker{onDrag: onDrag}
}

// Begin records where the pointer went down and discards any previous selection
func (t *Tracker) Begin(p image.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = types.Selection{Start: p, End: p}
	t.active = true
	t.complete = false
}

// Update moves the free corner of the selection while the pointer is down
func (t *Tracker) Update(p image.Point) {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.current.End = p
	start := t.current.Start
	onDrag := t.onDrag
	t.mu.Unlock()

	if onDrag != nil {
		onDrag(start, p)
	}
}

// End finishes the drag at p
func (t *Tracker) End(p image.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return
	}
	t.current.End = p
	t.active = false
	t.complete = true
}

// Selection returns the current selection and whether a drag has completed
func (t *Tracker) Selection() (types.Selection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current, t.complete
}

// FromEvents replays a pointer-down, moves and pointer-up sequence and returns
// the normalized rectangle
func FromEvents(down image.Point, moves []image.Point, up image.Point) image.Rectangle {
	t := NewTracker(nil)
	t.Begin(down)
	for _, p := range moves {
		t.Update(p)
	}
	t.End(up)
	sel, _ := t.Selection()
	return sel.Normalize()
}

// ExtractReference copies the pixels of source covered by sel into a new patch.
// The rectangle is clipped to the image; a selection with no area left is rejected
// with types.ErrInvalidReference.
func ExtractReference(source *types.Patch, sel types.Selection) (*types.Patch, error) {
	if source.Empty() {
		return nil, fmt.Errorf("%w: source image is empty", types.ErrInvalidReference)
	}
	rect := sel.Normalize()
	if rect.Empty() {
		return nil, fmt.Errorf("%w: selection %v has zero area", types.ErrInvalidReference, rect)
	}

	view, err := source.Crop(rect)
	if err != nil {
		return nil, err
	}
	if view.Width != rect.Dx() || view.Height != rect.Dy() {
		logging.LogWarning("Selection %s exceeds the %dx%d image, using %dx%d pixels",
			FormatRect(rect), source.Width, source.Height, view.Width, view.Height)
	}
	return view.Clone(), nil
}

// ParseRect parses "x0,y0,x1,y1" into a selection
func ParseRect(s string) (types.Selection, error) {
	var x0, y0, x1, y1 int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x0, &y0, &x1, &y1); err != nil {
		return types.Selection{}, fmt.Errorf("invalid rectangle %q, expected x0,y0,x1,y1: %w", s, err)
	}
	return types.Selection{Start: image.Pt(x0, y0), End: image.Pt(x1, y1)}, nil
}

// FormatRect renders a rectangle in the form accepted by ParseRect
func FormatRect(r image.Rectangle) string {
	return fmt.Sprintf("%d,%d,%d,%d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

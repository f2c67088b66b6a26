package overlay

import "github.com/dmitrijs2005/fruitpie/internal/client/ui"

// PointerEvent is a pointer-down on the page. Target is the element under
// the pointer; X and Y are page coordinates. Either may be unused depending
// on the Region kind.
type PointerEvent struct {
	Target *ui.Element
	X, Y   float64
}

// Region is a dialog's content area for hit testing.
type Region interface {
	Contains(ev PointerEvent) bool
}

// ElementRegion hits when the event target is Root or any of its descendants.
type ElementRegion struct {
	Root *ui.Element
}

func (r ElementRegion) Contains(ev PointerEvent) bool {
	return r.Root != nil && r.Root.Contains(ev.Target)
}

// Rect hits when the event point falls inside the rectangle. The left and
// top edges are inclusive, the right and bottom edges exclusive.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(ev PointerEvent) bool {
	return ev.X >= r.X && ev.X < r.X+r.Width &&
		ev.Y >= r.Y && ev.Y < r.Y+r.Height
}

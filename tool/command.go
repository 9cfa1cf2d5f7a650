package tool

import (
	"scrawl/geom"
	"scrawl/shape"
)

// Command is a side effect produced by a transition.
type Command interface {
	command()
}

// CreateShape adds a new, uncommitted shape to the page.
type CreateShape struct {
	Shape *shape.Shape
}

// UpdateShapes replaces shapes already on the page.
type UpdateShapes struct {
	Shapes []*shape.Shape
}

// CommitShape marks a created shape as finished.
type CommitShape struct {
	ID string
}

// DiscardShape removes a shape that was never committed.
type DiscardShape struct {
	ID string
}

// DeselectAll clears the selection.
type DeselectAll struct{}

// SelectShapes selects IDs, replacing the selection unless Add is set.
type SelectShapes struct {
	IDs []string
	Add bool
}

func (CreateShape) command()  {}
func (UpdateShapes) command() {}
func (CommitShape) command()  {}
func (DiscardShape) command() {}
func (DeselectAll) command()  {}
func (SelectShapes) command() {}

// Applier carries out commands, normally against a page.
type Applier interface {
	Apply(cmd Command) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(cmd Command) error

// Apply calls f.
func (f ApplierFunc) Apply(cmd Command) error { return f(cmd) }

// Scene is the read side of the page that tools query.
type Scene interface {
	// NextChildIndex returns an ordering key above every existing shape.
	NextChildIndex() float64
	// ShapeAt returns the topmost shape under p, or nil.
	ShapeAt(p geom.Point) *shape.Shape
	// ShapesIn returns the shapes a brush over b selects.
	ShapesIn(b geom.Bounds) []*shape.Shape
	// Selected returns the selected shapes in draw order.
	Selected() []*shape.Shape
	// SelectionBounds encloses the selection, false when nothing is selected.
	SelectionBounds() (geom.Bounds, bool)
}

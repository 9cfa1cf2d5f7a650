// Package shape holds the shape model and the per-type operation registry.
//
// Shapes are treated as values: every operation returns a new *Shape and
// never modifies its input. Each shape carries a geometry revision that is
// replaced whenever its size or points change; caches key on (ID, Rev).
package shape

import (
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"scrawl/geom"
)

// Type tags a shape with the operation table that serves it.
type Type string

const (
	TypeRectangle Type = "rectangle"
	TypeEllipse   Type = "ellipse"
	TypeDraw      Type = "draw"
	TypeGrid      Type = "grid"
	TypeChart     Type = "chart"
)

// DefaultParentID is the id of the page shapes belong to unless told otherwise.
const DefaultParentID = "page"

// Shape is a typed, positioned, styled entity on a page.
//
// Point is the top-left anchor. Size is used by box-like types and Points
// (relative to Point) by freehand types. Rotation is in radians and is
// applied about the center of the un-rotated bounds at read time.
type Shape struct {
	ID         string
	Type       Type
	Name       string
	ParentID   string
	ChildIndex float64

	Point    geom.Point
	Rotation float64
	Size     geom.Point
	Points   []geom.Point

	Style   *Style
	AssetID string

	IsLocked            bool
	IsHidden            bool
	IsGenerated         bool
	IsAspectRatioLocked bool

	rev uint64
}

var revCounter atomic.Uint64

func nextRev() uint64 { return revCounter.Add(1) }

// Rev returns the shape's geometry revision.
func (s *Shape) Rev() uint64 { return s.rev }

// Clone returns a shallow copy. The points slice is shared; it is never
// modified in place.
func (s *Shape) Clone() *Shape {
	c := *s
	return &c
}

// touch stamps a new geometry revision.
func (s *Shape) touch() { s.rev = nextRev() }

func newID() string { return uuid.NewString() }

// Option overrides a property when creating a shape.
type Option func(*Shape)

// WithID sets the shape id instead of generating one.
func WithID(id string) Option {
	return func(s *Shape) { s.ID = id }
}

// WithName sets the display name.
func WithName(name string) Option {
	return func(s *Shape) { s.Name = name }
}

// WithPoint sets the anchor point.
func WithPoint(p geom.Point) Option {
	return func(s *Shape) { s.Point = geom.ToPrecision(p) }
}

// WithSize sets the box size of box-like shapes.
func WithSize(w, h float64) Option {
	return func(s *Shape) { s.Size = geom.Pt(w, h) }
}

// WithPoints sets the captured points of a freehand shape.
func WithPoints(points []geom.Point) Option {
	return func(s *Shape) { s.Points = slices.Clone(points) }
}

// WithRotation sets the rotation in radians.
func WithRotation(r float64) Option {
	return func(s *Shape) { s.Rotation = r }
}

// WithStyle overrides fields of the default style.
func WithStyle(patch StylePatch) Option {
	return func(s *Shape) { s.Style = s.Style.With(patch) }
}

// WithAssetID references an asset.
func WithAssetID(id string) Option {
	return func(s *Shape) { s.AssetID = id }
}

// WithParent sets the parent id.
func WithParent(id string) Option {
	return func(s *Shape) { s.ParentID = id }
}

// WithChildIndex sets the ordering key among siblings.
func WithChildIndex(i float64) Option {
	return func(s *Shape) { s.ChildIndex = i }
}

// WithAspectRatioLocked locks the aspect ratio during transforms.
func WithAspectRatioLocked(locked bool) Option {
	return func(s *Shape) { s.IsAspectRatioLocked = locked }
}

package shape

import (
	"scrawl/asset"
	"scrawl/geom"
)

// DrawableKind selects the primitive a renderer draws.
type DrawableKind int

const (
	DrawDot DrawableKind = iota
	DrawPath
	DrawRect
	DrawEllipse
	DrawEmbed
)

func (k DrawableKind) String() string {
	switch k {
	case DrawDot:
		return "dot"
	case DrawPath:
		return "path"
	case DrawRect:
		return "rect"
	case DrawEllipse:
		return "ellipse"
	case DrawEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// Drawable describes how to draw a shape. Geometry is in shape-local space;
// use ToWorld to place it on the page.
type Drawable struct {
	Kind    DrawableKind
	ShapeID string

	// Point, Rotation and Pivot place local geometry: rotate about Pivot,
	// then translate by Point.
	Point    geom.Point
	Rotation float64
	Pivot    geom.Point

	// Center and Radius describe a dot.
	Center geom.Point
	Radius float64

	// Size is the box of a rect, ellipse or embed.
	Size geom.Point

	// Outline is the filled polygon of a path and Path its SVG encoding.
	Outline []geom.Point
	Path    string

	Color       Color
	StrokeWidth float64
	Dash        Dash
	Filled      bool

	Embed *Embed
}

// Embed is the data request of an embedded widget, together with how far
// its resolution has progressed.
type Embed struct {
	AssetID string
	Status  asset.Status
	Grid    *asset.Grid
	Chart   *asset.Chart
}

// Loading reports whether the embed should show its loading visual.
func (e *Embed) Loading() bool {
	return e.Status.State == asset.StateLoading
}

// Failed reports whether the embed should show its error visual.
func (e *Embed) Failed() bool {
	return e.Status.State == asset.StateError
}

// ToWorld maps a point in the drawable's local space to page coordinates.
func (d Drawable) ToWorld(p geom.Point) geom.Point {
	return geom.RotateAbout(p, d.Pivot, d.Rotation).Add(d.Point)
}

func baseDrawable(kind DrawableKind, s *Shape, local geom.Bounds) Drawable {
	style := s.Style
	if style == nil {
		style = DefaultStyle
	}
	return Drawable{
		Kind:        kind,
		ShapeID:     s.ID,
		Point:       s.Point,
		Rotation:    s.Rotation,
		Pivot:       geom.BoundsCenter(local),
		Color:       style.Color,
		StrokeWidth: style.StrokeWidth(),
		Dash:        style.Dash,
		Filled:      style.IsFilled,
	}
}

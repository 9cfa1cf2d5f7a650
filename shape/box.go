package shape

import (
	"math"

	"scrawl/geom"
)

func (r *Registry) create(u *Util, name string, opts []Option) *Shape {
	s := &Shape{
		Type:     u.Type,
		Name:     name,
		ParentID: DefaultParentID,
		Style:    DefaultStyle,
	}
	if !u.freehand {
		s.Size = geom.Pt(1, 1)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = newID()
	}
	s.Type = u.Type
	if u.freehand {
		s.Size = geom.Point{}
	} else {
		s.Points = nil
	}
	s.Style = u.normalizeStyle(s.Style)
	s.touch()
	return s
}

// boxLocal returns the cached un-translated bounds of a box-like shape.
func (r *Registry) boxLocal(s *Shape) geom.Bounds {
	return r.bounds.Get(s, func(s *Shape) geom.Bounds {
		return geom.BoundsFromRect(0, 0, s.Size.X, s.Size.Y)
	})
}

func (r *Registry) boxBounds(s *Shape) geom.Bounds {
	return geom.TranslateBounds(r.boxLocal(s), s.Point)
}

// keepsAspect reports whether s may only be scaled uniformly.
func (r *Registry) keepsAspect(s *Shape) bool {
	if s.IsAspectRatioLocked {
		return true
	}
	u, err := r.Lookup(s.Type)
	return err == nil && !u.CanChangeAspectRatio
}

// transformBox resizes a box-like shape as part of a group. Rotated and
// aspect-locked shapes keep their proportions, scaling uniformly about the
// transform origin; flipping a single axis mirrors their rotation.
func (r *Registry) transformBox(s *Shape, target geom.Bounds, info TransformInfo) (*Shape, error) {
	if _, err := r.initialBounds(info); err != nil {
		return nil, err
	}
	if info.Initial.Rotation == 0 && !r.keepsAspect(info.Initial) {
		return fitBox(s, target), nil
	}
	return scaleBox(s, target, info), nil
}

// transformSingleBox maps a box-like shape resized on its own straight onto
// target, unless its aspect ratio is fixed.
func (r *Registry) transformSingleBox(s *Shape, target geom.Bounds, info TransformInfo) (*Shape, error) {
	if _, err := r.initialBounds(info); err != nil {
		return nil, err
	}
	if r.keepsAspect(info.Initial) {
		return scaleBox(s, target, info), nil
	}
	return fitBox(s, target), nil
}

func fitBox(s *Shape, target geom.Bounds) *Shape {
	next := s.Clone()
	next.Point = geom.ToPrecision(geom.Pt(target.MinX, target.MinY))
	next.Size = geom.ToPrecision(geom.Pt(target.Width, target.Height))
	next.touch()
	return next
}

// scaleBox scales the initial shape by the smaller of the two scale factors
// and places it in target at the transform origin.
func scaleBox(s *Shape, target geom.Bounds, info TransformInfo) *Shape {
	initial := info.Initial
	next := s.Clone()

	k := math.Min(math.Abs(info.ScaleX), math.Abs(info.ScaleY))
	size := geom.ToPrecision(initial.Size.Mul(k))
	ox, oy := info.Origin.X, info.Origin.Y
	if info.ScaleX < 0 {
		ox = 1 - ox
	}
	if info.ScaleY < 0 {
		oy = 1 - oy
	}
	next.Size = size
	next.Point = geom.ToPrecision(geom.Pt(
		target.MinX+(target.Width-size.X)*ox,
		target.MinY+(target.Height-size.Y)*oy,
	))
	next.Rotation = initial.Rotation
	if (info.ScaleX < 0) != (info.ScaleY < 0) {
		next.Rotation = -initial.Rotation
	}
	next.touch()
	return next
}

func (r *Registry) rectangleUtil() *Util {
	u := &Util{
		Type:                 TypeRectangle,
		DefaultSize:          geom.Pt(100, 100),
		CanTransform:         true,
		CanChangeAspectRatio: true,
		CanStyleFill:         true,
		Bounds:               r.boxBounds,
		Transform:            r.transformBox,
		TransformSingle:      r.transformSingleBox,
	}
	u.Create = func(opts ...Option) *Shape { return r.create(u, "Rectangle", opts) }
	u.Render = func(s *Shape) Drawable {
		d := baseDrawable(DrawRect, s, r.boxLocal(s))
		d.Size = s.Size
		return d
	}
	return u
}

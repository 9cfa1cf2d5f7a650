package shape

import (
	"scrawl/geom"
	"scrawl/stroke"
)

// dotRatio scales the stroke width to the radius of a single-point stroke.
const dotRatio = 0.618

func (r *Registry) drawUtil() *Util {
	u := &Util{
		Type:                 TypeDraw,
		CanTransform:         true,
		CanChangeAspectRatio: true,
		freehand:             true,
	}
	u.normalizeStyle = func(st *Style) *Style {
		if !st.IsFilled && st.Dash == DashSolid {
			return st
		}
		return st.With(StylePatch{IsFilled: Ref(false), Dash: Ref(DashSolid)})
	}
	u.Create = func(opts ...Option) *Shape { return r.create(u, "Draw", opts) }
	u.Bounds = func(s *Shape) geom.Bounds {
		return geom.TranslateBounds(r.drawLocal(s), s.Point)
	}
	u.RotatedBounds = func(s *Shape) geom.Bounds {
		if s.Rotation == 0 {
			return u.Bounds(s)
		}
		return geom.TranslateBounds(geom.BoundsFromPoints(r.rotatedPoints(s)), s.Point)
	}
	u.HitTest = func(s *Shape, p geom.Point) bool {
		q := p.Sub(s.Point)
		if s.Rotation != 0 {
			q = geom.RotateAbout(q, geom.BoundsCenter(r.drawLocal(s)), -s.Rotation)
		}
		w := s.Style.StrokeWidth()
		switch len(s.Points) {
		case 0:
			return false
		case 1:
			return geom.Dist(s.Points[0], q) <= w
		}
		for i := 1; i < len(s.Points); i++ {
			if geom.DistanceToSegment(s.Points[i-1], s.Points[i], q) <= w {
				return true
			}
		}
		return false
	}
	u.HitTestBounds = func(s *Shape, brush geom.Bounds) bool {
		corners := geom.RotatedCorners(u.Bounds(s), s.Rotation)
		if geom.BoundsContainsPolygon(brush, corners) {
			return true
		}
		world := r.rotatedPoints(s)
		for i := range world {
			world[i] = world[i].Add(s.Point)
		}
		if len(world) == 1 {
			return geom.BoundsContainsPoint(brush, world[0])
		}
		return geom.PolylineIntersectsBounds(world, brush)
	}
	u.Transform = func(s *Shape, target geom.Bounds, info TransformInfo) (*Shape, error) {
		ib, err := r.initialBounds(info)
		if err != nil {
			return nil, err
		}
		points := make([]geom.Point, len(info.Initial.Points))
		for i, p := range info.Initial.Points {
			x, y := p.X-ib.MinX, p.Y-ib.MinY
			if ib.Width > 0 {
				x = target.Width * x / ib.Width
				if info.ScaleX < 0 {
					x = target.Width - x
				}
			}
			if ib.Height > 0 {
				y = target.Height * y / ib.Height
				if info.ScaleY < 0 {
					y = target.Height - y
				}
			}
			points[i] = geom.ToPrecision(geom.Pt(x, y))
		}
		nb := geom.BoundsFromPoints(points)

		next := s.Clone()
		next.Points = points
		next.Point = geom.ToPrecision(geom.Pt(target.MinX-nb.MinX, target.MinY-nb.MinY))
		next.touch()
		return next, nil
	}
	u.Render = func(s *Shape) Drawable {
		d := baseDrawable(DrawPath, s, r.drawLocal(s))
		if len(s.Points) < 2 {
			d.Kind = DrawDot
			d.Radius = d.StrokeWidth * dotRatio
			if len(s.Points) == 1 {
				d.Center = s.Points[0]
			}
			return d
		}
		d.Outline = r.strokes.Outline(
			stroke.Key{Owner: s.ID, Rev: s.rev},
			s.Points,
			stroke.DefaultOptions(d.StrokeWidth),
		)
		d.Path = stroke.SVGPath(d.Outline)
		return d
	}
	return u
}

// drawLocal returns the cached un-translated bounds of a freehand shape.
func (r *Registry) drawLocal(s *Shape) geom.Bounds {
	return r.bounds.Get(s, func(s *Shape) geom.Bounds {
		return geom.BoundsFromPoints(s.Points)
	})
}

// rotatedPoints returns the shape's points rotated about the center of its
// un-rotated bounds, still relative to s.Point.
func (r *Registry) rotatedPoints(s *Shape) []geom.Point {
	c := geom.BoundsCenter(r.drawLocal(s))
	out := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = geom.RotateAbout(p, c, s.Rotation)
	}
	return out
}

// AppendPoint returns a freehand shape with p, given in page coordinates,
// added to its captured points. The points slice is copied and the geometry
// revision replaced, so outlines memoized for the old sequence are not reused.
func AppendPoint(s *Shape, p geom.Point) *Shape {
	next := s.Clone()
	local := geom.ToPrecision(p.Sub(s.Point))
	points := make([]geom.Point, len(s.Points), len(s.Points)+1)
	copy(points, s.Points)
	next.Points = append(points, local)
	next.touch()
	return next
}

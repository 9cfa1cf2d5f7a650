package shape

import (
	"math"

	"scrawl/geom"
)

const ellipseSegments = 32

func (r *Registry) ellipseUtil() *Util {
	u := &Util{
		Type:                 TypeEllipse,
		DefaultSize:          geom.Pt(100, 100),
		CanTransform:         true,
		CanChangeAspectRatio: true,
		CanStyleFill:         true,
		Bounds:               r.boxBounds,
		Transform:            r.transformBox,
		TransformSingle:      r.transformSingleBox,
	}
	u.Create = func(opts ...Option) *Shape { return r.create(u, "Ellipse", opts) }
	u.Render = func(s *Shape) Drawable {
		local := r.boxLocal(s)
		d := baseDrawable(DrawEllipse, s, local)
		d.Size = s.Size
		d.Center = geom.BoundsCenter(local)
		return d
	}
	u.HitTest = func(s *Shape, p geom.Point) bool {
		local := r.boxLocal(s)
		c := geom.BoundsCenter(local)
		q := geom.RotateAbout(p.Sub(s.Point), c, -s.Rotation).Sub(c)
		pad := s.Style.StrokeWidth() / 2
		rx, ry := local.Width/2+pad, local.Height/2+pad
		return (q.X*q.X)/(rx*rx)+(q.Y*q.Y)/(ry*ry) <= 1
	}
	u.HitTestBounds = func(s *Shape, brush geom.Bounds) bool {
		poly := ellipsePolygon(r.boxLocal(s), s)
		return geom.BoundsContainsPolygon(brush, poly) ||
			geom.PolygonIntersectsBounds(poly, brush)
	}
	return u
}

// ellipsePolygon approximates the ellipse inscribed in local, in page space.
func ellipsePolygon(local geom.Bounds, s *Shape) []geom.Point {
	c := geom.BoundsCenter(local)
	rx, ry := local.Width/2, local.Height/2
	poly := make([]geom.Point, ellipseSegments)
	for i := range poly {
		t := 2 * math.Pi * float64(i) / ellipseSegments
		p := geom.Pt(c.X+rx*math.Cos(t), c.Y+ry*math.Sin(t))
		poly[i] = geom.RotateAbout(p, c, s.Rotation).Add(s.Point)
	}
	return poly
}

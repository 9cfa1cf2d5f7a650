package geom

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 share at least
// one point. Collinear overlapping segments intersect.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(b1, b2, a1):
		return true
	case d2 == 0 && onSegment(b1, b2, a2):
		return true
	case d3 == 0 && onSegment(a1, a2, b1):
		return true
	case d4 == 0 && onSegment(a1, a2, b2):
		return true
	}
	return false
}

func orient(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment assumes p is collinear with a-b.
func onSegment(a, b, p Point) bool {
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}

// PolylineIntersectsBounds reports whether any segment of the open polyline
// crosses or touches an edge of b.
func PolylineIntersectsBounds(polyline []Point, b Bounds) bool {
	return segmentsCrossBounds(polyline, b, false)
}

// PolygonIntersectsBounds reports whether the closed polygon's contour
// crosses or touches an edge of b.
func PolygonIntersectsBounds(polygon []Point, b Bounds) bool {
	return segmentsCrossBounds(polygon, b, true)
}

func segmentsCrossBounds(points []Point, b Bounds, closed bool) bool {
	n := len(points)
	if n == 0 {
		return false
	}
	if n == 1 {
		return onBoundsEdge(b, points[0])
	}
	corners := BoundsCorners(b)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, c := points[i], points[(i+1)%n]
		for j := range corners {
			if SegmentsIntersect(a, c, corners[j], corners[(j+1)%4]) {
				return true
			}
		}
	}
	return false
}

func onBoundsEdge(b Bounds, p Point) bool {
	if !BoundsContainsPoint(b, p) {
		return false
	}
	return p.X == b.MinX || p.X == b.MaxX || p.Y == b.MinY || p.Y == b.MaxY
}

// PointInPolygon reports whether p lies inside the closed polygon using the
// even-odd rule.
func PointInPolygon(polygon []Point, p Point) bool {
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

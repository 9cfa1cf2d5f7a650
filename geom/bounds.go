package geom

import "math"

// Bounds is an axis-aligned bounding box.
// Width and Height always equal MaxX-MinX and MaxY-MinY and are never negative.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	Width, Height          float64
}

// NewBounds builds a normalized Bounds from two opposite corners.
func NewBounds(a, b Point) Bounds {
	return makeBounds(
		math.Min(a.X, b.X), math.Min(a.Y, b.Y),
		math.Max(a.X, b.X), math.Max(a.Y, b.Y),
	)
}

// BoundsFromRect builds Bounds from a top-left corner and a size.
// Negative sizes are normalized.
func BoundsFromRect(x, y, w, h float64) Bounds {
	return NewBounds(Pt(x, y), Pt(x+w, y+h))
}

func makeBounds(minX, minY, maxX, maxY float64) Bounds {
	return Bounds{
		MinX: minX, MinY: minY,
		MaxX: maxX, MaxY: maxY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// BoundsFromPoints returns the bounds enclosing points.
// An empty sequence yields zero-size bounds at the origin.
func BoundsFromPoints(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return makeBounds(minX, minY, maxX, maxY)
}

// TranslateBounds moves b by delta.
func TranslateBounds(b Bounds, delta Point) Bounds {
	return makeBounds(b.MinX+delta.X, b.MinY+delta.Y, b.MaxX+delta.X, b.MaxY+delta.Y)
}

// BoundsCenter returns the center of b.
func BoundsCenter(b Bounds) Point {
	return Point{X: b.MinX + b.Width/2, Y: b.MinY + b.Height/2}
}

// BoundsCorners returns the four corners of b, clockwise from the top-left.
func BoundsCorners(b Bounds) []Point {
	return []Point{
		{b.MinX, b.MinY},
		{b.MaxX, b.MinY},
		{b.MaxX, b.MaxY},
		{b.MinX, b.MaxY},
	}
}

// RotatedCorners returns the corners of b rotated about its center.
func RotatedCorners(b Bounds, rotation float64) []Point {
	center := BoundsCenter(b)
	corners := BoundsCorners(b)
	for i, c := range corners {
		corners[i] = RotateAbout(c, center, rotation)
	}
	return corners
}

// Union returns the smallest bounds enclosing both a and b.
func Union(a, b Bounds) Bounds {
	return makeBounds(
		math.Min(a.MinX, b.MinX), math.Min(a.MinY, b.MinY),
		math.Max(a.MaxX, b.MaxX), math.Max(a.MaxY, b.MaxY),
	)
}

// Intersection returns the overlap of a and b and whether they overlap at all.
// Bounds that only touch along an edge overlap with zero area.
func Intersection(a, b Bounds) (Bounds, bool) {
	minX, minY := math.Max(a.MinX, b.MinX), math.Max(a.MinY, b.MinY)
	maxX, maxY := math.Min(a.MaxX, b.MaxX), math.Min(a.MaxY, b.MaxY)
	if minX > maxX || minY > maxY {
		return Bounds{}, false
	}
	return makeBounds(minX, minY, maxX, maxY), true
}

// Expand grows b by delta on every side.
func Expand(b Bounds, delta float64) Bounds {
	return makeBounds(b.MinX-delta, b.MinY-delta, b.MaxX+delta, b.MaxY+delta)
}

// BoundsContainsPoint reports whether p lies inside or on the edge of b.
func BoundsContainsPoint(b Bounds, p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// BoundsContains reports whether inner lies entirely inside outer.
func BoundsContains(outer, inner Bounds) bool {
	return inner.MinX >= outer.MinX && inner.MaxX <= outer.MaxX &&
		inner.MinY >= outer.MinY && inner.MaxY <= outer.MaxY
}

// BoundsContainsPolygon reports whether every vertex of polygon lies inside b.
func BoundsContainsPolygon(b Bounds, polygon []Point) bool {
	if len(polygon) == 0 {
		return false
	}
	for _, p := range polygon {
		if !BoundsContainsPoint(b, p) {
			return false
		}
	}
	return true
}

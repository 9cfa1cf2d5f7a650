// Package geom is the vector math shared by shapes, tools and the stroke
// synthesizer. Every function is pure; degenerate input yields a degenerate
// result rather than an error.
package geom

import "math"

// Precision is the number of decimal places kept by ToPrecision.
const Precision = 4

// Point is a 2D position or displacement in page units.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Neg returns the negated vector.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Len returns the length of the vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Unit returns a unit vector in the same direction.
// The zero vector stays zero.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Per returns the perpendicular vector (rotated 90 degrees clockwise in
// screen space).
func (p Point) Per() Point {
	return Point{X: p.Y, Y: -p.X}
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Approx reports whether two points are within epsilon on both axes.
func (p Point) Approx(q Point, epsilon float64) bool {
	return math.Abs(p.X-q.X) <= epsilon && math.Abs(p.Y-q.Y) <= epsilon
}

// Add returns a + b.
func Add(a, b Point) Point { return a.Add(b) }

// Sub returns a - b.
func Sub(a, b Point) Point { return a.Sub(b) }

// Dist returns the distance between two points.
func Dist(a, b Point) float64 {
	return a.Sub(b).Len()
}

// RotateAbout rotates p by angle radians around center.
func RotateAbout(p, center Point, angle float64) Point {
	if angle == 0 {
		return p
	}
	s, c := math.Sincos(angle)
	d := p.Sub(center)
	return Point{
		X: center.X + d.X*c - d.Y*s,
		Y: center.Y + d.X*s + d.Y*c,
	}
}

// DistanceToSegment returns the distance from p to the segment a-b.
// A zero-length segment degrades to the distance from p to a.
func DistanceToSegment(a, b, p Point) float64 {
	return Dist(p, NearestOnSegment(a, b, p))
}

// NearestOnSegment returns the point on segment a-b closest to p.
func NearestOnSegment(a, b, p Point) Point {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

// ToPrecision rounds both coordinates to Precision decimal places.
func ToPrecision(p Point) Point {
	return Point{X: round(p.X), Y: round(p.Y)}
}

func round(v float64) float64 {
	const scale = 1e4
	return math.Round(v*scale) / scale
}

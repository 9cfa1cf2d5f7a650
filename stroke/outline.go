// Package stroke turns sampled pointer positions into the filled outline of a
// pen stroke: a polygon whose width follows simulated pen pressure and tapers
// at both ends.
package stroke

import (
	"math"

	"scrawl/geom"
)

const (
	// pressureRate controls how quickly simulated pressure follows velocity.
	pressureRate = 0.275
	// fixedPI avoids exact half turns that collapse cap vertices.
	fixedPI = math.Pi + 0.0001
	// capSteps is the number of vertices in a round cap.
	capSteps = 13
)

// Taper describes how one end of a stroke narrows.
type Taper struct {
	// Length is the distance over which the stroke grows from a point to
	// full width. 0 disables the taper.
	Length float64
	// Cap draws a round cap when the end is not tapered.
	Cap bool
}

// Options configures outline synthesis.
type Options struct {
	// Size is the nominal diameter of the stroke.
	Size float64
	// Thinning is how much pressure changes the width, in [-1, 1].
	Thinning float64
	// Smoothing drops outline vertices closer than Size*Smoothing.
	Smoothing float64
	// Streamline low-pass filters the input points, in [0, 1].
	Streamline float64
	// SimulatePressure derives pressure from pointer velocity.
	SimulatePressure bool
	Start            Taper
	End              Taper
}

// Default taper lengths. The start taper is shorter than the end taper so a
// stroke enters quickly and trails off slowly, like a real pen lifting away.
const (
	DefaultThinning    = 0.9
	DefaultStartTaper  = 40
	DefaultEndTaper    = 100
	DefaultSmoothing   = 0.5
	DefaultStreamline  = 0.5
	defaultSizePerUnit = 2
)

// DefaultOptions returns the freehand options for a stroke width.
func DefaultOptions(strokeWidth float64) Options {
	return Options{
		Size:             strokeWidth * defaultSizePerUnit,
		Thinning:         DefaultThinning,
		Smoothing:        DefaultSmoothing,
		Streamline:       DefaultStreamline,
		SimulatePressure: true,
		Start:            Taper{Length: DefaultStartTaper, Cap: true},
		End:              Taper{Length: DefaultEndTaper, Cap: true},
	}
}

type strokePoint struct {
	point         geom.Point
	pressure      float64
	vector        geom.Point
	distance      float64
	runningLength float64
}

// Outline returns the closed outline polygon for points.
// A single point produces a round dot; no points produce nil.
func Outline(points []geom.Point, opts Options) []geom.Point {
	if opts.Size <= 0 {
		opts.Size = 1
	}
	return outlinePoints(strokePoints(points, opts), opts)
}

// strokePoints streamlines the input and annotates each sample with its
// direction and the running length of the stroke.
func strokePoints(points []geom.Point, opts Options) []strokePoint {
	if len(points) == 0 {
		return nil
	}
	t := 0.15 + (1-opts.Streamline)*0.85

	pts := points
	if len(pts) == 2 {
		a, b := pts[0], pts[1]
		pts = []geom.Point{a}
		for i := 1; i < 5; i++ {
			pts = append(pts, a.Lerp(b, float64(i)/4))
		}
	}

	out := []strokePoint{{point: pts[0], pressure: 0.5}}
	running := 0.0
	reachedMin := false
	last := len(pts) - 1
	for i := 1; i < len(pts); i++ {
		prev := out[len(out)-1]
		var pt geom.Point
		if i == last {
			pt = pts[i]
		} else {
			pt = prev.point.Lerp(pts[i], t)
		}
		if pt == prev.point {
			continue
		}
		d := geom.Dist(pt, prev.point)
		running += d
		if i < last && !reachedMin {
			if running < opts.Size {
				continue
			}
			reachedMin = true
		}
		out = append(out, strokePoint{
			point:         pt,
			pressure:      0.5,
			vector:        prev.point.Sub(pt).Unit(),
			distance:      d,
			runningLength: running,
		})
	}
	if len(out) > 1 {
		out[0].vector = out[1].vector
	} else {
		out[0].vector = geom.Pt(1, 1).Unit()
	}
	return out
}

func radiusFor(size, thinning, pressure float64) float64 {
	return size * (0.5 - thinning*(0.5-pressure))
}

func simulate(prev float64, distance, size float64) float64 {
	sp := math.Min(1, distance/size)
	rp := math.Min(1, 1-sp)
	return math.Min(1, prev+(rp-prev)*(sp*pressureRate))
}

func easeStart(t float64) float64 { return t * (2 - t) }

func easeEnd(t float64) float64 {
	t--
	return t*t*t + 1
}

func rotateAround(p, c geom.Point, r float64) geom.Point {
	return geom.RotateAbout(p, c, r)
}

func outlinePoints(points []strokePoint, opts Options) []geom.Point {
	if len(points) == 0 {
		return nil
	}
	size := opts.Size
	last := len(points) - 1
	total := points[last].runningLength
	minDistance := math.Pow(size*opts.Smoothing, 2)

	prevPressure := points[0].pressure
	for i := 0; i < len(points) && i < 10; i++ {
		p := points[i].pressure
		if opts.SimulatePressure {
			p = simulate(prevPressure, points[i].distance, size)
		}
		prevPressure = (prevPressure + p) / 2
	}

	radius := radiusFor(size, opts.Thinning, points[last].pressure)
	firstRadius := -1.0
	prevVector := points[0].vector
	pl, pr := points[0].point, points[0].point
	var left, right []geom.Point
	prevSharp := false

	for i, sp := range points {
		if i < last && total-sp.runningLength < 3 {
			continue
		}
		pressure := sp.pressure
		if opts.Thinning != 0 {
			if opts.SimulatePressure {
				pressure = simulate(prevPressure, sp.distance, size)
			}
			radius = radiusFor(size, opts.Thinning, pressure)
		} else {
			radius = size / 2
		}
		if firstRadius < 0 {
			firstRadius = radius
		}

		ts, te := 1.0, 1.0
		if opts.Start.Length > 0 && sp.runningLength < opts.Start.Length {
			ts = easeStart(sp.runningLength / opts.Start.Length)
		}
		if opts.End.Length > 0 && total-sp.runningLength < opts.End.Length {
			te = easeEnd((total - sp.runningLength) / opts.End.Length)
		}
		radius = math.Max(0.01, radius*math.Min(ts, te))

		nextVector := sp.vector
		nextDpr := 1.0
		if i < last {
			nextVector = points[i+1].vector
			nextDpr = sp.vector.Dot(nextVector)
		}
		prevDpr := sp.vector.Dot(prevVector)
		sharp := prevDpr < 0 && !prevSharp
		nextSharp := nextDpr < 0

		if sharp || nextSharp {
			offset := prevVector.Per().Mul(radius)
			for s := 0.0; s <= 1; s += 1.0 / capSteps {
				pl = rotateAround(sp.point.Sub(offset), sp.point, fixedPI*s)
				left = append(left, pl)
				pr = rotateAround(sp.point.Add(offset), sp.point, -fixedPI*s)
				right = append(right, pr)
			}
			if nextSharp {
				prevSharp = true
			}
			continue
		}
		prevSharp = false

		if i == last {
			offset := sp.vector.Per().Mul(radius)
			left = append(left, sp.point.Sub(offset))
			right = append(right, sp.point.Add(offset))
			continue
		}

		offset := nextVector.Lerp(sp.vector, nextDpr).Per().Mul(radius)
		if tl := sp.point.Sub(offset); i <= 1 || sqDist(pl, tl) > minDistance {
			left = append(left, tl)
			pl = tl
		}
		if tr := sp.point.Add(offset); i <= 1 || sqDist(pr, tr) > minDistance {
			right = append(right, tr)
			pr = tr
		}
		prevPressure = pressure
		prevVector = sp.vector
	}

	first := points[0].point
	lastPoint := first.Add(geom.Pt(1, 1))
	if len(points) > 1 {
		lastPoint = points[last].point
	}
	if firstRadius < 0 {
		firstRadius = radius
	}

	if len(points) == 1 {
		return dot(first, lastPoint, firstRadius)
	}

	var startCap []geom.Point
	if opts.Start.Length == 0 && opts.Start.Cap && len(right) > 0 {
		for s := 1.0 / capSteps; s <= 1; s += 1.0 / capSteps {
			startCap = append(startCap, rotateAround(right[0], first, fixedPI*s))
		}
	}

	var endCap []geom.Point
	direction := points[last].vector.Neg().Per()
	switch {
	case opts.End.Length > 0:
		endCap = append(endCap, lastPoint)
	case opts.End.Cap:
		start := lastPoint.Add(direction.Mul(radius))
		for s := 1.0 / 29; s < 1; s += 1.0 / 29 {
			endCap = append(endCap, rotateAround(start, lastPoint, fixedPI*3*s))
		}
	default:
		endCap = append(endCap, lastPoint.Add(direction.Mul(radius)), lastPoint.Sub(direction.Mul(radius)))
	}

	out := make([]geom.Point, 0, len(left)+len(endCap)+len(right)+len(startCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	out = append(out, startCap...)
	return out
}

// dot returns a round polygon of the given radius centered on p.
func dot(p, toward geom.Point, radius float64) []geom.Point {
	start := p.Add(p.Sub(toward).Per().Unit().Mul(-radius))
	pts := make([]geom.Point, 0, capSteps)
	for s := 1.0 / capSteps; s <= 1; s += 1.0 / capSteps {
		pts = append(pts, rotateAround(start, p, fixedPI*2*s))
	}
	return pts
}

func sqDist(a, b geom.Point) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

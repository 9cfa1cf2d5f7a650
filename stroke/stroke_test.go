package stroke

import (
	"math"
	"strings"
	"testing"

	"scrawl/geom"
)

func line(from, to float64, step float64) []geom.Point {
	var pts []geom.Point
	for x := from; x <= to; x += step {
		pts = append(pts, geom.Pt(x, 0))
	}
	return pts
}

// halfWidth returns the widest outline vertex (distance from y=0) whose x
// lies in [minX, maxX].
func halfWidth(outline []geom.Point, minX, maxX float64) float64 {
	w := 0.0
	for _, p := range outline {
		if p.X >= minX && p.X <= maxX {
			w = math.Max(w, math.Abs(p.Y))
		}
	}
	return w
}

func TestOutlineEmpty(t *testing.T) {
	if got := Outline(nil, DefaultOptions(2)); got != nil {
		t.Errorf("Outline(nil) = %v, want nil", got)
	}
}

func TestOutlineSinglePointIsDot(t *testing.T) {
	opts := DefaultOptions(4)
	center := geom.Pt(10, 10)
	out := Outline([]geom.Point{center}, opts)
	if len(out) < 8 {
		t.Fatalf("dot has %d vertices, want a round polygon", len(out))
	}
	want := opts.Size / 2
	for _, p := range out {
		if d := geom.Dist(p, center); math.Abs(d-want) > 1e-6 {
			t.Fatalf("vertex %v at distance %v, want %v", p, d, want)
		}
	}
}

func TestOutlineTapersEndMoreThanStart(t *testing.T) {
	opts := DefaultOptions(4)
	opts.SimulatePressure = false
	out := Outline(line(0, 300, 2), opts)
	if len(out) == 0 {
		t.Fatal("empty outline")
	}

	full := opts.Size / 2
	start := halfWidth(out, 0, 20)
	end := halfWidth(out, 280, 300)
	middle := halfWidth(out, 140, 160)

	if math.Abs(middle-full) > 1e-6 {
		t.Errorf("middle half-width = %v, want %v", middle, full)
	}
	if start >= full || end >= full {
		t.Errorf("ends not tapered: start %v, end %v, full %v", start, end, full)
	}
	if start <= end {
		t.Errorf("start half-width %v should exceed end half-width %v", start, end)
	}
}

func TestOutlineWithoutTaperKeepsWidth(t *testing.T) {
	opts := DefaultOptions(4)
	opts.SimulatePressure = false
	opts.Start = Taper{Cap: true}
	opts.End = Taper{Cap: true}
	out := Outline(line(0, 100, 2), opts)

	full := opts.Size / 2
	if w := halfWidth(out, 10, 90); math.Abs(w-full) > 1e-6 {
		t.Errorf("half-width = %v, want %v", w, full)
	}
	b := geom.BoundsFromPoints(out)
	if b.MaxX <= 100 {
		t.Errorf("round end cap should extend past the last point, MaxX = %v", b.MaxX)
	}
}

func TestSynthesizerMemoizesByRevision(t *testing.T) {
	s := NewSynthesizer(0)
	opts := DefaultOptions(2)
	pts := line(0, 50, 5)

	a := s.Outline(Key{Owner: "s1", Rev: 1}, pts, opts)
	b := s.Outline(Key{Owner: "s1", Rev: 1}, nil, opts)
	if len(a) == 0 || &a[0] != &b[0] {
		t.Error("same revision should return the memoized outline")
	}

	pts = append(pts, geom.Pt(60, 0))
	c := s.Outline(Key{Owner: "s1", Rev: 2}, pts, opts)
	if &a[0] == &c[0] {
		t.Error("new revision returned a stale outline")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}

	s.Forget("s1")
	if s.Len() != 0 {
		t.Errorf("Len after Forget = %d, want 0", s.Len())
	}
}

func TestSVGPath(t *testing.T) {
	if SVGPath(nil) != "" {
		t.Error("empty outline should encode to an empty path")
	}
	got := SVGPath([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)})
	if !strings.HasPrefix(got, "M 0.00 0.00 Q 0.00 0.00 5.00 0.00") {
		t.Errorf("SVGPath = %q", got)
	}
	if !strings.HasSuffix(got, "10.00 10.00 5.00 5.00 Z") {
		t.Errorf("SVGPath = %q", got)
	}
}

package stroke

import (
	"strconv"
	"strings"

	"scrawl/geom"
	"scrawl/internal/cache"
	"scrawl/internal/logging"
)

// Key identifies one revision of a point sequence. Appending a point must
// produce a new Rev, which makes every earlier outline unreachable.
type Key struct {
	Owner string
	Rev   uint64
}

type memoKey struct {
	Key
	Options
}

// DefaultCacheSize is the soft limit on memoized outlines.
const DefaultCacheSize = 512

// Synthesizer memoizes outlines per point-sequence revision so that repeated
// renders during a drag do not recompute them.
type Synthesizer struct {
	outlines *cache.Cache[memoKey, []geom.Point]
}

// NewSynthesizer creates a synthesizer holding at most about size outlines.
func NewSynthesizer(size int) *Synthesizer {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Synthesizer{outlines: cache.New[memoKey, []geom.Point](size)}
}

// Outline returns the memoized outline for key, synthesizing it on a miss.
// The returned slice is shared and must not be modified.
func (s *Synthesizer) Outline(key Key, points []geom.Point, opts Options) []geom.Point {
	out, hit := s.outlines.GetOrCreate(memoKey{Key: key, Options: opts}, func() []geom.Point {
		return Outline(points, opts)
	})
	if !hit {
		logging.Logger().Debug("stroke: synthesized outline",
			"owner", key.Owner, "rev", key.Rev, "points", len(points), "vertices", len(out))
	}
	return out
}

// Forget drops every outline memoized for owner.
func (s *Synthesizer) Forget(owner string) {
	s.outlines.DeleteFunc(func(k memoKey) bool { return k.Owner == owner })
}

// Len returns the number of memoized outlines.
func (s *Synthesizer) Len() int {
	return s.outlines.Len()
}

// SVGPath encodes an outline polygon as an SVG path, smoothing the contour
// with quadratic segments through edge midpoints.
func SVGPath(outline []geom.Point) string {
	if len(outline) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, outline[0])
	b.WriteString(" Q")
	for i, p := range outline {
		next := outline[(i+1)%len(outline)]
		b.WriteByte(' ')
		writePoint(&b, p)
		b.WriteByte(' ')
		writePoint(&b, p.Lerp(next, 0.5))
	}
	b.WriteString(" Z")
	return b.String()
}

func writePoint(b *strings.Builder, p geom.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
}

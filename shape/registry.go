package shape

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"scrawl/asset"
	"scrawl/geom"
	"scrawl/stroke"
)

var (
	// ErrUnknownType is returned when no operation table is registered for a type.
	ErrUnknownType = errors.New("shape: unknown type")

	// ErrBoundsNotCached is returned by Transform when the initial shape's
	// bounds were never computed. Take the initial shape with Registry.Snapshot.
	ErrBoundsNotCached = errors.New("shape: initial bounds not cached")

	// ErrImmutableProperty is returned when setting id or type.
	ErrImmutableProperty = errors.New("shape: property is immutable")

	// ErrUnknownProperty is returned for property keys the type does not have.
	ErrUnknownProperty = errors.New("shape: unknown property")

	// ErrInvalidValue is returned when a property value has the wrong type.
	ErrInvalidValue = errors.New("shape: invalid property value")

	// ErrIncompleteUtil is returned when registering a table without the
	// operations that have no default.
	ErrIncompleteUtil = errors.New("shape: incomplete operation table")
)

// TransformInfo describes a resize in progress.
type TransformInfo struct {
	// Initial is the shape as it was when the resize began. Its bounds must
	// be cached.
	Initial *Shape
	// ScaleX and ScaleY are the signed scale factors; negative values flip.
	ScaleX, ScaleY float64
	// Origin is the fixed point of the resize, normalized to 0..1 across the
	// target bounds.
	Origin geom.Point
}

// Util is the operation table for one shape type. Every function is pure
// apart from bounds cache and stroke cache reads and writes.
type Util struct {
	Type        Type
	DefaultSize geom.Point

	CanTransform         bool
	CanChangeAspectRatio bool
	// CanStyleFill is false for types whose fill a style patch cannot change.
	CanStyleFill bool

	// Create returns a fully populated shape with a fresh id.
	Create func(opts ...Option) *Shape
	// Render describes how to draw the shape.
	Render func(s *Shape) Drawable
	// Bounds returns the axis-aligned bounds, translated to s.Point.
	Bounds func(s *Shape) geom.Bounds
	// RotatedBounds encloses the shape after rotation.
	RotatedBounds func(s *Shape) geom.Bounds
	// Center returns the center of the rotated bounds.
	Center func(s *Shape) geom.Point
	// HitTest reports whether p is on the shape.
	HitTest func(s *Shape, p geom.Point) bool
	// HitTestBounds reports whether a brush selects the shape.
	HitTestBounds func(s *Shape, brush geom.Bounds) bool
	// Transform remaps the initial shape's geometry into target.
	Transform func(s *Shape, target geom.Bounds, info TransformInfo) (*Shape, error)
	// TransformSingle is Transform for a shape resized on its own.
	TransformSingle func(s *Shape, target geom.Bounds, info TransformInfo) (*Shape, error)
	// SetProperty replaces one property.
	SetProperty func(s *Shape, key string, value any) (*Shape, error)
	// RotateTo sets the rotation.
	RotateTo func(s *Shape, angle float64) *Shape
	// TranslateTo moves the anchor point.
	TranslateTo func(s *Shape, p geom.Point) *Shape
	// ApplyStyles returns a shape carrying a new style with patch applied.
	ApplyStyles func(s *Shape, patch StylePatch) *Shape

	// normalizeStyle enforces the type's style invariants.
	normalizeStyle func(*Style) *Style
	// freehand types store Points instead of Size.
	freehand bool
}

// Registry maps shape types to their operation tables.
type Registry struct {
	utils   map[Type]*Util
	bounds  *BoundsCache
	strokes *stroke.Synthesizer
	status  func(shapeID string) asset.Status
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBoundsCache shares c instead of creating a private cache.
func WithBoundsCache(c *BoundsCache) RegistryOption {
	return func(r *Registry) { r.bounds = c }
}

// WithSynthesizer shares s instead of creating a private synthesizer.
func WithSynthesizer(s *stroke.Synthesizer) RegistryOption {
	return func(r *Registry) { r.strokes = s }
}

// WithAssetStatus sets where embed shapes read their data resolution status.
// Without it embeds always render as idle.
func WithAssetStatus(fn func(shapeID string) asset.Status) RegistryOption {
	return func(r *Registry) { r.status = fn }
}

// NewRegistry creates a registry holding the built-in shape types.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{utils: make(map[Type]*Util)}
	for _, opt := range opts {
		opt(r)
	}
	if r.bounds == nil {
		r.bounds = NewBoundsCache(0)
	}
	if r.strokes == nil {
		r.strokes = stroke.NewSynthesizer(0)
	}
	if r.status == nil {
		r.status = func(string) asset.Status { return asset.Status{State: asset.StateIdle} }
	}

	for _, u := range []*Util{
		r.rectangleUtil(),
		r.ellipseUtil(),
		r.drawUtil(),
		r.embedUtil(TypeGrid, "Grid"),
		r.embedUtil(TypeChart, "Chart"),
	} {
		if err := r.Register(u); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds or replaces the table for u.Type, filling in defaults for
// every optional operation left nil.
func (r *Registry) Register(u *Util) error {
	if u.Type == "" || u.Create == nil || u.Bounds == nil || u.Transform == nil {
		return fmt.Errorf("%w: %q", ErrIncompleteUtil, u.Type)
	}
	if u.normalizeStyle == nil {
		u.normalizeStyle = func(s *Style) *Style { return s }
	}
	if u.RotatedBounds == nil {
		u.RotatedBounds = func(s *Shape) geom.Bounds {
			b := u.Bounds(s)
			if s.Rotation == 0 {
				return b
			}
			return geom.BoundsFromPoints(geom.RotatedCorners(b, s.Rotation))
		}
	}
	if u.Center == nil {
		u.Center = func(s *Shape) geom.Point {
			return geom.BoundsCenter(u.RotatedBounds(s))
		}
	}
	if u.HitTest == nil {
		u.HitTest = func(s *Shape, p geom.Point) bool {
			return geom.PointInPolygon(geom.RotatedCorners(u.Bounds(s), s.Rotation), p)
		}
	}
	if u.HitTestBounds == nil {
		u.HitTestBounds = func(s *Shape, brush geom.Bounds) bool {
			corners := geom.RotatedCorners(u.Bounds(s), s.Rotation)
			return geom.BoundsContainsPolygon(brush, corners) ||
				geom.PolygonIntersectsBounds(corners, brush)
		}
	}
	if u.TransformSingle == nil {
		u.TransformSingle = u.Transform
	}
	if u.SetProperty == nil {
		u.SetProperty = func(s *Shape, key string, value any) (*Shape, error) {
			return setProperty(u, s, key, value)
		}
	}
	if u.RotateTo == nil {
		u.RotateTo = func(s *Shape, angle float64) *Shape {
			next := s.Clone()
			next.Rotation = angle
			return next
		}
	}
	if u.TranslateTo == nil {
		u.TranslateTo = func(s *Shape, p geom.Point) *Shape {
			next := s.Clone()
			next.Point = geom.ToPrecision(p)
			return next
		}
	}
	if u.ApplyStyles == nil {
		u.ApplyStyles = func(s *Shape, patch StylePatch) *Shape {
			if !u.CanStyleFill {
				patch.IsFilled = nil
			}
			next := s.Clone()
			next.Style = u.normalizeStyle(s.Style.With(patch))
			return next
		}
	}
	r.utils[u.Type] = u
	return nil
}

// Lookup returns the table registered for t.
func (r *Registry) Lookup(t Type) (*Util, error) {
	u, ok := r.utils[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return u, nil
}

// Get returns the table registered for t and panics if there is none.
func (r *Registry) Get(t Type) *Util {
	u, err := r.Lookup(t)
	if err != nil {
		panic(err)
	}
	return u
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []Type {
	return slices.Sorted(maps.Keys(r.utils))
}

// BoundsCache returns the cache shared by every table in r.
func (r *Registry) BoundsCache() *BoundsCache { return r.bounds }

// Synthesizer returns the stroke synthesizer used to render freehand shapes.
func (r *Registry) Synthesizer() *stroke.Synthesizer { return r.strokes }

// Snapshot returns a copy of s under a new geometry revision with its bounds
// pinned in the cache. Use it to capture the initial shape of a transform:
// edits to the live shape evict its own revisions but never the snapshot's,
// and the soft limit never drops it.
func (r *Registry) Snapshot(s *Shape) *Shape {
	snap := s.Clone()
	snap.touch()
	r.Get(s.Type).Bounds(snap)
	if b, ok := r.bounds.Peek(snap); ok {
		r.bounds.Pin(snap, b)
	}
	return snap
}

// initialBounds returns the cached, un-translated bounds of a transform's
// initial shape.
func (r *Registry) initialBounds(info TransformInfo) (geom.Bounds, error) {
	if info.Initial == nil {
		return geom.Bounds{}, fmt.Errorf("%w: no initial shape", ErrBoundsNotCached)
	}
	b, ok := r.bounds.Peek(info.Initial)
	if !ok {
		return geom.Bounds{}, fmt.Errorf("%w: %s rev %d", ErrBoundsNotCached, info.Initial.ID, info.Initial.rev)
	}
	return b, nil
}

// Package page owns the shapes of one page, their draw order and the
// selection. It applies tool commands and answers the scene queries tools
// make.
package page

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"scrawl/geom"
	"scrawl/internal/logging"
	"scrawl/shape"
	"scrawl/tool"
)

var (
	ErrNotFound       = errors.New("page: shape not found")
	ErrDuplicateID    = errors.New("page: duplicate shape id")
	ErrTypeChanged    = errors.New("page: shape type changed")
	ErrUnknownCommand = errors.New("page: unknown command")
)

// Page holds shapes exclusively. Shapes handed out are never modified;
// changes go through Add, Update and Remove, which keep the bounds cache
// current.
type Page struct {
	ID string

	reg      *shape.Registry
	shapes   map[string]*shape.Shape
	selected map[string]bool
	pending  map[string]bool
	maxIndex float64
}

// New creates an empty page whose shapes are served by reg.
func New(id string, reg *shape.Registry) *Page {
	return &Page{
		ID:       id,
		reg:      reg,
		shapes:   make(map[string]*shape.Shape),
		selected: make(map[string]bool),
		pending:  make(map[string]bool),
	}
}

// Registry returns the registry serving the page's shapes.
func (p *Page) Registry() *shape.Registry { return p.reg }

// Len returns the number of shapes, committed or not.
func (p *Page) Len() int { return len(p.shapes) }

// NextChildIndex returns an ordering key above every shape on the page.
func (p *Page) NextChildIndex() float64 { return p.maxIndex + 1 }

// Get returns the shape with the given id.
func (p *Page) Get(id string) (*shape.Shape, bool) {
	s, ok := p.shapes[id]
	return s, ok
}

// Add places s on the page. A child index that does not sort above every
// existing shape is replaced so siblings stay strictly ordered.
func (p *Page) Add(s *shape.Shape) error {
	if _, ok := p.shapes[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
	}
	if _, err := p.reg.Lookup(s.Type); err != nil {
		return err
	}
	if s.ChildIndex <= p.maxIndex {
		s = s.Clone()
		s.ChildIndex = p.NextChildIndex()
	}
	p.maxIndex = s.ChildIndex
	p.shapes[s.ID] = s
	return nil
}

// Update replaces a shape. When the geometry revision changed, the bounds
// memoized for the replaced revision are evicted.
func (p *Page) Update(s *shape.Shape) error {
	old, ok := p.shapes[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	if old.Type != s.Type {
		return fmt.Errorf("%w: %s %s -> %s", ErrTypeChanged, s.ID, old.Type, s.Type)
	}
	if old.Rev() != s.Rev() {
		p.reg.BoundsCache().Evict(old.ID, old.Rev())
	}
	p.maxIndex = max(p.maxIndex, s.ChildIndex)
	p.shapes[s.ID] = s
	return nil
}

// Remove deletes a shape and everything cached for it.
func (p *Page) Remove(id string) error {
	if _, ok := p.shapes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(p.shapes, id)
	delete(p.selected, id)
	delete(p.pending, id)
	p.reg.BoundsCache().Invalidate(id)
	p.reg.Synthesizer().Forget(id)
	return nil
}

// Shapes returns every shape in draw order, bottom first.
func (p *Page) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, 0, len(p.shapes))
	for _, s := range p.shapes {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *shape.Shape) int {
		if c := cmp.Compare(a.ChildIndex, b.ChildIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// ShapeAt returns the topmost visible shape under pt, or nil.
func (p *Page) ShapeAt(pt geom.Point) *shape.Shape {
	shapes := p.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if s.IsHidden {
			continue
		}
		if p.reg.Get(s.Type).HitTest(s, pt) {
			return s
		}
	}
	return nil
}

// ShapesIn returns the visible shapes a brush over b selects, in draw order.
func (p *Page) ShapesIn(b geom.Bounds) []*shape.Shape {
	var out []*shape.Shape
	for _, s := range p.Shapes() {
		if s.IsHidden {
			continue
		}
		if p.reg.Get(s.Type).HitTestBounds(s, b) {
			out = append(out, s)
		}
	}
	return out
}

// Select replaces the selection, or extends it when add is set. Unknown ids
// are ignored.
func (p *Page) Select(ids []string, add bool) {
	if !add {
		clear(p.selected)
	}
	for _, id := range ids {
		if _, ok := p.shapes[id]; ok {
			p.selected[id] = true
		}
	}
}

// DeselectAll clears the selection.
func (p *Page) DeselectAll() { clear(p.selected) }

// IsSelected reports whether id is selected.
func (p *Page) IsSelected(id string) bool { return p.selected[id] }

// Selected returns the selected shapes in draw order.
func (p *Page) Selected() []*shape.Shape {
	var out []*shape.Shape
	for _, s := range p.Shapes() {
		if p.selected[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// SelectionBounds encloses the rotated bounds of the selection.
func (p *Page) SelectionBounds() (geom.Bounds, bool) {
	var (
		b  geom.Bounds
		ok bool
	)
	for _, s := range p.Selected() {
		rb := p.reg.Get(s.Type).RotatedBounds(s)
		if !ok {
			b, ok = rb, true
			continue
		}
		b = geom.Union(b, rb)
	}
	return b, ok
}

// IsPending reports whether id was created but not yet committed.
func (p *Page) IsPending(id string) bool { return p.pending[id] }

// Apply carries out a tool command.
func (p *Page) Apply(cmd tool.Command) error {
	switch c := cmd.(type) {
	case tool.CreateShape:
		if err := p.Add(c.Shape); err != nil {
			return err
		}
		p.pending[c.Shape.ID] = true
	case tool.UpdateShapes:
		for _, s := range c.Shapes {
			if err := p.Update(s); err != nil {
				return err
			}
		}
	case tool.CommitShape:
		s, ok := p.shapes[c.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, c.ID)
		}
		delete(p.pending, c.ID)
		logging.Logger().Info("page: shape committed", "id", s.ID, "type", string(s.Type))
	case tool.DiscardShape:
		if err := p.Remove(c.ID); err != nil {
			return err
		}
		logging.Logger().Debug("page: shape discarded", "id", c.ID)
	case tool.DeselectAll:
		p.DeselectAll()
	case tool.SelectShapes:
		p.Select(c.IDs, c.Add)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil
}

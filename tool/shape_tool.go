package tool

import (
	"math"

	"scrawl/geom"
	"scrawl/shape"
)

// DefaultDragThreshold is how far the pointer must travel from the origin
// before a press becomes a drag.
const DefaultDragThreshold = 5

// Env is what tools need from the editor.
type Env struct {
	Registry *shape.Registry
	Scene    Scene
	// DragThreshold overrides DefaultDragThreshold when positive.
	DragThreshold float64
}

func (e Env) threshold() float64 {
	if e.DragThreshold > 0 {
		return e.DragThreshold
	}
	return DefaultDragThreshold
}

// pastThreshold reports whether the pointer has left the press origin.
func (e Env) pastThreshold(s Session) bool {
	return geom.Dist(s.Inputs.Current, s.Inputs.Origin) > e.threshold()
}

// cancelGesture discards a shape being created, restores shapes and the
// selection a gesture changed, and returns to idle. It is reachable from
// every state.
func cancelGesture(s Session, _ Event) (Transition, error) {
	var effects []Command
	if s.Shape != nil {
		effects = append(effects, DiscardShape{ID: s.Shape.ID})
	} else if len(s.Initial) > 0 {
		effects = append(effects, UpdateShapes{Shapes: s.Initial})
	}
	if s.Restore != nil {
		effects = append(effects, SelectShapes{IDs: s.Restore})
	}
	return Goto("idle", s.reset(), effects...), nil
}

func enterIdle(s Session) (Session, []Command, error) {
	return s.reset(), nil, nil
}

func deselect(s Session) (Session, []Command, error) {
	return s, []Command{DeselectAll{}}, nil
}

// NewShapeTool returns the tool that creates box-like shapes of type t.
//
//	idle -> pointing -> creating -> idle
//
// A press that never passes the drag threshold creates a shape of the
// type's default size centred on the press. Holding shift while dragging
// keeps the shape square.
func NewShapeTool(env Env, t shape.Type) *Node {
	u := env.Registry.Get(t)

	resize := func(s Session) (*shape.Shape, error) {
		origin, cur := s.Inputs.Origin, s.Inputs.Current
		d := cur.Sub(origin)
		if s.Inputs.Modifiers.Shift {
			side := math.Max(math.Abs(d.X), math.Abs(d.Y))
			d = geom.Pt(math.Copysign(side, d.X), math.Copysign(side, d.Y))
		}
		target := geom.NewBounds(origin, origin.Add(d))

		info := transformInfo(s.Initial[0], d)
		return u.TransformSingle(s.Shape, target, info)
	}

	idle := NewNode("idle",
		OnEnter(enterIdle),
		On(PointerDown, func(s Session, _ Event) (Transition, error) {
			return Goto("pointing", s), nil
		}),
	)

	pointing := NewNode("pointing",
		OnEnter(deselect),
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			if !env.pastThreshold(s) {
				return Stay(s), nil
			}
			return Goto("creating", s), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			size := u.DefaultSize
			sh := u.Create(
				shape.WithPoint(s.Inputs.Origin.Sub(size.Mul(0.5))),
				shape.WithSize(size.X, size.Y),
				shape.WithChildIndex(env.Scene.NextChildIndex()),
			)
			return Goto("idle", s, CreateShape{Shape: sh}, CommitShape{ID: sh.ID}), nil
		}),
	)

	creating := NewNode("creating",
		OnEnter(func(s Session) (Session, []Command, error) {
			sh := u.Create(
				shape.WithPoint(s.Inputs.Origin),
				shape.WithChildIndex(env.Scene.NextChildIndex()),
			)
			s.Shape = sh
			s.Initial = []*shape.Shape{env.Registry.Snapshot(sh)}
			next, err := resize(s)
			if err != nil {
				return s, nil, err
			}
			s.Shape = next
			return s, []Command{CreateShape{Shape: next}}, nil
		}),
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			next, err := resize(s)
			if err != nil {
				return Pass(), err
			}
			s.Shape = next
			return Stay(s, UpdateShapes{Shapes: []*shape.Shape{next}}), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			next, err := resize(s)
			if err != nil {
				return Pass(), err
			}
			return Goto("idle", s,
				UpdateShapes{Shapes: []*shape.Shape{next}},
				CommitShape{ID: next.ID},
			), nil
		}),
	)

	return NewNode(string(t),
		Children("idle", idle, pointing, creating),
		On(Cancel, cancelGesture),
	)
}

// transformInfo describes resizing initial by a drag of d from its anchor.
// Scale factors are signed by the drag direction. The anchor is the initial
// shape's top-left corner, so the origin stays at zero.
func transformInfo(initial *shape.Shape, d geom.Point) shape.TransformInfo {
	info := shape.TransformInfo{Initial: initial, ScaleX: 1, ScaleY: 1}
	if initial.Size.X > 0 {
		info.ScaleX = d.X / initial.Size.X
	}
	if initial.Size.Y > 0 {
		info.ScaleY = d.Y / initial.Size.Y
	}
	return info
}

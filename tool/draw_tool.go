package tool

import (
	"scrawl/geom"
	"scrawl/shape"
)

// NewDrawTool returns the freehand tool. Every pointer move while creating
// appends a point, replacing the shape's point sequence. A click leaves a
// single-point stroke.
func NewDrawTool(env Env) *Node {
	u := env.Registry.Get(shape.TypeDraw)

	start := func(s Session) *shape.Shape {
		return u.Create(
			shape.WithPoint(s.Inputs.Origin),
			shape.WithPoints([]geom.Point{{}}),
			shape.WithChildIndex(env.Scene.NextChildIndex()),
		)
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
			if s.Inputs.Current == s.Inputs.Origin {
				return Stay(s), nil
			}
			return Goto("creating", s), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			sh := start(s)
			return Goto("idle", s, CreateShape{Shape: sh}, CommitShape{ID: sh.ID}), nil
		}),
	)

	creating := NewNode("creating",
		OnEnter(func(s Session) (Session, []Command, error) {
			s.Shape = shape.AppendPoint(start(s), s.Inputs.Current)
			return s, []Command{CreateShape{Shape: s.Shape}}, nil
		}),
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			if s.Inputs.Current == s.Inputs.Previous {
				return Stay(s), nil
			}
			s.Shape = shape.AppendPoint(s.Shape, s.Inputs.Current)
			return Stay(s, UpdateShapes{Shapes: []*shape.Shape{s.Shape}}), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			return Goto("idle", s, CommitShape{ID: s.Shape.ID}), nil
		}),
	)

	return NewNode(string(shape.TypeDraw),
		Children("idle", idle, pointing, creating),
		On(Cancel, cancelGesture),
	)
}

package tool

import (
	"math"

	"scrawl/geom"
	"scrawl/shape"
)

// SelectToolID is the id of the select tool's root state.
const SelectToolID = "select"

// DefaultHandleSize is the reach of the resize handle around the bottom
// right corner of the selection.
const DefaultHandleSize = 8

func ids(shapes []*shape.Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.ID
	}
	return out
}

// NewSelectTool returns the tool that selects, moves and resizes shapes.
//
//	idle -> pointing.shape  -> dragging -> idle
//	idle -> pointing.canvas -> brushing -> idle
//	idle -> resizing -> idle
//
// Cancel from any state restores the shapes and the selection as they were
// when the gesture began.
func NewSelectTool(env Env) *Node {
	reg := env.Registry

	onHandle := func(p geom.Point) bool {
		b, ok := env.Scene.SelectionBounds()
		if !ok {
			return false
		}
		return geom.Dist(p, geom.Pt(b.MaxX, b.MaxY)) <= DefaultHandleSize
	}

	idle := NewNode("idle",
		OnEnter(enterIdle),
		On(PointerDown, func(s Session, ev Event) (Transition, error) {
			p := s.Inputs.Current
			s.Restore = ids(env.Scene.Selected())
			if onHandle(p) {
				return Goto("resizing", s), nil
			}
			shift := s.Inputs.Modifiers.Shift
			if hit := env.Scene.ShapeAt(p); hit != nil {
				for _, sel := range env.Scene.Selected() {
					if sel.ID == hit.ID {
						return Goto("pointing.shape", s), nil
					}
				}
				return Goto("pointing.shape", s, SelectShapes{IDs: []string{hit.ID}, Add: shift}), nil
			}
			if shift {
				return Goto("pointing.canvas", s), nil
			}
			return Goto("pointing.canvas", s, DeselectAll{}), nil
		}),
	)

	pointingShape := NewNode("shape",
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			if !env.pastThreshold(s) {
				return Stay(s), nil
			}
			return Goto("dragging", s), nil
		}),
	)
	pointingCanvas := NewNode("canvas",
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			if !env.pastThreshold(s) {
				return Stay(s), nil
			}
			return Goto("brushing", s), nil
		}),
	)
	pointing := NewNode("pointing",
		Children("shape", pointingShape, pointingCanvas),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			return Goto("idle", s), nil
		}),
	)

	translate := func(s Session) []Command {
		delta := s.Inputs.Current.Sub(s.Inputs.Origin)
		moved := make([]*shape.Shape, 0, len(s.Initial))
		for _, sh := range s.Initial {
			moved = append(moved, reg.Get(sh.Type).TranslateTo(sh, sh.Point.Add(delta)))
		}
		if len(moved) == 0 {
			return nil
		}
		return []Command{UpdateShapes{Shapes: moved}}
	}

	dragging := NewNode("dragging",
		OnEnter(func(s Session) (Session, []Command, error) {
			var initial []*shape.Shape
			for _, sel := range env.Scene.Selected() {
				if !sel.IsLocked {
					initial = append(initial, sel)
				}
			}
			s.Initial = initial
			return s, translate(s), nil
		}),
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			return Stay(s, translate(s)...), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			return Goto("idle", s, translate(s)...), nil
		}),
	)

	brush := func(s Session) (Session, []Command) {
		b := geom.NewBounds(s.Inputs.Origin, s.Inputs.Current)
		s.Brush = &b
		sel := append(s.Selection[:len(s.Selection):len(s.Selection)], ids(env.Scene.ShapesIn(b))...)
		return s, []Command{SelectShapes{IDs: sel}}
	}

	brushing := NewNode("brushing",
		OnEnter(func(s Session) (Session, []Command, error) {
			if s.Inputs.Modifiers.Shift {
				s.Selection = s.Restore
			}
			s, cmds := brush(s)
			return s, cmds, nil
		}),
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			s, cmds := brush(s)
			return Stay(s, cmds...), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			return Goto("idle", s), nil
		}),
	)

	resize := func(s Session) ([]Command, error) {
		resized, err := resizeSelection(reg, s)
		if err != nil || len(resized) == 0 {
			return nil, err
		}
		return []Command{UpdateShapes{Shapes: resized}}, nil
	}

	resizing := NewNode("resizing",
		OnEnter(func(s Session) (Session, []Command, error) {
			var initial []*shape.Shape
			for _, sel := range env.Scene.Selected() {
				if !sel.IsLocked && reg.Get(sel.Type).CanTransform {
					initial = append(initial, reg.Snapshot(sel))
				}
			}
			s.Initial = initial
			s.InitialBounds, _ = env.Scene.SelectionBounds()
			return s, nil, nil
		}),
		On(PointerMove, func(s Session, _ Event) (Transition, error) {
			cmds, err := resize(s)
			if err != nil {
				return Pass(), err
			}
			return Stay(s, cmds...), nil
		}),
		On(PointerUp, func(s Session, _ Event) (Transition, error) {
			cmds, err := resize(s)
			if err != nil {
				return Pass(), err
			}
			return Goto("idle", s, cmds...), nil
		}),
	)

	return NewNode(SelectToolID,
		Children("idle", idle, pointing, dragging, brushing, resizing),
		On(Cancel, cancelGesture),
	)
}

// resizeSelection scales the gesture's initial shapes as a group, keeping
// the top-left corner of the initial selection fixed. A lone shape whose
// aspect ratio is fixed scales uniformly.
func resizeSelection(reg *shape.Registry, s Session) ([]*shape.Shape, error) {
	ib := s.InitialBounds
	anchor := geom.Pt(ib.MinX, ib.MinY)
	cur := s.Inputs.Current

	sx, sy := 1.0, 1.0
	if ib.Width > 0 {
		sx = (cur.X - ib.MinX) / ib.Width
	}
	if ib.Height > 0 {
		sy = (cur.Y - ib.MinY) / ib.Height
	}
	if len(s.Initial) == 1 {
		lone := s.Initial[0]
		if lone.IsAspectRatioLocked || !reg.Get(lone.Type).CanChangeAspectRatio {
			k := math.Min(math.Abs(sx), math.Abs(sy))
			sx, sy = math.Copysign(k, sx), math.Copysign(k, sy)
		}
	}
	scale := func(p geom.Point) geom.Point {
		return geom.Pt(anchor.X+(p.X-anchor.X)*sx, anchor.Y+(p.Y-anchor.Y)*sy)
	}

	out := make([]*shape.Shape, 0, len(s.Initial))
	for _, initial := range s.Initial {
		u := reg.Get(initial.Type)
		info := shape.TransformInfo{Initial: initial, ScaleX: sx, ScaleY: sy}
		b := u.Bounds(initial)
		target := geom.NewBounds(scale(geom.Pt(b.MinX, b.MinY)), scale(geom.Pt(b.MaxX, b.MaxY)))

		transform := u.Transform
		if len(s.Initial) == 1 {
			transform = u.TransformSingle
		}
		next, err := transform(initial, target, info)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

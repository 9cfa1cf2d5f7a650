// Package tool turns pointer input into shape editing commands.
//
// Each tool is a tree of state nodes. A Machine routes events to the active
// leaf and bubbles them to its ancestors until a handler claims one.
// Handlers are pure functions from the current session and event to a
// Transition; the commands they produce are handed to an Applier.
package tool

import (
	"scrawl/geom"
	"scrawl/shape"
)

// EventType identifies an input event.
type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	KeyDown
	Cancel
)

func (t EventType) String() string {
	switch t {
	case PointerDown:
		return "pointer_down"
	case PointerMove:
		return "pointer_move"
	case PointerUp:
		return "pointer_up"
	case KeyDown:
		return "key_down"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Modifiers are the modifier keys held when an event was delivered.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
}

// Event is a normalized input event in page coordinates.
type Event struct {
	Type      EventType
	Point     geom.Point
	ShapeID   string
	Key       string
	Modifiers Modifiers
}

// Inputs is the input sample the machine maintains across events.
type Inputs struct {
	Current       geom.Point
	Previous      geom.Point
	Origin        geom.Point
	Modifiers     Modifiers
	IsPointerDown bool
}

func (in Inputs) update(ev Event) Inputs {
	switch ev.Type {
	case PointerDown:
		in.Previous = in.Current
		in.Current = ev.Point
		in.Origin = ev.Point
		in.IsPointerDown = true
		in.Modifiers = ev.Modifiers
	case PointerMove:
		in.Previous = in.Current
		in.Current = ev.Point
		in.Modifiers = ev.Modifiers
	case PointerUp:
		in.Previous = in.Current
		in.Current = ev.Point
		in.IsPointerDown = false
		in.Modifiers = ev.Modifiers
	case KeyDown:
		in.Modifiers = ev.Modifiers
	}
	return in
}

// Session is the state a tool carries through one gesture.
type Session struct {
	Inputs Inputs

	// Shape is the shape being created, if any.
	Shape *shape.Shape
	// Initial holds the shapes as they were when the gesture began.
	Initial []*shape.Shape
	// InitialBounds encloses Initial.
	InitialBounds geom.Bounds
	// Selection is the selection a brush adds to.
	Selection []string
	// Restore is the selection to reinstate on cancel, nil to leave it.
	Restore []string
	// Brush is the drag-select region, nil when not brushing.
	Brush *geom.Bounds
}

// reset drops everything but the input sample.
func (s Session) reset() Session {
	return Session{Inputs: s.Inputs}
}

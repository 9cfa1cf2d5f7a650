package tool_test

import (
	"errors"
	"testing"

	"scrawl/geom"
	"scrawl/page"
	"scrawl/shape"
	"scrawl/tool"
)

type editor struct {
	reg  *shape.Registry
	page *page.Page
	env  tool.Env
}

func newEditor() *editor {
	reg := shape.NewRegistry()
	p := page.New("page", reg)
	return &editor{reg: reg, page: p, env: tool.Env{Registry: reg, Scene: p}}
}

func (e *editor) machine(root *tool.Node) *tool.Machine {
	return tool.NewMachine(root, e.page)
}

func dispatch(t *testing.T, m *tool.Machine, events ...tool.Event) {
	t.Helper()
	for _, ev := range events {
		if err := m.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%v): %v", ev.Type, err)
		}
	}
}

func down(x, y float64) tool.Event { return tool.Event{Type: tool.PointerDown, Point: geom.Pt(x, y)} }
func move(x, y float64) tool.Event { return tool.Event{Type: tool.PointerMove, Point: geom.Pt(x, y)} }
func up(x, y float64) tool.Event   { return tool.Event{Type: tool.PointerUp, Point: geom.Pt(x, y)} }

var cancel = tool.Event{Type: tool.Cancel}

func TestShapeToolClickCreatesDefaultSize(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewShapeTool(e.env, shape.TypeRectangle))

	if m.State() != "idle" {
		t.Fatalf("initial state = %q", m.State())
	}
	dispatch(t, m, down(200, 200))
	if m.State() != "pointing" {
		t.Fatalf("after down: %q", m.State())
	}
	dispatch(t, m, up(200, 200))
	if m.State() != "idle" {
		t.Fatalf("after up: %q", m.State())
	}

	shapes := e.page.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("shapes = %d, want 1", len(shapes))
	}
	s := shapes[0]
	def := e.reg.Get(shape.TypeRectangle).DefaultSize
	if s.Size != def {
		t.Errorf("size = %v, want %v", s.Size, def)
	}
	if c := geom.BoundsCenter(e.reg.Get(s.Type).Bounds(s)); c != geom.Pt(200, 200) {
		t.Errorf("center = %v", c)
	}
	if e.page.IsPending(s.ID) {
		t.Error("shape not committed")
	}
}

func TestShapeToolDragCreatesDragExtent(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewShapeTool(e.env, shape.TypeRectangle))

	var states []string
	dispatch(t, m, down(10, 10))
	states = append(states, m.State())
	dispatch(t, m, move(16, 10))
	states = append(states, m.State())
	dispatch(t, m, up(16, 10))
	states = append(states, m.State())

	want := []string{"pointing", "creating", "idle"}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
	shapes := e.page.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("shapes = %d", len(shapes))
	}
	if s := shapes[0]; s.Point != geom.Pt(10, 10) || s.Size != geom.Pt(6, 0) {
		t.Errorf("shape at %v size %v, want drag extent", s.Point, s.Size)
	}
}

func TestShapeToolBelowThresholdStaysPointing(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewShapeTool(e.env, shape.TypeEllipse))
	dispatch(t, m, down(0, 0), move(3, 4))
	if m.State() != "pointing" {
		t.Errorf("state = %q, want pointing at distance 5", m.State())
	}
}

func TestShapeToolDragBackwardsFlips(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewShapeTool(e.env, shape.TypeRectangle))
	dispatch(t, m, down(100, 100), move(40, 70), up(40, 70))

	s := e.page.Shapes()[0]
	if s.Point != geom.Pt(40, 70) || s.Size != geom.Pt(60, 30) {
		t.Errorf("shape at %v size %v", s.Point, s.Size)
	}
}

func TestShapeToolShiftKeepsSquare(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewShapeTool(e.env, shape.TypeRectangle))
	shift := tool.Modifiers{Shift: true}
	dispatch(t, m,
		down(0, 0),
		tool.Event{Type: tool.PointerMove, Point: geom.Pt(30, 10), Modifiers: shift},
		tool.Event{Type: tool.PointerUp, Point: geom.Pt(30, 10), Modifiers: shift},
	)
	if s := e.page.Shapes()[0]; s.Size != geom.Pt(30, 30) {
		t.Errorf("size = %v, want square", s.Size)
	}
}

func TestShapeToolCancel(t *testing.T) {
	tests := []struct {
		name   string
		events []tool.Event
	}{
		{"from pointing", []tool.Event{down(0, 0)}},
		{"from creating", []tool.Event{down(0, 0), move(20, 20), move(40, 30)}},
		{"from idle", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor()
			existing := e.reg.Get(shape.TypeRectangle).Create()
			if err := e.page.Add(existing); err != nil {
				t.Fatal(err)
			}
			before := e.page.Len()

			m := e.machine(tool.NewShapeTool(e.env, shape.TypeRectangle))
			dispatch(t, m, tt.events...)
			dispatch(t, m, cancel)

			if m.State() != "idle" {
				t.Errorf("state = %q, want idle", m.State())
			}
			if e.page.Len() != before {
				t.Errorf("shape count = %d, want %d", e.page.Len(), before)
			}
			if m.Session().Shape != nil {
				t.Error("session still holds a shape")
			}
		})
	}
}

func TestDrawTool(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewDrawTool(e.env))

	dispatch(t, m, down(10, 10), move(12, 11), move(15, 15), move(15, 15), up(15, 15))
	shapes := e.page.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("shapes = %d", len(shapes))
	}
	s := shapes[0]
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(2, 1), geom.Pt(5, 5)}
	if len(s.Points) != len(want) {
		t.Fatalf("points = %v, want %v", s.Points, want)
	}
	for i := range want {
		if s.Points[i] != want[i] {
			t.Errorf("points[%d] = %v, want %v", i, s.Points[i], want[i])
		}
	}
	if s.Style.IsFilled || s.Style.Dash != shape.DashSolid {
		t.Errorf("style = %+v", s.Style)
	}

	dispatch(t, m, down(50, 50), up(50, 50))
	if e.page.Len() != 2 {
		t.Fatalf("click did not create a dot")
	}
	dot := e.page.Shapes()[1]
	if d := e.reg.Get(dot.Type).Render(dot); d.Kind != shape.DrawDot {
		t.Errorf("click rendered %v", d.Kind)
	}

	dispatch(t, m, down(0, 0), move(5, 5), cancel)
	if e.page.Len() != 2 {
		t.Errorf("cancelled stroke kept: %d shapes", e.page.Len())
	}
}

func TestSelectToolClickSelects(t *testing.T) {
	e := newEditor()
	rect := e.reg.Get(shape.TypeRectangle)
	a := rect.Create(shape.WithSize(50, 50))
	b := rect.Create(shape.WithPoint(geom.Pt(100, 0)), shape.WithSize(50, 50))
	e.page.Add(a)
	e.page.Add(b)

	m := e.machine(tool.NewSelectTool(e.env))
	dispatch(t, m, down(10, 10))
	if m.State() != "pointing.shape" {
		t.Errorf("state = %q", m.State())
	}
	dispatch(t, m, up(10, 10))
	if !e.page.IsSelected(a.ID) || e.page.IsSelected(b.ID) {
		t.Error("click did not select the shape under the pointer")
	}

	dispatch(t, m, down(500, 500))
	if m.State() != "pointing.canvas" {
		t.Errorf("state = %q", m.State())
	}
	dispatch(t, m, up(500, 500))
	if len(e.page.Selected()) != 0 {
		t.Error("click on empty canvas kept the selection")
	}
}

func TestSelectToolDragAndCancel(t *testing.T) {
	e := newEditor()
	rect := e.reg.Get(shape.TypeRectangle)
	a := rect.Create(shape.WithSize(50, 50))
	e.page.Add(a)

	m := e.machine(tool.NewSelectTool(e.env))
	dispatch(t, m, down(10, 10), move(30, 25))
	if m.State() != "dragging" {
		t.Fatalf("state = %q", m.State())
	}
	got, _ := e.page.Get(a.ID)
	if got.Point != geom.Pt(20, 15) {
		t.Errorf("dragged to %v", got.Point)
	}

	dispatch(t, m, cancel)
	got, _ = e.page.Get(a.ID)
	if got.Point != geom.Pt(0, 0) {
		t.Errorf("cancel left shape at %v", got.Point)
	}
}

func TestSelectToolBrush(t *testing.T) {
	e := newEditor()
	draw := e.reg.Get(shape.TypeDraw)
	line := draw.Create(shape.WithPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(100, 100)}))
	far := draw.Create(shape.WithPoint(geom.Pt(300, 300)), shape.WithPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)}))
	e.page.Add(line)
	e.page.Add(far)

	m := e.machine(tool.NewSelectTool(e.env))
	dispatch(t, m, down(40, 60), move(60, 40))
	if m.State() != "brushing" {
		t.Fatalf("state = %q", m.State())
	}
	if b := m.Session().Brush; b == nil || b.Width != 20 {
		t.Errorf("brush = %v", b)
	}
	dispatch(t, m, up(60, 40))
	if !e.page.IsSelected(line.ID) || e.page.IsSelected(far.ID) {
		t.Error("brush selection wrong")
	}
}

func TestSelectToolResize(t *testing.T) {
	e := newEditor()
	rect := e.reg.Get(shape.TypeRectangle)
	a := rect.Create(shape.WithSize(100, 50))
	e.page.Add(a)
	e.page.Select([]string{a.ID}, false)

	m := e.machine(tool.NewSelectTool(e.env))
	dispatch(t, m, down(100, 50))
	if m.State() != "resizing" {
		t.Fatalf("state = %q", m.State())
	}
	dispatch(t, m, move(200, 150))
	got, _ := e.page.Get(a.ID)
	if got.Size != geom.Pt(200, 150) {
		t.Errorf("size = %v", got.Size)
	}

	dispatch(t, m, cancel)
	got, _ = e.page.Get(a.ID)
	if got.Size != geom.Pt(100, 50) {
		t.Errorf("cancel left size %v", got.Size)
	}
}

func TestSelectToolResizeKeepsFixedAspect(t *testing.T) {
	e := newEditor()
	rect := e.reg.Get(shape.TypeRectangle)
	locked := rect.Create(shape.WithSize(100, 50), shape.WithAspectRatioLocked(true))
	e.page.Add(locked)
	e.page.Select([]string{locked.ID}, false)

	m := e.machine(tool.NewSelectTool(e.env))
	dispatch(t, m, down(100, 50), move(300, 60), up(300, 60))

	got, _ := e.page.Get(locked.ID)
	if got.Size != geom.Pt(120, 60) || got.Point != geom.Pt(0, 0) {
		t.Errorf("resized to point %v size %v, want ratio 2", got.Point, got.Size)
	}
}

func TestSelectToolCancelBrushRestoresSelection(t *testing.T) {
	shift := tool.Modifiers{Shift: true}
	tests := []struct {
		name     string
		selected bool
		mods     tool.Modifiers
	}{
		{"nothing selected", false, tool.Modifiers{}},
		{"replacing a selection", true, tool.Modifiers{}},
		{"adding to a selection", true, shift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor()
			rect := e.reg.Get(shape.TypeRectangle)
			a := rect.Create(shape.WithSize(50, 50))
			b := rect.Create(shape.WithPoint(geom.Pt(200, 0)), shape.WithSize(50, 50))
			e.page.Add(a)
			e.page.Add(b)
			if tt.selected {
				e.page.Select([]string{b.ID}, false)
			}

			m := e.machine(tool.NewSelectTool(e.env))
			dispatch(t, m,
				tool.Event{Type: tool.PointerDown, Point: geom.Pt(-10, -10), Modifiers: tt.mods},
				tool.Event{Type: tool.PointerMove, Point: geom.Pt(20, 20), Modifiers: tt.mods},
			)
			if m.State() != "brushing" || !e.page.IsSelected(a.ID) {
				t.Fatalf("state = %q, brushed shape selected = %v", m.State(), e.page.IsSelected(a.ID))
			}

			dispatch(t, m, cancel)
			if m.State() != "idle" {
				t.Errorf("state = %q", m.State())
			}
			if e.page.IsSelected(a.ID) {
				t.Error("brushed shape still selected after cancel")
			}
			if e.page.IsSelected(b.ID) != tt.selected {
				t.Errorf("prior selection restored = %v, want %v", e.page.IsSelected(b.ID), tt.selected)
			}
		})
	}
}

func TestSelectToolResizeGroupOfStrokes(t *testing.T) {
	e := newEditor()
	draw := e.reg.Get(shape.TypeDraw)
	a := draw.Create(shape.WithPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(50, 50)}))
	b := draw.Create(shape.WithPoint(geom.Pt(50, 50)), shape.WithPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(50, 50)}))
	e.page.Add(a)
	e.page.Add(b)
	e.page.Select([]string{a.ID, b.ID}, false)

	m := e.machine(tool.NewSelectTool(e.env))
	dispatch(t, m, down(100, 100), move(200, 200), move(210, 210), up(200, 200))

	sb, _ := e.page.SelectionBounds()
	if sb != geom.BoundsFromRect(0, 0, 200, 200) {
		t.Errorf("selection bounds = %+v", sb)
	}
}

func TestNestedNodesBubble(t *testing.T) {
	var log []string
	record := func(name string) tool.Handler {
		return func(s tool.Session, _ tool.Event) (tool.Transition, error) {
			log = append(log, name)
			return tool.Pass(), nil
		}
	}
	leaf := tool.NewNode("leaf", tool.On(tool.KeyDown, record("leaf")))
	mid := tool.NewNode("mid", tool.Children("leaf", leaf), tool.On(tool.KeyDown, record("mid")))
	root := tool.NewNode("root",
		tool.Children("mid", mid),
		tool.On(tool.KeyDown, func(s tool.Session, _ tool.Event) (tool.Transition, error) {
			log = append(log, "root")
			return tool.Stay(s), nil
		}),
	)

	m := tool.NewMachine(root, tool.ApplierFunc(func(tool.Command) error { return nil }))
	if m.State() != "mid.leaf" {
		t.Fatalf("state = %q", m.State())
	}
	dispatch(t, m, tool.Event{Type: tool.KeyDown, Key: "x"})
	if len(log) != 3 || log[0] != "leaf" || log[1] != "mid" || log[2] != "root" {
		t.Errorf("bubbling order = %v", log)
	}
}

func TestEnterExitOrder(t *testing.T) {
	var log []string
	hook := func(name string) tool.Hook {
		return func(s tool.Session) (tool.Session, []tool.Command, error) {
			log = append(log, name)
			return s, nil, nil
		}
	}
	a1 := tool.NewNode("a1", tool.OnExit(hook("exit a1")),
		tool.On(tool.PointerDown, func(s tool.Session, _ tool.Event) (tool.Transition, error) {
			return tool.Goto("b", s), nil
		}))
	a := tool.NewNode("a", tool.Children("a1", a1), tool.OnExit(hook("exit a")))
	b1 := tool.NewNode("b1", tool.OnEnter(hook("enter b1")))
	b := tool.NewNode("b", tool.Children("b1", b1), tool.OnEnter(hook("enter b")))
	root := tool.NewNode("root", tool.Children("a", a, b))

	m := tool.NewMachine(root, tool.ApplierFunc(func(tool.Command) error { return nil }))
	dispatch(t, m, down(0, 0))

	want := []string{"exit a1", "exit a", "enter b", "enter b1"}
	if len(log) != len(want) {
		t.Fatalf("hooks = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("hooks = %v, want %v", log, want)
			break
		}
	}
	if m.State() != "b.b1" || !m.Is("b") {
		t.Errorf("state = %q", m.State())
	}
}

func TestDispatchIsNotReentrant(t *testing.T) {
	var (
		m     *tool.Machine
		order []string
	)
	root := tool.NewNode("root",
		tool.Children("idle", tool.NewNode("idle")),
		tool.On(tool.KeyDown, func(s tool.Session, ev tool.Event) (tool.Transition, error) {
			order = append(order, "handle "+ev.Key)
			if ev.Key == "a" {
				return tool.Stay(s, tool.DeselectAll{}, tool.DeselectAll{}), nil
			}
			return tool.Stay(s), nil
		}),
	)
	m = tool.NewMachine(root, tool.ApplierFunc(func(cmd tool.Command) error {
		order = append(order, "apply")
		if len(order) == 2 {
			if err := m.Dispatch(tool.Event{Type: tool.KeyDown, Key: "b"}); err != nil {
				return err
			}
		}
		return nil
	}))

	dispatch(t, m, tool.Event{Type: tool.KeyDown, Key: "a"})
	want := []string{"handle a", "apply", "apply", "handle b"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDispatchPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	root := tool.NewNode("root",
		tool.Children("idle", tool.NewNode("idle")),
		tool.On(tool.KeyDown, func(s tool.Session, _ tool.Event) (tool.Transition, error) {
			return tool.Stay(s, tool.DeselectAll{}), nil
		}),
		tool.On(tool.PointerDown, func(s tool.Session, _ tool.Event) (tool.Transition, error) {
			return tool.Goto("missing", s), nil
		}),
	)
	m := tool.NewMachine(root, tool.ApplierFunc(func(tool.Command) error { return boom }))

	if err := m.Dispatch(tool.Event{Type: tool.KeyDown}); !errors.Is(err, boom) {
		t.Errorf("applier error = %v", err)
	}
	if err := m.Dispatch(down(0, 0)); !errors.Is(err, tool.ErrUnknownState) {
		t.Errorf("bad transition error = %v", err)
	}
}

func TestInputsTrackOrigin(t *testing.T) {
	e := newEditor()
	m := e.machine(tool.NewShapeTool(e.env, shape.TypeRectangle))
	dispatch(t, m, down(1, 2), move(3, 4), move(9, 9))
	in := m.Session().Inputs
	if in.Origin != geom.Pt(1, 2) || in.Current != geom.Pt(9, 9) || in.Previous != geom.Pt(3, 4) || !in.IsPointerDown {
		t.Errorf("inputs = %+v", in)
	}
}

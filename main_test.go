package main

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"scrawl/asset"
	"scrawl/geom"
	"scrawl/shape"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := defaultConfig()
	m := initialModel(cfg)
	m.width, m.height = 80, 25
	return m
}

func key(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func drag(x0, y0, x1, y1 int) []tea.Msg {
	return []tea.Msg{
		tea.MouseMsg{X: x0, Y: y0, Type: tea.MouseLeft},
		tea.MouseMsg{X: x1, Y: y1, Type: tea.MouseMotion},
		tea.MouseMsg{X: x1, Y: y1, Type: tea.MouseRelease},
	}
}

func TestDragCreatesRectangle(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("r"))
	if m.active != string(shape.TypeRectangle) {
		t.Fatalf("active tool = %q", m.active)
	}
	m = send(t, m, drag(2, 2, 10, 6)...)

	shapes := m.page.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("shapes = %d, want 1", len(shapes))
	}
	s := shapes[0]
	if s.Point != geom.Pt(20, 40) || s.Size != geom.Pt(64, 64) {
		t.Errorf("rectangle at %v size %v", s.Point, s.Size)
	}
	if m.page.IsPending(s.ID) {
		t.Error("rectangle left uncommitted")
	}
	if !m.activeTool().Is("idle") {
		t.Errorf("state = %s", m.activeTool().State())
	}
}

func TestEscapeCancelsGesture(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m,
		key("e"),
		tea.MouseMsg{X: 1, Y: 1, Type: tea.MouseLeft},
		tea.MouseMsg{X: 9, Y: 5, Type: tea.MouseMotion},
	)
	if m.page.Len() != 1 {
		t.Fatalf("shapes during drag = %d", m.page.Len())
	}
	m = send(t, m, key("esc"), tea.MouseMsg{X: 9, Y: 5, Type: tea.MouseRelease})
	if m.page.Len() != 0 {
		t.Errorf("shapes after cancel = %d", m.page.Len())
	}
}

func TestSwitchToolCancelsGesture(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m,
		key("d"),
		tea.MouseMsg{X: 1, Y: 1, Type: tea.MouseLeft},
		tea.MouseMsg{X: 4, Y: 2, Type: tea.MouseMotion},
		key("v"),
	)
	if m.page.Len() != 0 {
		t.Errorf("stroke survived tool switch")
	}
	if m.active != "select" {
		t.Errorf("active = %q", m.active)
	}
}

func TestPressOnStatusLineIgnored(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("r"), tea.MouseMsg{X: 3, Y: m.height - 1, Type: tea.MouseLeft})
	if !m.activeTool().Is("idle") {
		t.Errorf("state = %s", m.activeTool().State())
	}
}

func TestRotateAndDeleteSelection(t *testing.T) {
	m := newTestModel(t)
	rect := m.reg.Get(shape.TypeRectangle).Create(shape.WithSize(40, 40))
	locked := m.reg.Get(shape.TypeRectangle).Create(shape.WithSize(40, 40))
	locked.IsLocked = true
	m.page.Add(rect)
	m.page.Add(locked)
	m.page.Select([]string{rect.ID, locked.ID}, false)

	m = send(t, m, key("]"))
	got, _ := m.page.Get(rect.ID)
	if got.Rotation != rotateStep {
		t.Errorf("rotation = %v, want %v", got.Rotation, rotateStep)
	}
	if l, _ := m.page.Get(locked.ID); l.Rotation != 0 {
		t.Error("locked shape rotated")
	}

	m = send(t, m, key("delete"))
	if _, ok := m.page.Get(rect.ID); ok {
		t.Error("selected shape not deleted")
	}
	if _, ok := m.page.Get(locked.ID); !ok {
		t.Error("locked shape deleted")
	}
}

func TestKeyboardEditsWaitForGesture(t *testing.T) {
	m := newTestModel(t)
	s := m.reg.Get(shape.TypeRectangle).Create(shape.WithSize(40, 40))
	m.page.Add(s)
	m.page.Select([]string{s.ID}, false)
	m = send(t, m, tea.MouseMsg{X: 2, Y: 1, Type: tea.MouseLeft}, key("x"))
	if m.page.Len() != 1 {
		t.Error("delete ran during a gesture")
	}
	if m.errorMessage == "" {
		t.Error("no status message for refused edit")
	}
}

func TestAttachAssetResolves(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rows.json"), []byte(`[{"b":2,"a":1},{"a":3}]`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	cfg.AssetDirectory = dir
	m := initialModel(cfg)
	m.width, m.height = 80, 25

	m = send(t, m, key("g"), tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseLeft}, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseRelease})
	grid := m.page.Shapes()[0]
	m.page.Select([]string{grid.ID}, false)

	cmd := m.attachAsset("rows.json")
	if cmd == nil {
		t.Fatal("no fetch command")
	}
	grid, _ = m.page.Get(grid.ID)
	if _, err := m.assets.Get(grid.AssetID); err != nil {
		t.Fatalf("asset not registered: %v", err)
	}
	d := m.reg.Get(shape.TypeGrid).Render(grid)
	if !d.Embed.Loading() {
		t.Errorf("state before fetch = %v", d.Embed.Status.State)
	}

	m = send(t, m, cmd())
	d = m.reg.Get(shape.TypeGrid).Render(grid)
	if d.Embed.Grid == nil {
		t.Fatalf("grid not resolved: %+v", d.Embed.Status)
	}
	if cols := d.Embed.Grid.Columns; len(cols) != 2 || cols[0] != "a" || cols[1] != "b" {
		t.Errorf("columns = %v", cols)
	}

	m = send(t, m, key("x"))
	if st := m.resolver.Status(grid.ID); st.State != asset.StateIdle {
		t.Errorf("status after delete = %v", st.State)
	}
	if m.assets.Len() != 0 {
		t.Error("asset survived shape deletion")
	}
}

func TestAttachAssetNeedsEmbedSelection(t *testing.T) {
	m := newTestModel(t)
	if cmd := m.attachAsset("rows.json"); cmd != nil {
		t.Error("fetch started without a target")
	}
	if m.errorMessage == "" {
		t.Error("missing error message")
	}
}

func TestAttachAssetWithoutFetcherFails(t *testing.T) {
	m := newTestModel(t)
	s := m.reg.Get(shape.TypeChart).Create()
	m.page.Add(s)
	m.page.Select([]string{s.ID}, false)

	cmd := m.attachAsset("fig.json")
	m = send(t, m, cmd())
	if st := m.resolver.Status(s.ID); st.State != asset.StateError {
		t.Errorf("state = %v, want error", st.State)
	}
	if m.errorMessage == "" {
		t.Error("fetch failure not reported")
	}
}

func TestStorageKeyFromClipboard(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"rows.json", "rows.json"},
		{"  rows.json \r\nextra", "rows.json"},
		{"\n\n  \nfig.json\n", "fig.json"},
		{"a\x00b\x1bc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := storageKeyFromClipboard(tt.in); got != tt.want {
			t.Errorf("storageKeyFromClipboard(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCellWorldMapping(t *testing.T) {
	m := newTestModel(t)
	m.panX, m.panY = 3, -2
	for _, c := range [][2]int{{0, 0}, {5, 7}, {79, 23}} {
		p := m.cellToWorld(c[0], c[1])
		x, y := m.worldToCell(p)
		if x != c[0] || y != c[1] {
			t.Errorf("cell %v -> %v -> (%d,%d)", c, p, x, y)
		}
	}
	if p := m.cellToWorld(0, 0); p != geom.Pt(28, -24) {
		t.Errorf("cellToWorld(0,0) = %v", p)
	}

	m = send(t, m, key("l"), key("L"), key("k"))
	if m.panX != 8 || m.panY != -3 {
		t.Errorf("pan = (%d,%d)", m.panX, m.panY)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("?"))
	if !m.help {
		t.Fatal("help not shown")
	}
	m = send(t, m, key("r"))
	if m.active != "select" {
		t.Error("tool key handled while help shown")
	}
	m = send(t, m, key("esc"))
	if m.help {
		t.Error("help not closed")
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"scrawl/asset"
	"scrawl/internal/logging"
	"scrawl/page"
	"scrawl/shape"
	"scrawl/tool"
)

func main() {
	cfg := loadConfig()
	logFile, err := cfg.setupLogging()
	if err != nil {
		log.Fatal(err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	p := tea.NewProgram(
		initialModel(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

type model struct {
	width          int
	height         int
	panX           int
	panY           int
	help           bool
	helpScroll     int
	errorMessage   string
	successMessage string

	cfg      *Config
	ctx      context.Context
	reg      *shape.Registry
	page     *page.Page
	assets   *asset.Store
	resolver *asset.Resolver
	tools    map[string]*tool.Machine
	active   string
}

func initialModel(cfg *Config) model {
	resolver := asset.NewResolver(cfg.fetcher())
	reg := shape.NewRegistry(shape.WithAssetStatus(resolver.Status))
	pg := page.New(shape.DefaultParentID, reg)
	env := tool.Env{Registry: reg, Scene: pg, DragThreshold: cfg.DragThreshold}

	tools := map[string]*tool.Machine{
		tool.SelectToolID:      tool.NewMachine(tool.NewSelectTool(env), pg),
		string(shape.TypeDraw): tool.NewMachine(tool.NewDrawTool(env), pg),
	}
	for _, t := range []shape.Type{shape.TypeRectangle, shape.TypeEllipse, shape.TypeGrid, shape.TypeChart} {
		tools[string(t)] = tool.NewMachine(tool.NewShapeTool(env, t), pg)
	}

	return model{
		cfg:      cfg,
		ctx:      context.Background(),
		reg:      reg,
		page:     pg,
		assets:   asset.NewStore(),
		resolver: resolver,
		tools:    tools,
		active:   tool.SelectToolID,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case assetResolvedMsg:
		if m.resolver.Apply(msg.result) && msg.result.Err != nil {
			m.errorMessage = fmt.Sprintf("asset %s: %v", msg.result.Key, msg.result.Err)
		}
	case snapshotSavedMsg:
		if msg.err != nil {
			m.errorMessage = "snapshot failed: " + msg.err.Error()
		} else {
			m.successMessage = "saved " + msg.path
		}
	}
	return m, nil
}

// handleMouse turns terminal mouse reports into pointer events in page units.
func (m *model) handleMouse(msg tea.MouseMsg) {
	var typ tool.EventType
	switch msg.Type {
	case tea.MouseLeft:
		typ = tool.PointerDown
	case tea.MouseMotion:
		typ = tool.PointerMove
	case tea.MouseRelease:
		typ = tool.PointerUp
	default:
		return
	}
	if typ == tool.PointerDown {
		if m.help || msg.Y >= m.canvasHeight() {
			return
		}
		m.errorMessage, m.successMessage = "", ""
	}
	m.dispatch(tool.Event{
		Type:  typ,
		Point: m.cellToWorld(msg.X, msg.Y),
		Modifiers: tool.Modifiers{
			Shift: msg.Shift,
			Alt:   msg.Alt,
			Ctrl:  msg.Ctrl,
		},
	})
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.help {
		switch key {
		case "j", "down":
			m.helpScroll++
		case "k", "up":
			m.helpScroll = max(m.helpScroll-1, 0)
		case "esc", "?", "q":
			m.help = false
			m.helpScroll = 0
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	m.errorMessage, m.successMessage = "", ""
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.help = true
	case "esc":
		m.dispatch(tool.Event{Type: tool.Cancel})
	case "v", "r", "e", "d", "g", "c":
		m.switchTool(toolKeys[key])
	case "[":
		m.rotateSelection(-rotateStep)
	case "]":
		m.rotateSelection(rotateStep)
	case "x", "delete", "backspace":
		m.deleteSelection()
	case "y":
		m.yankSelection()
	case "p":
		return m, m.pasteAsset()
	case "s":
		return m, m.saveSnapshot()
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key, m.getMoveSpeed(key))
	default:
		m.dispatch(tool.Event{Type: tool.KeyDown, Key: key})
	}
	return m, nil
}

// switchTool abandons any gesture in the current tool before activating id.
func (m *model) switchTool(id string) {
	if id == m.active {
		return
	}
	m.dispatch(tool.Event{Type: tool.Cancel})
	m.active = id
}

// idle reports whether the active tool is between gestures. Edits made from
// the keyboard wait for gestures to finish.
func (m *model) idle() bool {
	if !m.activeTool().Is("idle") {
		m.errorMessage = "finish or cancel the current gesture first"
		return false
	}
	return true
}

func (m *model) rotateSelection(delta float64) {
	if !m.idle() {
		return
	}
	for _, s := range m.page.Selected() {
		if s.IsLocked {
			continue
		}
		next := m.reg.Get(s.Type).RotateTo(s, s.Rotation+delta)
		if err := m.page.Update(next); err != nil {
			m.errorMessage = err.Error()
			return
		}
	}
}

func (m *model) deleteSelection() {
	if !m.idle() {
		return
	}
	n := 0
	for _, s := range m.page.Selected() {
		if s.IsLocked {
			continue
		}
		if err := m.page.Remove(s.ID); err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.resolver.Cancel(s.ID)
		if s.AssetID != "" {
			m.assets.Remove(s.AssetID)
		}
		n++
	}
	if n > 0 {
		m.successMessage = fmt.Sprintf("deleted %d shape(s)", n)
	}
}

func (m *model) yankSelection() {
	sel := m.page.Selected()
	if len(sel) == 0 {
		m.errorMessage = "nothing selected"
		return
	}
	ids := make([]string, len(sel))
	for i, s := range sel {
		ids[i] = s.ID
	}
	if err := writeClipboardText(strings.Join(ids, "\n")); err != nil {
		m.errorMessage = "clipboard: " + err.Error()
		return
	}
	m.successMessage = fmt.Sprintf("yanked %d id(s)", len(ids))
}

func (m *model) pasteAsset() tea.Cmd {
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = "clipboard: " + err.Error()
		return nil
	}
	return m.attachAsset(storageKeyFromClipboard(text))
}

// attachAsset points the selected grid or chart at a new asset stored under
// key and starts resolving it. The returned command performs the fetch.
func (m *model) attachAsset(key string) tea.Cmd {
	target := m.selectedEmbed()
	if target == nil {
		m.errorMessage = "select a grid or chart to paste into"
		return nil
	}
	a := asset.Asset{ID: "asset:" + uuid.NewString(), StorageKey: key, Kind: assetKind(target.Type)}
	next, err := m.reg.Get(target.Type).SetProperty(target, shape.PropAssetID, a.ID)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	if err := m.page.Update(next); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.assets.Put(a)
	if target.AssetID != "" {
		m.assets.Remove(target.AssetID)
	}
	logging.Logger().Info("tui: asset attached", "shape", next.ID, "asset", a.ID, "key", key)
	return m.resolve(next)
}

func (m *model) resolve(s *shape.Shape) tea.Cmd {
	a, err := m.assets.Get(s.AssetID)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	req := m.resolver.Begin(m.ctx, s.ID, a)
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return assetResolvedMsg{result: req.Run()}
	}
}

var (
	toolStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f2f2f2")).Background(lipgloss.Color("#4465e9")).Padding(0, 1)
	paletteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a7a7a")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a7a7a"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#099268"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e03131"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	var result strings.Builder
	result.WriteString(m.renderCanvas().String())
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) statusLine() string {
	var palette []string
	for _, id := range toolOrder {
		if id == m.active {
			palette = append(palette, toolStyle.Render(id))
		} else {
			palette = append(palette, paletteStyle.Render(id))
		}
	}
	status := fmt.Sprintf(" %s | shapes %d | selected %d | pan (%d,%d)",
		m.activeTool().State(), m.page.Len(), len(m.page.Selected()), m.panX, m.panY)
	line := lipgloss.JoinHorizontal(lipgloss.Top, palette...) + statusStyle.Render(status)
	switch {
	case m.errorMessage != "":
		line += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		line += " " + successStyle.Render(m.successMessage)
	default:
		line += statusStyle.Render(" | ? for help | q to quit")
	}
	return line
}

func (m model) helpView() string {
	helpLines := []string{
		"scrawl Help",
		"===========",
		"",
		"Tools:",
		"------",
		"  v                Select, move and resize shapes",
		"  r                Rectangle",
		"  e                Ellipse",
		"  d                Freehand draw",
		"  g                Grid widget",
		"  c                Chart widget",
		"",
		"Mouse:",
		"------",
		"  click            Create a default-size shape, or select under the pointer",
		"  drag             Draw out a shape, move the selection, or brush-select",
		"  shift+drag       Keep aspect square, or add to the selection",
		"  drag ◢ handle    Resize the selection",
		"",
		"Editing:",
		"--------",
		"  [ / ]            Rotate selection",
		"  x/Delete         Delete selection",
		"  y                Yank selected shape ids to the clipboard",
		"  p                Paste a storage key onto the selected grid or chart",
		"  s                Save a PNG snapshot of the page",
		"",
		"Navigation:",
		"-----------",
		"  h/←/j/↓/k/↑/l/→  Pan the page",
		"  Shift+h/j/k/l    Pan faster",
		"",
		"General:",
		"  Esc              Cancel the current gesture",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit",
	}

	visibleHeight := m.canvasHeight()
	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}

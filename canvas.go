package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scrawl/geom"
	"scrawl/shape"
)

const (
	ellipseSegments = 48
	selectionColor  = "#4465e9"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Canvas is a character raster of the visible part of the page.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

func NewCanvas(width, height int) *Canvas {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	c := &Canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *Canvas) isValidPos(x, y int) bool {
	return y >= 0 && y < c.height && x >= 0 && x < c.width
}

func (c *Canvas) set(x, y int, r rune, color string) {
	if c.isValidPos(x, y) {
		c.cells[y][x] = cell{r: r, color: color}
	}
}

func (c *Canvas) at(x, y int) rune {
	if !c.isValidPos(x, y) {
		return 0
	}
	return c.cells[y][x].r
}

// line plots a segment between two cells. A zero rune picks a character from
// the slope. dash is the number of cells drawn before one is skipped; zero
// draws every cell.
func (c *Canvas) line(x0, y0, x1, y1 int, r rune, dash int, color string) {
	if r == 0 {
		r = slopeRune(x1-x0, y1-y0)
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for step := 0; ; step++ {
		if dash == 0 || step%(dash+1) != dash {
			c.set(x0, y0, r, color)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func slopeRune(dx, dy int) rune {
	switch {
	case abs(dx) >= 2*abs(dy):
		return '-'
	case abs(dy) >= 2*abs(dx):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

// polygon strokes the closed ring through pts. Vertices get corner, unless
// corner is zero.
func (c *Canvas) polygon(pts [][2]int, r, corner rune, dash int, color string) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		c.line(a[0], a[1], b[0], b[1], r, dash, color)
	}
	if corner == 0 {
		return
	}
	for _, p := range pts {
		c.set(p[0], p[1], corner, color)
	}
}

func (c *Canvas) text(x, y int, s string, maxWidth int, color string) {
	i := 0
	for _, r := range s {
		if i >= maxWidth {
			return
		}
		c.set(x+i, y, r, color)
		i++
	}
}

// Lines returns the raster as plain text rows.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	var b strings.Builder
	for y, row := range c.cells {
		b.Reset()
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		lines[y] = b.String()
	}
	return lines
}

// String renders the raster with each run of same-colored cells styled.
func (c *Canvas) String() string {
	var out strings.Builder
	var run strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		color := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color == "" {
				out.WriteString(run.String())
			} else {
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.color != color {
				flush()
				color = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return out.String()
}

// renderCanvas rasterizes the visible shapes in draw order, then the
// selection and any brush on top.
func (m *model) renderCanvas() *Canvas {
	c := NewCanvas(m.canvasWidth(), m.canvasHeight())
	for _, s := range m.page.Shapes() {
		if s.IsHidden {
			continue
		}
		m.drawDrawable(c, m.reg.Get(s.Type).Render(s))
	}
	if b, ok := m.page.SelectionBounds(); ok {
		m.drawBounds(c, b, '·', selectionColor)
		x, y := m.worldToCell(geom.Pt(b.MaxX, b.MaxY))
		c.set(x, y, '◢', selectionColor)
	}
	if brush := m.activeTool().Session().Brush; brush != nil {
		m.drawBounds(c, *brush, '.', selectionColor)
	}
	return c
}

func (m *model) toCells(d shape.Drawable, local []geom.Point) [][2]int {
	out := make([][2]int, len(local))
	for i, p := range local {
		x, y := m.worldToCell(d.ToWorld(p))
		out[i] = [2]int{x, y}
	}
	return out
}

func dashLength(d shape.Dash) int {
	switch d {
	case shape.DashDashed:
		return 2
	case shape.DashDotted:
		return 1
	default:
		return 0
	}
}

func boxCorners(size geom.Point) []geom.Point {
	return []geom.Point{{}, {X: size.X}, size, {Y: size.Y}}
}

func ellipsePoints(size geom.Point, n int) []geom.Point {
	rx, ry := size.X/2, size.Y/2
	pts := make([]geom.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Pt(rx+rx*math.Cos(a), ry+ry*math.Sin(a))
	}
	return pts
}

func (m *model) drawDrawable(c *Canvas, d shape.Drawable) {
	color := string(d.Color)
	switch d.Kind {
	case shape.DrawDot:
		x, y := m.worldToCell(d.ToWorld(d.Center))
		c.set(x, y, '•', color)
	case shape.DrawPath:
		c.polygon(m.toCells(d, d.Outline), '•', 0, 0, color)
	case shape.DrawRect:
		pts := boxCorners(d.Size)
		if d.Filled {
			m.fill(c, d, pts, '░', color)
		}
		c.polygon(m.toCells(d, pts), 0, '+', dashLength(d.Dash), color)
	case shape.DrawEllipse:
		pts := ellipsePoints(d.Size, ellipseSegments)
		if d.Filled {
			m.fill(c, d, pts, '░', color)
		}
		c.polygon(m.toCells(d, pts), 0, 0, dashLength(d.Dash), color)
	case shape.DrawEmbed:
		m.drawEmbed(c, d)
	}
}

// fill marks every cell whose center falls inside the local polygon.
func (m *model) fill(c *Canvas, d shape.Drawable, local []geom.Point, r rune, color string) {
	world := make([]geom.Point, len(local))
	for i, p := range local {
		world[i] = d.ToWorld(p)
	}
	b := geom.BoundsFromPoints(world)
	x0, y0 := m.worldToCell(geom.Pt(b.MinX, b.MinY))
	x1, y1 := m.worldToCell(geom.Pt(b.MaxX, b.MaxY))
	for y := max(y0, 0); y <= min(y1, c.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.width-1); x++ {
			if geom.PointInPolygon(world, m.cellToWorld(x, y)) {
				c.set(x, y, r, color)
			}
		}
	}
}

func (m *model) drawBounds(c *Canvas, b geom.Bounds, r rune, color string) {
	x0, y0 := m.worldToCell(geom.Pt(b.MinX, b.MinY))
	x1, y1 := m.worldToCell(geom.Pt(b.MaxX, b.MaxY))
	c.polygon([][2]int{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}, r, 0, 0, color)
}

func (m *model) drawEmbed(c *Canvas, d shape.Drawable) {
	color := string(d.Color)
	pts := m.toCells(d, boxCorners(d.Size))
	c.polygon(pts, 0, '+', 0, color)

	x0, y0 := m.worldToCell(d.ToWorld(geom.Point{}))
	x1, y1 := m.worldToCell(d.ToWorld(d.Size))
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	width := x1 - x0 - 1
	if d.Embed != nil && d.Embed.Failed() {
		color = string(shape.ColorRed)
	}
	for i, line := range embedLines(d.Embed) {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		c.text(x0+1, y, line, width, color)
	}
}

// embedLines is the text content of an embedded widget, used by both the
// terminal and the PNG renderer.
func embedLines(e *shape.Embed) []string {
	if e == nil {
		return nil
	}
	switch {
	case e.Loading():
		return []string{"loading " + e.Status.Key + "…"}
	case e.Failed():
		return []string{"error: " + errString(e.Status.Err)}
	case e.Grid != nil:
		return gridLines(e.Grid.Columns, e.Grid.Rows)
	case e.Chart != nil:
		lines := []string{fmt.Sprintf("chart: %d traces", len(e.Chart.Traces))}
		if spark := sparkline(e.Chart.Traces); spark != "" {
			lines = append(lines, spark)
		}
		return lines
	case e.AssetID == "":
		return []string{"no data (p to paste a key)"}
	default:
		return []string{"waiting for data"}
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

func gridLines(columns []string, rows []map[string]any) []string {
	lines := []string{strings.Join(columns, " | ")}
	for _, row := range rows {
		vals := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok && v != nil {
				vals[i] = fmt.Sprint(v)
			}
		}
		lines = append(lines, strings.Join(vals, " | "))
	}
	return lines
}

// sparkline draws the y values of the first trace that has any.
func sparkline(traces []any) string {
	for _, t := range traces {
		trace, ok := t.(map[string]any)
		if !ok {
			continue
		}
		ys, ok := trace["y"].([]any)
		if !ok || len(ys) == 0 {
			continue
		}
		vals := make([]float64, 0, len(ys))
		for _, y := range ys {
			if f, ok := y.(float64); ok {
				vals = append(vals, f)
			}
		}
		if len(vals) == 0 {
			continue
		}
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			lo, hi = min(lo, v), max(hi, v)
		}
		var b strings.Builder
		for _, v := range vals {
			i := 0
			if hi > lo {
				i = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
			}
			b.WriteRune(sparkRunes[i])
		}
		return b.String()
	}
	return ""
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package main

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"scrawl/geom"
	"scrawl/shape"
)

var errNothingToExport = errors.New("nothing to export")

// saveSnapshot collects the page's drawables on the event loop and returns
// a command that writes them to a PNG.
func (m *model) saveSnapshot() tea.Cmd {
	var (
		drawables []shape.Drawable
		bounds    geom.Bounds
	)
	for _, s := range m.page.Shapes() {
		if s.IsHidden {
			continue
		}
		u := m.reg.Get(s.Type)
		rb := u.RotatedBounds(s)
		if len(drawables) == 0 {
			bounds = rb
		} else {
			bounds = geom.Union(bounds, rb)
		}
		drawables = append(drawables, u.Render(s))
	}
	if len(drawables) == 0 {
		m.errorMessage = errNothingToExport.Error()
		return nil
	}

	path := m.cfg.GetSnapshotPath(snapshotPrefix + time.Now().Format("20060102-150405") + ".png")
	return func() tea.Msg {
		dc, err := renderPNG(drawables, bounds)
		if err == nil {
			err = dc.SavePNG(path)
		}
		return snapshotSavedMsg{path: path, err: err}
	}
}

// renderPNG draws drawables onto a white image covering bounds plus padding.
func renderPNG(drawables []shape.Drawable, bounds geom.Bounds) (*gg.Context, error) {
	if len(drawables) == 0 {
		return nil, errNothingToExport
	}
	b := geom.Expand(bounds, snapshotPadding)
	imageWidth := max(int(b.Width+0.5), 1)
	imageHeight := max(int(b.Height+0.5), 1)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    snapshotFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, d := range drawables {
		drawPNG(dc, d, b.MinX, b.MinY)
	}
	return dc, nil
}

func drawPNG(dc *gg.Context, d shape.Drawable, minX, minY float64) {
	dc.Push()
	defer dc.Pop()

	dc.Translate(d.Point.X-minX, d.Point.Y-minY)
	dc.RotateAbout(d.Rotation, d.Pivot.X, d.Pivot.Y)
	dc.SetHexColor(string(d.Color))
	dc.SetLineWidth(d.StrokeWidth)
	switch d.Dash {
	case shape.DashDashed:
		dc.SetDash(d.StrokeWidth*2, d.StrokeWidth*2)
	case shape.DashDotted:
		dc.SetDash(d.StrokeWidth/2, d.StrokeWidth*2)
	}

	switch d.Kind {
	case shape.DrawDot:
		dc.DrawCircle(d.Center.X, d.Center.Y, d.Radius)
		dc.Fill()
	case shape.DrawPath:
		for i, p := range d.Outline {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
		dc.Fill()
	case shape.DrawRect:
		dc.DrawRectangle(0, 0, d.Size.X, d.Size.Y)
		strokeOrFill(dc, d.Filled)
	case shape.DrawEllipse:
		dc.DrawEllipse(d.Size.X/2, d.Size.Y/2, d.Size.X/2, d.Size.Y/2)
		strokeOrFill(dc, d.Filled)
	case shape.DrawEmbed:
		drawEmbedPNG(dc, d)
	}
}

func strokeOrFill(dc *gg.Context, filled bool) {
	if filled {
		dc.FillPreserve()
	}
	dc.Stroke()
}

// drawEmbedPNG draws the widget frame and its text content. Loading embeds
// get a grey wash and failed ones a red one.
func drawEmbedPNG(dc *gg.Context, d shape.Drawable) {
	dc.DrawRectangle(0, 0, d.Size.X, d.Size.Y)
	switch {
	case d.Embed != nil && d.Embed.Loading():
		dc.SetRGBA(0, 0, 0, 0.08)
		dc.FillPreserve()
	case d.Embed != nil && d.Embed.Failed():
		dc.SetRGBA(0.88, 0.19, 0.19, 0.12)
		dc.FillPreserve()
	}
	dc.SetHexColor(string(d.Color))
	dc.Stroke()

	if d.Embed != nil && d.Embed.Failed() {
		dc.SetHexColor(string(shape.ColorRed))
	}
	lineHeight := dc.FontHeight() * 1.4
	y := lineHeight
	for _, line := range embedLines(d.Embed) {
		if y > d.Size.Y {
			break
		}
		dc.DrawString(line, 4, y)
		y += lineHeight
	}
}

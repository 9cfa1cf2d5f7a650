package main

import (
	"math"

	"scrawl/geom"
)

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

// cellToWorld returns the page point at the center of screen cell (x, y).
func (m *model) cellToWorld(x, y int) geom.Point {
	return geom.Pt(
		(float64(x+m.panX)+0.5)*m.cfg.CellWidth,
		(float64(y+m.panY)+0.5)*m.cfg.CellHeight,
	)
}

// worldToCell returns the screen cell containing page point p.
func (m *model) worldToCell(p geom.Point) (int, int) {
	x := int(math.Floor(p.X/m.cfg.CellWidth)) - m.panX
	y := int(math.Floor(p.Y/m.cfg.CellHeight)) - m.panY
	return x, y
}

// canvasHeight is the number of rows left for the canvas above the status line.
func (m *model) canvasHeight() int {
	return max(m.height-1, 1)
}

func (m *model) canvasWidth() int {
	return max(m.width, 1)
}

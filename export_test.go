package main

import (
	"errors"
	"os"
	"testing"

	"scrawl/geom"
	"scrawl/shape"
)

func TestRenderPNGSize(t *testing.T) {
	reg := shape.NewRegistry()
	rect := reg.Get(shape.TypeRectangle).Create(shape.WithPoint(geom.Pt(10, 10)), shape.WithSize(100, 50))
	grid := reg.Get(shape.TypeGrid).Create(shape.WithPoint(geom.Pt(10, 10)), shape.WithSize(40, 40))
	drawables := []shape.Drawable{
		reg.Get(shape.TypeRectangle).Render(rect),
		reg.Get(shape.TypeGrid).Render(grid),
	}

	dc, err := renderPNG(drawables, geom.BoundsFromRect(10, 10, 100, 50))
	if err != nil {
		t.Fatal(err)
	}
	if dc.Width() != 132 || dc.Height() != 82 {
		t.Errorf("image %dx%d, want 132x82", dc.Width(), dc.Height())
	}

	if _, err := renderPNG(nil, geom.Bounds{}); !errors.Is(err, errNothingToExport) {
		t.Errorf("empty render err = %v", err)
	}
}

func TestSaveSnapshot(t *testing.T) {
	m := newTestModel(t)
	if cmd := m.saveSnapshot(); cmd != nil || m.errorMessage == "" {
		t.Error("empty page should not export")
	}

	m.cfg.SnapshotDirectory = t.TempDir()
	stroke := m.reg.Get(shape.TypeDraw).Create(shape.WithPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(30, 12), geom.Pt(60, 4)}))
	m.page.Add(stroke)
	cmd := m.saveSnapshot()
	if cmd == nil {
		t.Fatal("no snapshot command")
	}
	msg, ok := cmd().(snapshotSavedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("snapshot = %+v", msg)
	}
	if _, err := os.Stat(msg.path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

package main

import (
	"math"

	"scrawl/shape"
	"scrawl/tool"
)

const (
	defaultCellWidth     = 8.0
	defaultCellHeight    = 16.0
	defaultDragThreshold = tool.DefaultDragThreshold

	rotateStep = math.Pi / 12

	snapshotPadding  = 16.0
	snapshotFontSize = 12.0
	snapshotPrefix   = "scrawl-"
)

// Tool ids in palette order. Shape tools are named after the type they create.
var toolOrder = []string{
	tool.SelectToolID,
	string(shape.TypeRectangle),
	string(shape.TypeEllipse),
	string(shape.TypeDraw),
	string(shape.TypeGrid),
	string(shape.TypeChart),
}

var toolKeys = map[string]string{
	"v": tool.SelectToolID,
	"r": string(shape.TypeRectangle),
	"e": string(shape.TypeEllipse),
	"d": string(shape.TypeDraw),
	"g": string(shape.TypeGrid),
	"c": string(shape.TypeChart),
}

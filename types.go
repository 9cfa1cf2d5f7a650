package main

import "scrawl/asset"

// assetResolvedMsg carries a finished fetch back to the event loop.
type assetResolvedMsg struct {
	result asset.Result
}

type snapshotSavedMsg struct {
	path string
	err  error
}

// cell is one character of the rasterized canvas.
type cell struct {
	r     rune
	color string
}

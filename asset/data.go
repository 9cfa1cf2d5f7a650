package asset

import (
	"maps"
	"slices"
)

// Grid is the table an embedded data grid displays.
type Grid struct {
	Columns []string
	Rows    []map[string]any
}

// GridFromData derives a grid from decoded data. Only an array of objects
// yields rows; columns are the keys of the first row, sorted. Anything else
// yields an empty grid.
func GridFromData(data any) Grid {
	items, ok := data.([]any)
	if !ok {
		return Grid{}
	}
	var g Grid
	for _, it := range items {
		if row, ok := it.(map[string]any); ok {
			g.Rows = append(g.Rows, row)
		}
	}
	if len(g.Rows) > 0 {
		g.Columns = slices.Sorted(maps.Keys(g.Rows[0]))
	}
	return g
}

// Chart is the figure an embedded chart displays.
type Chart struct {
	Traces []any
	Layout map[string]any
}

// ChartFromData derives a chart from a decoded {"data": [...], "layout": {...}}
// figure. The layout is copied and its width and height are replaced by the
// shape's size so the figure always fills its box.
func ChartFromData(data any, width, height float64) Chart {
	c := Chart{Layout: map[string]any{}}
	fig, ok := data.(map[string]any)
	if ok {
		if traces, ok := fig["data"].([]any); ok {
			c.Traces = traces
		}
		if layout, ok := fig["layout"].(map[string]any); ok {
			maps.Copy(c.Layout, layout)
		}
	}
	c.Layout["width"] = width
	c.Layout["height"] = height
	return c
}

package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"scrawl/asset"
	"scrawl/internal/logging"
	"scrawl/shape"
	"scrawl/tool"
)

func (m *model) activeTool() *tool.Machine {
	return m.tools[m.active]
}

// dispatch sends ev to the active tool and reports failures on the status line.
func (m *model) dispatch(ev tool.Event) {
	if err := m.activeTool().Dispatch(ev); err != nil {
		m.errorMessage = err.Error()
		logging.Logger().Error("tui: tool event failed", "tool", m.active, "event", ev.Type.String(), "err", err)
	}
}

// selectedEmbed returns the topmost selected grid or chart.
func (m *model) selectedEmbed() *shape.Shape {
	sel := m.page.Selected()
	for i := len(sel) - 1; i >= 0; i-- {
		if sel[i].Type == shape.TypeGrid || sel[i].Type == shape.TypeChart {
			return sel[i]
		}
	}
	return nil
}

func assetKind(t shape.Type) asset.Kind {
	if t == shape.TypeChart {
		return asset.KindFigure
	}
	return asset.KindTable
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// storageKeyFromClipboard keeps the first non-blank line of text with
// control characters removed.
func storageKeyFromClipboard(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, line := range strings.Split(text, "\n") {
		var b strings.Builder
		b.Grow(len(line))
		for _, r := range line {
			if r == '\t' || (r >= 32 && r != 127) {
				b.WriteRune(r)
			}
		}
		if key := strings.TrimSpace(b.String()); key != "" {
			return key
		}
	}
	return ""
}

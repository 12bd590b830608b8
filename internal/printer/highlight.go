// Package printer renders match output for the CLI, colorizing matched
// spans (SPEC_FULL.md C, "Colorized match highlighting").
package printer

import (
	"io"

	"github.com/fatih/color"

	"github.com/bp-lang/bp/pattern"
)

// Highlighter wraps matched spans in a color escape sequence, falling
// back to plain text when color is disabled.
type Highlighter struct {
	c *color.Color
}

// NewHighlighter builds a Highlighter using color.FgRed+Bold for
// matches. When force is true, color is emitted even when stdout isn't
// a terminal (the CLI's -c flag); otherwise fatih/color's own
// go-isatty-based auto-detection governs color.NoColor.
func NewHighlighter(force bool) *Highlighter {
	c := color.New(color.FgRed, color.Bold)
	if force {
		c.EnableColor()
	}
	return &Highlighter{c: c}
}

// WriteLine writes line to w, highlighting every span in spans that
// falls within it. spans must be sorted by Start and use absolute
// offsets into the buffer line was sliced from; lineStart is that
// buffer's offset for line[0].
func (h *Highlighter) WriteLine(w io.Writer, line []byte, lineStart int, spans []*pattern.Match) error {
	cur := 0
	for _, m := range spans {
		start, end := m.Start-lineStart, m.End-lineStart
		if start < 0 {
			start = 0
		}
		if end > len(line) {
			end = len(line)
		}
		if start >= end || start < cur {
			continue
		}
		if _, err := w.Write(line[cur:start]); err != nil {
			return err
		}
		if _, err := h.c.Fprint(w, string(line[start:end])); err != nil {
			return err
		}
		cur = end
	}
	if cur < len(line) {
		if _, err := w.Write(line[cur:]); err != nil {
			return err
		}
	}
	return nil
}

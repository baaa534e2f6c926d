// Package preview renders boards as ASCII for quick terminal inspection.
package preview

import (
	"strings"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

const glyphs = "0123456789abcdefghijklmnopqrstuvwxyz"

// Mask renders occupancy only: '#' for a filled cell, '.' for empty.
func Mask(g domain.Grid) string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Occupied(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Indices renders each cell as its palette index glyph, '.' for empty.
// Indices beyond the glyph table render as '?'.
func Indices(g domain.Grid) string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.At(x, y)
			switch {
			case c == domain.Empty:
				b.WriteByte('.')
			case int(c) < len(glyphs):
				b.WriteByte(glyphs[c])
			default:
				b.WriteByte('?')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Board renders the top and slots layers side by side with headers.
func Board(b *domain.Board) string {
	top := strings.Split(strings.TrimRight(Indices(b.Top), "\n"), "\n")
	slots := strings.Split(strings.TrimRight(Indices(b.Slots), "\n"), "\n")

	var out strings.Builder
	out.WriteString("top")
	out.WriteString(strings.Repeat(" ", b.W+1))
	out.WriteString("slots\n")
	for i := range top {
		out.WriteString(top[i])
		out.WriteString("    ")
		out.WriteString(slots[i])
		out.WriteByte('\n')
	}
	return out.String()
}

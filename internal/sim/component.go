package sim

import (
	"sort"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

// Component is a maximal 4-connected region of equal-colored top cells.
// Components are always derived from the current top layer, never stored.
type Component struct {
	Color domain.Cell
	Cells []domain.Pos
	Rep   domain.Pos // topmost-then-leftmost cell, the canonical tap point
}

var dirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ComponentAt flood-fills the component containing p, or returns false if
// p is out of range or empty.
func ComponentAt(top domain.Grid, p domain.Pos) (Component, bool) {
	if !top.In(p.X, p.Y) || !top.Occupied(p.X, p.Y) {
		return Component{}, false
	}
	color := top.At(p.X, p.Y)
	seen := make([]bool, len(top.Cells))
	queue := []domain.Pos{p}
	seen[p.Y*top.W+p.X] = true
	var cells []domain.Pos
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cells = append(cells, cur)
		for _, d := range dirs {
			nx, ny := cur.X+d[0], cur.Y+d[1]
			if top.In(nx, ny) && !seen[ny*top.W+nx] && top.At(nx, ny) == color {
				seen[ny*top.W+nx] = true
				queue = append(queue, domain.Pos{X: nx, Y: ny})
			}
		}
	}
	return Component{Color: color, Cells: cells, Rep: repOf(cells)}, true
}

// Components derives all components of the top layer in deterministic
// order: largest first, ties broken by representative position.
func Components(top domain.Grid) []Component {
	seen := make([]bool, len(top.Cells))
	var out []Component
	for y := 0; y < top.H; y++ {
		for x := 0; x < top.W; x++ {
			if seen[y*top.W+x] || !top.Occupied(x, y) {
				continue
			}
			comp, _ := ComponentAt(top, domain.Pos{X: x, Y: y})
			for _, c := range comp.Cells {
				seen[c.Y*top.W+c.X] = true
			}
			out = append(out, comp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Cells) != len(out[j].Cells) {
			return len(out[i].Cells) > len(out[j].Cells)
		}
		if out[i].Rep.Y != out[j].Rep.Y {
			return out[i].Rep.Y < out[j].Rep.Y
		}
		return out[i].Rep.X < out[j].Rep.X
	})
	return out
}

// MaxComponentSize returns the size of the largest component, zero for an
// empty layer.
func MaxComponentSize(top domain.Grid) int {
	max := 0
	for _, c := range Components(top) {
		if len(c.Cells) > max {
			max = len(c.Cells)
		}
	}
	return max
}

func repOf(cells []domain.Pos) domain.Pos {
	rep := cells[0]
	for _, c := range cells[1:] {
		if c.Y < rep.Y || (c.Y == rep.Y && c.X < rep.X) {
			rep = c
		}
	}
	return rep
}

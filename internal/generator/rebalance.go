package generator

import (
	"sort"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/sim"
)

// RebalanceInfo reports the outcome of the dominant-color adjustment.
type RebalanceInfo struct {
	OK            bool
	Iterations    int
	DominantColor domain.Cell
	DominantShare float64
}

// Rebalance makes the per-cell mismatch derivation feasible by cutting
// thin seams into the dominant color's largest component until no color
// exceeds maxShare of the occupied cells. The occupancy mask is never
// changed, only palette indices within already-occupied cells, and the
// intervention is deterministic. Runs before placement ordering is
// computed, never after.
func Rebalance(top domain.Grid, paletteSize int, maxShare float64, maxIters, seamThickness int) (domain.Grid, RebalanceInfo) {
	if maxShare <= 0 || maxShare > 1 {
		maxShare = 0.5
	}
	if maxIters <= 0 {
		maxIters = 6
	}
	if seamThickness <= 0 {
		seamThickness = 2
	}

	cells := top.Clone()
	occ := cells.OccupiedCount()
	if occ == 0 || paletteSize < 2 {
		return cells, RebalanceInfo{OK: occ == 0, DominantColor: domain.Empty}
	}

	for iter := 0; ; iter++ {
		color, count := dominant(cells)
		share := float64(count) / float64(occ)
		if share <= maxShare {
			return cells, RebalanceInfo{OK: true, Iterations: iter, DominantColor: color, DominantShare: share}
		}
		if iter >= maxIters {
			return cells, RebalanceInfo{OK: false, Iterations: iter, DominantColor: color, DominantShare: share}
		}
		cutSeam(cells, color, paletteSize, iter, seamThickness)
	}
}

func dominant(g domain.Grid) (domain.Cell, int) {
	hist := g.Histogram()
	best := domain.Cell(-1)
	bestN := -1
	for c, n := range hist {
		if n > bestN || (n == bestN && c < best) {
			best, bestN = c, n
		}
	}
	return best, bestN
}

// cutSeam recolors one thin line through the interior of the color's
// largest component, alternating cut orientation per iteration. Interior
// cells are preferred so the component's outline survives visually.
func cutSeam(g domain.Grid, color domain.Cell, paletteSize, iter, thickness int) {
	var target sim.Component
	for _, c := range sim.Components(g) {
		if c.Color == color {
			target = c
			break // Components sorts largest first
		}
	}
	if len(target.Cells) == 0 {
		return
	}

	inComp := make(map[domain.Pos]bool, len(target.Cells))
	for _, p := range target.Cells {
		inComp[p] = true
	}
	var interior []domain.Pos
	for _, p := range target.Cells {
		boundary := false
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			if !inComp[domain.Pos{X: p.X + d[0], Y: p.Y + d[1]}] {
				boundary = true
				break
			}
		}
		if !boundary {
			interior = append(interior, p)
		}
	}
	use := interior
	if len(use) == 0 {
		use = target.Cells
	}

	// Seam color cycles through the other palette indices.
	sep := domain.Cell((int(color) + 1 + iter) % paletteSize)
	if sep == color {
		sep = domain.Cell((int(sep) + 1) % paletteSize)
	}

	if iter%2 == 0 {
		line := medianLine(use, func(p domain.Pos) int { return p.X })
		for t := 0; t < thickness; t++ {
			x := line + t - thickness/2
			for _, p := range use {
				if p.X == x {
					g.Cells[p.Y*g.W+p.X] = sep
				}
			}
		}
	} else {
		line := medianLine(use, func(p domain.Pos) int { return p.Y })
		for t := 0; t < thickness; t++ {
			y := line + t - thickness/2
			for _, p := range use {
				if p.Y == y {
					g.Cells[p.Y*g.W+p.X] = sep
				}
			}
		}
	}
}

func medianLine(pts []domain.Pos, axis func(domain.Pos) int) int {
	vals := make([]int, len(pts))
	for i, p := range pts {
		vals[i] = axis(p)
	}
	sort.Ints(vals)
	return vals[len(vals)/2]
}

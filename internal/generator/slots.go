package generator

import (
	"fmt"
	"sort"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

// DeriveInfo reports how a slots layer was produced.
type DeriveInfo struct {
	Mode          domain.DeriveMode
	Shift         int
	SameCellCount int
	Occupied      int
}

// DeriveSlots derives the slots layer from the top layer deterministically,
// preserving the occupancy mask and the per-color histogram. Derangement
// guarantees zero same-cell matches; rotate minimizes them (a non-zero
// residue makes the board fail validation and counts as a rejected
// attempt); same is a debug mode that deliberately violates the mismatch
// invariant.
func DeriveSlots(top domain.Grid, mode domain.DeriveMode, rotateShift int) (domain.Grid, DeriveInfo, error) {
	occ := top.OccupiedCount()
	switch mode {
	case domain.DeriveSame:
		return top.Clone(), DeriveInfo{Mode: mode, SameCellCount: occ, Occupied: occ}, nil
	case domain.DeriveRotate:
		return deriveRotate(top, rotateShift)
	case domain.DeriveDerangement, "":
		return deriveDerangement(top)
	default:
		return domain.Grid{}, DeriveInfo{}, fmt.Errorf("unknown slots derive mode %q", mode)
	}
}

func scanOccupied(top domain.Grid) ([]domain.Pos, []domain.Cell) {
	var pos []domain.Pos
	var vals []domain.Cell
	for y := 0; y < top.H; y++ {
		for x := 0; x < top.W; x++ {
			if c := top.At(x, y); c != domain.Empty {
				pos = append(pos, domain.Pos{X: x, Y: y})
				vals = append(vals, c)
			}
		}
	}
	return pos, vals
}

// deriveRotate shifts colors cyclically over the occupied cells in scan
// order. A shift <= 0 searches for the one minimizing same-cell matches,
// smallest shift winning ties.
func deriveRotate(top domain.Grid, shift int) (domain.Grid, DeriveInfo, error) {
	pos, vals := scanOccupied(top)
	n := len(vals)
	out := domain.NewGrid(top.W, top.H)
	if n == 0 {
		return out, DeriveInfo{Mode: domain.DeriveRotate}, nil
	}
	if n == 1 {
		out.Cells[pos[0].Y*top.W+pos[0].X] = vals[0]
		return out, DeriveInfo{Mode: domain.DeriveRotate, SameCellCount: 1, Occupied: 1}, nil
	}

	sameFor := func(k int) int {
		same := 0
		for i := 0; i < n; i++ {
			if vals[i] == vals[(i+k)%n] {
				same++
			}
		}
		return same
	}

	var same int
	if shift <= 0 {
		shift = 1
		same = sameFor(1)
		for k := 2; k < n && same > 0; k++ {
			if s := sameFor(k); s < same {
				same, shift = s, k
			}
		}
	} else {
		shift %= n
		if shift == 0 {
			shift = 1
		}
		same = sameFor(shift)
	}

	for i, p := range pos {
		out.Cells[p.Y*top.W+p.X] = vals[(i+shift)%n]
	}
	return out, DeriveInfo{Mode: domain.DeriveRotate, Shift: shift, SameCellCount: same, Occupied: n}, nil
}

// cleanShifts lists the cyclic shifts whose rotation leaves zero
// same-cell matches, in increasing order. Only these shifts yield
// candidates that can pass board validation.
func cleanShifts(top domain.Grid) []int {
	_, vals := scanOccupied(top)
	n := len(vals)
	var out []int
	for k := 1; k < n; k++ {
		clean := true
		for i := 0; i < n && clean; i++ {
			clean = vals[i] != vals[(i+k)%n]
		}
		if clean {
			out = append(out, k)
		}
	}
	return out
}

// deriveDerangement assigns each occupied cell a color different from its
// top color while reproducing the exact histogram, by solving a transport
// problem between forbidden-color groups and assigned colors with a small
// max-flow kernel. Infeasible when one color holds more than half of the
// occupied cells; the rebalance pass exists to prevent that.
func deriveDerangement(top domain.Grid) (domain.Grid, DeriveInfo, error) {
	out := domain.NewGrid(top.W, top.H)
	byColor := make(map[domain.Cell][]domain.Pos)
	for y := 0; y < top.H; y++ {
		for x := 0; x < top.W; x++ {
			if c := top.At(x, y); c != domain.Empty {
				byColor[c] = append(byColor[c], domain.Pos{X: x, Y: y})
			}
		}
	}
	if len(byColor) == 0 {
		return out, DeriveInfo{Mode: domain.DeriveDerangement}, nil
	}
	if len(byColor) == 1 {
		return domain.Grid{}, DeriveInfo{}, fmt.Errorf("per-cell mismatch impossible with a single color")
	}

	colors := make([]domain.Cell, 0, len(byColor))
	n := 0
	maxCount := 0
	for c, pts := range byColor {
		colors = append(colors, c)
		n += len(pts)
		if len(pts) > maxCount {
			maxCount = len(pts)
		}
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	if maxCount*2 > n {
		return domain.Grid{}, DeriveInfo{}, fmt.Errorf(
			"per-cell mismatch infeasible: dominant color holds %d of %d occupied cells", maxCount, n)
	}

	// Nodes: source, K group nodes (cells forbidden a color), K color
	// nodes (supply to place), sink.
	k := len(colors)
	src, grp0, col0, sink := 0, 1, 1+k, 1+2*k
	f := newFlow(sink + 1)
	for i, c := range colors {
		f.addEdge(src, grp0+i, len(byColor[c]))
		f.addEdge(col0+i, sink, len(byColor[c]))
	}
	const inf = 1 << 30
	for i := range colors {
		for j := range colors {
			if i != j {
				f.addEdge(grp0+i, col0+j, inf)
			}
		}
	}
	if f.maxFlow(src, sink) != n {
		return domain.Grid{}, DeriveInfo{}, fmt.Errorf("mismatch assignment infeasible")
	}

	// alloc[i][j] = cells with forbidden color i assigned color j, read
	// back from the reverse edges' gained capacity.
	alloc := make([][]int, k)
	for i := range alloc {
		alloc[i] = make([]int, k)
	}
	for i := range colors {
		for _, ei := range f.adj[grp0+i] {
			v := f.to[ei]
			if v < col0 || v >= col0+k {
				continue
			}
			if sent := f.cap[ei^1]; sent > 0 {
				alloc[i][v-col0] = sent
			}
		}
	}

	for i, c := range colors {
		pts := byColor[c]
		idx := 0
		for j, a := range colors {
			for cnt := alloc[i][j]; cnt > 0; cnt-- {
				p := pts[idx]
				out.Cells[p.Y*top.W+p.X] = a
				idx++
			}
		}
		if idx != len(pts) {
			return domain.Grid{}, DeriveInfo{}, fmt.Errorf("allocation underfilled color %d", c)
		}
	}
	return out, DeriveInfo{Mode: domain.DeriveDerangement, Occupied: n}, nil
}

// flow is a minimal Dinic max-flow over an index-addressed edge list;
// edge i and i^1 are a forward/backward pair.
type flow struct {
	adj [][]int
	to  []int
	cap []int
}

func newFlow(n int) *flow { return &flow{adj: make([][]int, n)} }

func (f *flow) addEdge(u, v, c int) {
	f.adj[u] = append(f.adj[u], len(f.to))
	f.to = append(f.to, v)
	f.cap = append(f.cap, c)
	f.adj[v] = append(f.adj[v], len(f.to))
	f.to = append(f.to, u)
	f.cap = append(f.cap, 0)
}

func (f *flow) maxFlow(s, t int) int {
	total := 0
	n := len(f.adj)
	for {
		level := make([]int, n)
		for i := range level {
			level[i] = -1
		}
		level[s] = 0
		queue := []int{s}
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for _, ei := range f.adj[u] {
				if f.cap[ei] > 0 && level[f.to[ei]] < 0 {
					level[f.to[ei]] = level[u] + 1
					queue = append(queue, f.to[ei])
				}
			}
		}
		if level[t] < 0 {
			return total
		}
		it := make([]int, n)
		var dfs func(u, limit int) int
		dfs = func(u, limit int) int {
			if u == t {
				return limit
			}
			for ; it[u] < len(f.adj[u]); it[u]++ {
				ei := f.adj[u][it[u]]
				v := f.to[ei]
				if f.cap[ei] <= 0 || level[v] != level[u]+1 {
					continue
				}
				push := limit
				if f.cap[ei] < push {
					push = f.cap[ei]
				}
				if got := dfs(v, push); got > 0 {
					f.cap[ei] -= got
					f.cap[ei^1] += got
					return got
				}
			}
			return 0
		}
		const inf = 1 << 30
		for {
			pushed := dfs(s, inf)
			if pushed == 0 {
				break
			}
			total += pushed
		}
	}
}

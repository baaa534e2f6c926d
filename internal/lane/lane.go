// Package lane computes, per lane of the slots layer, the unique cell
// currently reachable from each enabled entrance: the nearest occupied
// cell with nothing between it and the entrance. It is pure over the
// layout and shared by the simulator's auto-fire loop and the backward
// generator's placement loop, so it keeps no references to callers'
// grids and allocates only its four extrema slices.
package lane

import "github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"

const none = -1

// Engine holds per-row and per-column nearest-occupied indices for one
// slots layout. Rows are entered from the left/right, columns from the
// top/bottom, subject to the enabled sides.
type Engine struct {
	w, h  int
	sides domain.Sides

	rowMin, rowMax []int // per row: min/max occupied x, none if empty
	colMin, colMax []int // per col: min/max occupied y, none if empty
}

// New builds an engine over the given layout.
func New(g domain.Grid, sides domain.Sides) *Engine {
	if sides == 0 {
		sides = domain.AllSides
	}
	e := &Engine{
		w:      g.W,
		h:      g.H,
		sides:  sides,
		rowMin: make([]int, g.H),
		rowMax: make([]int, g.H),
		colMin: make([]int, g.W),
		colMax: make([]int, g.W),
	}
	e.Recompute(g)
	return e
}

// Clone returns an independent copy for branch-local mutation.
func (e *Engine) Clone() *Engine {
	c := &Engine{
		w: e.w, h: e.h, sides: e.sides,
		rowMin: make([]int, len(e.rowMin)),
		rowMax: make([]int, len(e.rowMax)),
		colMin: make([]int, len(e.colMin)),
		colMax: make([]int, len(e.colMax)),
	}
	copy(c.rowMin, e.rowMin)
	copy(c.rowMax, e.rowMax)
	copy(c.colMin, e.colMin)
	copy(c.colMax, e.colMax)
	return c
}

// Recompute rebuilds all extrema from scratch.
func (e *Engine) Recompute(g domain.Grid) {
	for y := 0; y < e.h; y++ {
		e.rowMin[y], e.rowMax[y] = none, none
	}
	for x := 0; x < e.w; x++ {
		e.colMin[x], e.colMax[x] = none, none
	}
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			if !g.Occupied(x, y) {
				continue
			}
			if e.rowMin[y] == none || x < e.rowMin[y] {
				e.rowMin[y] = x
			}
			if e.rowMax[y] == none || x > e.rowMax[y] {
				e.rowMax[y] = x
			}
			if e.colMin[x] == none || y < e.colMin[x] {
				e.colMin[x] = y
			}
			if e.colMax[x] == none || y > e.colMax[x] {
				e.colMax[x] = y
			}
		}
	}
}

// Removed updates the extrema after g had the cell at p cleared. Only the
// affected row and column are rescanned.
func (e *Engine) Removed(g domain.Grid, p domain.Pos) {
	if e.rowMin[p.Y] == p.X || e.rowMax[p.Y] == p.X {
		e.rowMin[p.Y], e.rowMax[p.Y] = none, none
		for x := 0; x < e.w; x++ {
			if g.Occupied(x, p.Y) {
				if e.rowMin[p.Y] == none {
					e.rowMin[p.Y] = x
				}
				e.rowMax[p.Y] = x
			}
		}
	}
	if e.colMin[p.X] == p.Y || e.colMax[p.X] == p.Y {
		e.colMin[p.X], e.colMax[p.X] = none, none
		for y := 0; y < e.h; y++ {
			if g.Occupied(p.X, y) {
				if e.colMin[p.X] == none {
					e.colMin[p.X] = y
				}
				e.colMax[p.X] = y
			}
		}
	}
}

// Reachable reports whether p is the current target of at least one
// enabled entrance. A cell can be reachable from one end of its lane and
// not the other; each entrance is independent.
func (e *Engine) Reachable(p domain.Pos) bool {
	if e.sides.Has(domain.SideLeft) && e.rowMin[p.Y] == p.X {
		return true
	}
	if e.sides.Has(domain.SideRight) && e.rowMax[p.Y] == p.X {
		return true
	}
	if e.sides.Has(domain.SideTop) && e.colMin[p.X] == p.Y {
		return true
	}
	if e.sides.Has(domain.SideBottom) && e.colMax[p.X] == p.Y {
		return true
	}
	return false
}

// FirstMatch returns the first reachable target of the given color in the
// fixed entrance scan order: left entrances by row, right entrances by
// row, top entrances by column, bottom entrances by column. The order is
// part of the deterministic resolution contract.
func (e *Engine) FirstMatch(g domain.Grid, color domain.Cell) (domain.Pos, bool) {
	if e.sides.Has(domain.SideLeft) {
		for y := 0; y < e.h; y++ {
			if x := e.rowMin[y]; x != none && g.At(x, y) == color {
				return domain.Pos{X: x, Y: y}, true
			}
		}
	}
	if e.sides.Has(domain.SideRight) {
		for y := 0; y < e.h; y++ {
			if x := e.rowMax[y]; x != none && g.At(x, y) == color {
				return domain.Pos{X: x, Y: y}, true
			}
		}
	}
	if e.sides.Has(domain.SideTop) {
		for x := 0; x < e.w; x++ {
			if y := e.colMin[x]; y != none && g.At(x, y) == color {
				return domain.Pos{X: x, Y: y}, true
			}
		}
	}
	if e.sides.Has(domain.SideBottom) {
		for x := 0; x < e.w; x++ {
			if y := e.colMax[x]; y != none && g.At(x, y) == color {
				return domain.Pos{X: x, Y: y}, true
			}
		}
	}
	return domain.Pos{}, false
}

// ExposedColors collects the colors of all current targets into dst
// (indexed by palette index; resized as needed) and returns it.
func (e *Engine) ExposedColors(g domain.Grid, dst []bool) []bool {
	mark := func(c domain.Cell) []bool {
		for int(c) >= len(dst) {
			dst = append(dst, false)
		}
		dst[c] = true
		return dst
	}
	for y := 0; y < e.h; y++ {
		if x := e.rowMin[y]; x != none && e.sides.Has(domain.SideLeft) {
			dst = mark(g.At(x, y))
		}
		if x := e.rowMax[y]; x != none && e.sides.Has(domain.SideRight) {
			dst = mark(g.At(x, y))
		}
	}
	for x := 0; x < e.w; x++ {
		if y := e.colMin[x]; y != none && e.sides.Has(domain.SideTop) {
			dst = mark(g.At(x, y))
		}
		if y := e.colMax[x]; y != none && e.sides.Has(domain.SideBottom) {
			dst = mark(g.At(x, y))
		}
	}
	return dst
}

// SoonColors reports colors that are reachable now or become reachable
// after exactly one clearance in their lane (the next occupied cell
// inward of each current target). Used by the solver to deprioritize
// taps that cannot contribute soon.
func (e *Engine) SoonColors(g domain.Grid) map[domain.Cell]bool {
	out := make(map[domain.Cell]bool)
	nextInward := func(x, y, dx, dy int) {
		x, y = x+dx, y+dy
		for g.In(x, y) {
			if g.Occupied(x, y) {
				out[g.At(x, y)] = true
				return
			}
			x, y = x+dx, y+dy
		}
	}
	for y := 0; y < e.h; y++ {
		if x := e.rowMin[y]; x != none && e.sides.Has(domain.SideLeft) {
			out[g.At(x, y)] = true
			nextInward(x, y, 1, 0)
		}
		if x := e.rowMax[y]; x != none && e.sides.Has(domain.SideRight) {
			out[g.At(x, y)] = true
			nextInward(x, y, -1, 0)
		}
	}
	for x := 0; x < e.w; x++ {
		if y := e.colMin[x]; y != none && e.sides.Has(domain.SideTop) {
			out[g.At(x, y)] = true
			nextInward(x, y, 0, 1)
		}
		if y := e.colMax[x]; y != none && e.sides.Has(domain.SideBottom) {
			out[g.At(x, y)] = true
			nextInward(x, y, 0, -1)
		}
	}
	return out
}

package generator

import (
	"fmt"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/lane"
)

// PlaceOrder computes the backward construction sequence for a slots
// layout. It derives a forward removal order by repeatedly removing a
// currently reachable cell, outermost exposure depth first; the backward
// placement order is its reverse. By construction every placement step
// is consistent with forward playability: a cell is only ever placed
// when it is reachable given the cells already placed.
func PlaceOrder(slots domain.Grid, sides domain.Sides) (backward, forward []domain.Pos, err error) {
	remaining := slots.OccupiedCount()
	if remaining == 0 {
		return nil, nil, nil
	}
	depth := exposureDepths(slots)
	present := slots.Clone()
	eng := lane.New(present, sides)

	forward = make([]domain.Pos, 0, remaining)
	for remaining > 0 {
		best := domain.Pos{X: -1, Y: -1}
		bestDepth := 0
		for y := 0; y < present.H; y++ {
			for x := 0; x < present.W; x++ {
				if !present.Occupied(x, y) || !eng.Reachable(domain.Pos{X: x, Y: y}) {
					continue
				}
				d := depth[y*present.W+x]
				if best.X < 0 || d < bestDepth {
					best = domain.Pos{X: x, Y: y}
					bestDepth = d
				}
			}
		}
		if best.X < 0 {
			// Any non-empty layout has a row extremum, so this would be
			// an engine bug, not an input problem.
			return nil, nil, fmt.Errorf("no reachable cell in non-empty layout")
		}
		forward = append(forward, best)
		present.Cells[best.Y*present.W+best.X] = domain.Empty
		eng.Removed(present, best)
		remaining--
	}

	backward = make([]domain.Pos, len(forward))
	for i, p := range forward {
		backward[len(forward)-1-i] = p
	}
	if err := VerifyForwardOrder(slots, forward, sides); err != nil {
		return nil, nil, err
	}
	return backward, forward, nil
}

// VerifyForwardOrder replays a removal order against the layout and
// fails on the first step that removes an absent or unreachable cell, or
// if cells remain afterwards.
func VerifyForwardOrder(slots domain.Grid, forward []domain.Pos, sides domain.Sides) error {
	present := slots.Clone()
	eng := lane.New(present, sides)
	for i, p := range forward {
		if !present.In(p.X, p.Y) || !present.Occupied(p.X, p.Y) {
			return fmt.Errorf("step %d: removing absent cell %d,%d", i, p.X, p.Y)
		}
		if !eng.Reachable(p) {
			return fmt.Errorf("step %d: cell %d,%d not reachable at removal time", i, p.X, p.Y)
		}
		present.Cells[p.Y*present.W+p.X] = domain.Empty
		eng.Removed(present, p)
	}
	if present.OccupiedCount() > 0 {
		return fmt.Errorf("removal order ended with %d cells remaining", present.OccupiedCount())
	}
	return nil
}

// exposureDepths assigns each occupied cell its Manhattan distance to the
// nearest empty cell or boundary along the four cardinal directions;
// higher means more interior, cleared later in forward play.
func exposureDepths(g domain.Grid) []int {
	depth := make([]int, len(g.Cells))
	walk := func(x, y, dx, dy int) int {
		d := 0
		for {
			x, y = x+dx, y+dy
			d++
			if !g.In(x, y) || !g.Occupied(x, y) {
				return d
			}
		}
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if !g.Occupied(x, y) {
				continue
			}
			best := walk(x, y, -1, 0)
			if d := walk(x, y, 1, 0); d < best {
				best = d
			}
			if d := walk(x, y, 0, -1); d < best {
				best = d
			}
			if d := walk(x, y, 0, 1); d < best {
				best = d
			}
			depth[y*g.W+x] = best
		}
	}
	return depth
}

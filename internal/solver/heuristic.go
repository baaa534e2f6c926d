package solver

import (
	"container/heap"
	"context"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/lane"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/sim"
)

// orderedActions returns the tap set for a state: component
// representatives, useful taps first. A tap is deprioritized, explored
// last but never forbidden, when its color matches no reachable or
// soon-reachable slot and its size does not move the lower-bound
// heuristic. Forbidding would risk missing solutions that need a setup
// move.
func (e *Engine) orderedActions(st sim.State, sides domain.Sides) []domain.Pos {
	comps := sim.Components(st.Top)
	if len(comps) == 0 {
		return nil
	}
	soon := lane.New(st.Slots, sides).SoonColors(st.Slots)
	maxSize := len(comps[0].Cells) // Components sorts largest first

	out := make([]domain.Pos, 0, len(comps))
	var setup []domain.Pos
	for _, c := range comps {
		if !soon[c.Color] && len(c.Cells) < maxSize {
			setup = append(setup, c.Rep)
			continue
		}
		out = append(out, c.Rep)
	}
	return append(out, setup...)
}

// pruned discards states that provably cannot reach a cleared state:
// ammo starvation per color, or the terminal lose state (full conveyor
// with nothing able to fire; nothing can ever change from there).
func (e *Engine) pruned(st sim.State, sides domain.Sides) bool {
	if sim.Deadlocked(st, sides, e.cfg) {
		return true
	}
	need := st.Slots.Histogram()
	if len(need) == 0 {
		return false
	}
	supply := st.Top.Histogram()
	for _, sh := range st.Conveyor {
		supply[sh.Color] += sh.Ammo
	}
	for _, sh := range st.Pending {
		supply[sh.Color] += sh.Ammo
	}
	for color, n := range need {
		if supply[color] < n {
			return true
		}
	}
	return false
}

// heuristic is an admissible lower bound on the number of taps still
// required: slots not coverable by ammo already in flight, divided by the
// largest ammo a single remaining tap can produce, rounded up.
func (e *Engine) heuristic(st sim.State) int {
	rem := st.Slots.OccupiedCount()
	for _, sh := range st.Conveyor {
		rem -= sh.Ammo
	}
	for _, sh := range st.Pending {
		rem -= sh.Ammo
	}
	if rem <= 0 {
		return 0
	}
	maxSize := sim.MaxComponentSize(st.Top)
	if maxSize == 0 {
		// No taps left but slots remain beyond in-flight ammo; the
		// impossible-ammo prune retires these states.
		return rem
	}
	return (rem + maxSize - 1) / maxSize
}

type pqItem struct {
	n     *node
	f     int
	order int // insertion tie-break keeps expansion deterministic
}

type priorityQueue []*pqItem

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].order < q[j].order
}
func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)   { *q = append(*q, x.(*pqItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}

// bestFirst expands nodes in f = depth + heuristic order. Because the
// goal is existence, it stops at the first cleared state rather than
// continuing to optimality.
func (e *Engine) bestFirst(ctx context.Context, b *domain.Board, root *node, budget domain.Budget) (domain.Outcome, int, *node) {
	visited := map[string]struct{}{e.canonKey(root.state): {}}
	insert := func(key string) bool {
		if _, ok := visited[key]; ok {
			return false
		}
		visited[key] = struct{}{}
		return true
	}

	order := 0
	pq := priorityQueue{{n: root, f: e.heuristic(root.state)}}
	heap.Init(&pq)
	expanded := 0
	truncated := false

	for pq.Len() > 0 {
		if overBudget(ctx, budget, expanded) {
			return domain.BudgetExceeded, expanded, nil
		}
		it := heap.Pop(&pq).(*pqItem)
		if budget.MaxDepth > 0 && it.n.depth >= budget.MaxDepth {
			truncated = true
			continue
		}
		children, win := e.expand(b, it.n, insert)
		expanded++
		if win != nil {
			return domain.Solved, expanded, win
		}
		for _, c := range children {
			order++
			heap.Push(&pq, &pqItem{n: c, f: c.depth + e.heuristic(c.state), order: order})
		}
	}
	if truncated {
		// Depth-capped without exhausting the space: solvability unknown.
		return domain.BudgetExceeded, expanded, nil
	}
	return domain.ProvenUnsolvable, expanded, nil
}

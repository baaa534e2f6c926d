package solver

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

// parallelThreshold is the minimum layer width worth fanning out over
// workers; narrow layers expand sequentially for cache locality.
const parallelThreshold = 16

// bfsParallel is the level-synchronous parallel variant of bfs. Workers
// expand disjoint chunks of one depth layer at a time against a shared
// visited registry with insert-if-absent semantics; the first winning
// child cancels the rest. Because layers are synchronized, the solution
// depth, and therefore the reported solution length, is identical to the
// sequential search.
func (e *Engine) bfsParallel(ctx context.Context, b *domain.Board, root *node, budget domain.Budget) (domain.Outcome, int, *node) {
	var visited sync.Map
	visited.Store(e.canonKey(root.state), struct{}{})
	insert := func(key string) bool {
		_, loaded := visited.LoadOrStore(key, struct{}{})
		return !loaded
	}

	var expanded atomic.Int64
	frontier := []*node{root}

	for len(frontier) > 0 {
		if budget.MaxDepth > 0 && frontier[0].depth >= budget.MaxDepth {
			return domain.BudgetExceeded, int(expanded.Load()), nil
		}

		if len(frontier) < parallelThreshold {
			next, out, win := e.expandChunk(ctx, b, frontier, insert, &expanded, budget)
			if out != nil {
				return *out, int(expanded.Load()), win
			}
			frontier = next
			continue
		}

		workers := e.opts.Workers
		if workers > len(frontier) {
			workers = len(frontier)
		}
		chunkNext := make([][]*node, workers)
		var winner atomic.Pointer[node]
		var exceeded atomic.Bool

		layerCtx, stop := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(layerCtx)
		for w := 0; w < workers; w++ {
			w := w
			lo := len(frontier) * w / workers
			hi := len(frontier) * (w + 1) / workers
			g.Go(func() error {
				next, out, win := e.expandChunk(gctx, b, frontier[lo:hi], insert, &expanded, budget)
				if out != nil {
					switch *out {
					case domain.Solved:
						winner.CompareAndSwap(nil, win)
					case domain.BudgetExceeded:
						exceeded.Store(true)
					}
					stop() // prompt termination of sibling workers
					return nil
				}
				chunkNext[w] = next
				return nil
			})
		}
		_ = g.Wait()
		stop()

		if win := winner.Load(); win != nil {
			return domain.Solved, int(expanded.Load()), win
		}
		if exceeded.Load() || overBudget(ctx, budget, int(expanded.Load())) {
			return domain.BudgetExceeded, int(expanded.Load()), nil
		}
		frontier = frontier[:0]
		for _, chunk := range chunkNext {
			frontier = append(frontier, chunk...)
		}
	}
	return domain.ProvenUnsolvable, int(expanded.Load()), nil
}

// expandChunk expands a slice of same-depth nodes. It reports a non-nil
// outcome pointer when the chunk ends the search (win or budget).
func (e *Engine) expandChunk(ctx context.Context, b *domain.Board, nodes []*node, insert func(string) bool, expanded *atomic.Int64, budget domain.Budget) ([]*node, *domain.Outcome, *node) {
	var next []*node
	for _, n := range nodes {
		total := int(expanded.Load())
		if overBudget(ctx, budget, total) {
			out := domain.BudgetExceeded
			return nil, &out, nil
		}
		children, win := e.expand(b, n, insert)
		expanded.Add(1)
		if win != nil {
			out := domain.Solved
			return nil, &out, win
		}
		next = append(next, children...)
	}
	return next, nil, nil
}

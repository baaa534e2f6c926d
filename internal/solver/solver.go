// Package solver proves or refutes solvability of a board by exploring
// the tap-action space reachable through the simulator. The three
// outcomes are distinct: ProvenUnsolvable only after exhausting the
// reachable space, BudgetExceeded whenever a limit fires first.
package solver

import (
	"context"
	"time"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/sim"
)

// Algorithm selects the search strategy.
type Algorithm int

const (
	// AlgoBFS is exhaustive breadth-first search; the first solution
	// found is also the shortest, which doubles as the solution-length
	// telemetry metric.
	AlgoBFS Algorithm = iota
	// AlgoBestFirst is best-first search with an admissible lower-bound
	// heuristic, for boards too large for exhaustive BFS. It still
	// terminates on the first cleared state.
	AlgoBestFirst
)

// Options tune the engine independently of per-call budgets.
type Options struct {
	Algorithm Algorithm
	// Workers > 1 enables level-synchronous parallel expansion for BFS.
	Workers int
	// MirrorFold folds states that are vertical mirror images into one
	// visited entry. Only set this when the board has the declared
	// symmetry; it is never inferred.
	MirrorFold bool
}

// Engine drives searches against a fixed rule configuration.
type Engine struct {
	cfg  sim.Config
	opts Options
}

// New returns an engine for the given rule surface.
func New(cfg sim.Config, opts Options) *Engine {
	if cfg.Capacity <= 0 {
		cfg = sim.DefaultConfig()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Engine{cfg: cfg, opts: opts}
}

type node struct {
	state  sim.State
	parent *node
	act    domain.Pos
	depth  int
}

// Solve searches for any cleared terminal state reachable from the
// board's initial state. The error return is reserved for contract
// violations (nil board); search verdicts are carried in the result.
func (e *Engine) Solve(ctx context.Context, b *domain.Board, budget domain.Budget) (domain.SolveResult, error) {
	if b == nil {
		return domain.SolveResult{}, domain.ErrMalformedBoard
	}
	start := time.Now()
	if budget.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget.TimeLimit)
		defer cancel()
	}

	root := &node{state: sim.NewState(b)}
	if root.state.Won() {
		return e.solved(root, 0, start), nil
	}

	var (
		outcome  domain.Outcome
		expanded int
		win      *node
	)
	switch {
	case e.opts.Algorithm == AlgoBestFirst:
		outcome, expanded, win = e.bestFirst(ctx, b, root, budget)
	case e.opts.Workers > 1:
		outcome, expanded, win = e.bfsParallel(ctx, b, root, budget)
	default:
		outcome, expanded, win = e.bfs(ctx, b, root, budget)
	}

	if outcome == domain.Solved {
		return e.solved(win, expanded, start), nil
	}
	return domain.SolveResult{
		Outcome: outcome,
		Telemetry: domain.Telemetry{
			Expanded:  expanded,
			RuntimeMS: time.Since(start).Milliseconds(),
		},
	}, nil
}

// bfs is the sequential layered search. Layers keep the parallel variant
// behaviorally aligned: both explore strictly by depth.
func (e *Engine) bfs(ctx context.Context, b *domain.Board, root *node, budget domain.Budget) (domain.Outcome, int, *node) {
	visited := map[string]struct{}{e.canonKey(root.state): {}}
	insert := func(key string) bool {
		if _, ok := visited[key]; ok {
			return false
		}
		visited[key] = struct{}{}
		return true
	}

	frontier := []*node{root}
	expanded := 0
	for len(frontier) > 0 {
		if budget.MaxDepth > 0 && frontier[0].depth >= budget.MaxDepth {
			return domain.BudgetExceeded, expanded, nil
		}
		var next []*node
		for _, n := range frontier {
			if overBudget(ctx, budget, expanded) {
				return domain.BudgetExceeded, expanded, nil
			}
			children, win := e.expand(b, n, insert)
			expanded++
			if win != nil {
				return domain.Solved, expanded, win
			}
			next = append(next, children...)
		}
		frontier = next
	}
	return domain.ProvenUnsolvable, expanded, nil
}

// expand generates one node's children: one edge per distinct component,
// useful taps before setup taps. Children that are duplicates, provably
// ammo-starved, or already in the lose state are dropped. A winning child
// short-circuits the whole search.
func (e *Engine) expand(b *domain.Board, n *node, insert func(string) bool) ([]*node, *node) {
	var children []*node
	for _, p := range e.orderedActions(n.state, b.Sides) {
		st, err := sim.Apply(n.state, p, b.Sides, e.cfg)
		if err != nil {
			// ConveyorFull removes the action from the legal set;
			// InvalidAction discards only this edge.
			continue
		}
		child := &node{state: st, parent: n, act: p, depth: n.depth + 1}
		if st.Won() {
			return nil, child
		}
		if !insert(e.canonKey(st)) {
			continue
		}
		if e.pruned(st, b.Sides) {
			continue
		}
		children = append(children, child)
	}
	return children, nil
}

func overBudget(ctx context.Context, budget domain.Budget, expanded int) bool {
	if budget.MaxNodes > 0 && expanded >= budget.MaxNodes {
		return true
	}
	return ctx.Err() != nil
}

// solved assembles the result for a winning node, replaying the path for
// the conveyor-slack telemetry.
func (e *Engine) solved(win *node, expanded int, start time.Time) domain.SolveResult {
	var path []domain.Pos
	minSlack := e.cfg.Capacity
	for n := win; n != nil; n = n.parent {
		if slack := e.cfg.Capacity - len(n.state.Conveyor); slack < minSlack {
			minSlack = slack
		}
		if n.parent != nil {
			path = append(path, n.act)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return domain.SolveResult{
		Outcome:  domain.Solved,
		Solution: path,
		Telemetry: domain.Telemetry{
			Solvable:          true,
			SolutionLen:       len(path),
			Expanded:          expanded,
			RuntimeMS:         time.Since(start).Milliseconds(),
			MinConveyorSlack:  minSlack,
			DeadlockProximity: 1 - float64(minSlack)/float64(e.cfg.Capacity),
		},
	}
}

// canonKey folds the declared mirror symmetry, if any, by taking the
// lexicographically smaller of the state and its reflection.
func (e *Engine) canonKey(st sim.State) string {
	k := st.Key()
	if !e.opts.MirrorFold {
		return k
	}
	m := mirror(st)
	if mk := m.Key(); mk < k {
		return mk
	}
	return k
}

func mirror(st sim.State) sim.State {
	return sim.State{
		Top:      mirrorGrid(st.Top),
		Slots:    mirrorGrid(st.Slots),
		Conveyor: st.Conveyor,
		Pending:  st.Pending,
	}
}

func mirrorGrid(g domain.Grid) domain.Grid {
	out := domain.NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			out.Cells[y*g.W+(g.W-1-x)] = g.At(x, y)
		}
	}
	return out
}

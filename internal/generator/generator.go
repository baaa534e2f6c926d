// Package generator constructs boards backward from the solved state and
// submits every candidate to the solver as a mandatory acceptance gate.
// There is no path to an accepted level that bypasses a Solved verdict.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/ports"
)

const levelVersion = 1

// Backward generates levels from plain-data skeletons.
type Backward struct {
	Solver ports.Solver
	Budget domain.Budget // per-candidate solve budget
	Sides  domain.Sides
}

// NewBackward wires a generator that gates every candidate through the
// given solver.
func NewBackward(s ports.Solver, budget domain.Budget) *Backward {
	return &Backward{Solver: s, Budget: budget, Sides: domain.AllSides}
}

// Generate derives a slots layer from the skeleton's top layer, orders it
// inner-to-outer under lane reachability, and accepts the board only on a
// Solved verdict. Rejections retry with a perturbed derivation; an
// inconclusive (BudgetExceeded) verdict is a rejection, never an accept.
// The returned error identifies the last rejection reason once the retry
// budget is exhausted.
func (g *Backward) Generate(ctx context.Context, skel domain.Skeleton, params domain.GenParams) (*domain.Level, ports.Stats, error) {
	start := time.Now()
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = 8
	}
	if params.Mode == "" {
		params.Mode = domain.DeriveDerangement
	}

	top, reb := Rebalance(skel.Top, len(skel.Palette), params.MaxDominantShare, 0, params.SeamThickness)
	if !reb.OK {
		return nil, ports.Stats{Duration: time.Since(start)}, &domain.MalformedBoardError{
			Reason: fmt.Sprintf("dominant color %d share %.2f not reducible below derangement bound", reb.DominantColor, reb.DominantShare),
		}
	}

	shifts := cleanShifts(top)
	stats := ports.Stats{}
	lastReason := "no attempts"
	for attempt := 1; attempt <= params.MaxAttempts; attempt++ {
		stats.Attempts = attempt
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return nil, stats, err
		}

		mode, shift := perturb(params, attempt, shifts)
		slots, info, err := DeriveSlots(top, mode, shift)
		if err != nil {
			lastReason = "malformed: " + err.Error()
			continue
		}

		board, err := domain.NewBoard(skel.Palette, top, slots, g.Sides)
		if err != nil {
			lastReason = "malformed: " + err.Error()
			continue
		}

		backward, forward, err := PlaceOrder(board.Slots, board.Sides)
		if err != nil {
			lastReason = "malformed: " + err.Error()
			continue
		}

		res, err := g.Solver.Solve(ctx, board, g.Budget)
		if err != nil {
			stats.Duration = time.Since(start)
			return nil, stats, fmt.Errorf("solver gate: %w", err)
		}
		stats.Nodes += res.Telemetry.Expanded

		switch res.Outcome {
		case domain.Solved:
			stats.Duration = time.Since(start)
			return &domain.Level{
				ID:                 uuid.NewString(),
				Version:            levelVersion,
				W:                  board.W,
				H:                  board.H,
				Palette:            board.Palette,
				Top:                board.Top,
				Slots:              board.Slots,
				BackwardPlaceOrder: backward,
				ForwardRemoveOrder: forward,
				Solution:           res.Solution,
				Meta: domain.GenMeta{
					Telemetry:      res.Telemetry,
					Params:         params,
					Attempts:       attempt,
					SlotsMode:      info.Mode,
					RotateShift:    info.Shift,
					SameCellCount:  info.SameCellCount,
					RebalanceIters: reb.Iterations,
				},
				CreatedAt: time.Now().UnixMilli(),
			}, stats, nil
		case domain.ProvenUnsolvable:
			lastReason = "unsolvable"
		default:
			lastReason = "inconclusive"
		}
	}

	stats.Duration = time.Since(start)
	return nil, stats, fmt.Errorf("%w after %d attempts: last rejection: %s",
		ErrRetriesExhausted, params.MaxAttempts, lastReason)
}

// ErrRetriesExhausted is the hard failure surfaced when no candidate
// passes the gate within the retry budget.
var ErrRetriesExhausted = errors.New("generation retries exhausted")

// perturb fixes the deterministic derivation sequence: the requested mode
// first, then collision-free rotate shifts keyed off the seed. Retries
// never spend budget on shifts that would fail board validation; when no
// clean shift exists, derangement is the only derivation guaranteed to
// produce a valid candidate. Histograms are preserved by every mode, so
// retries only move colors between cells.
func perturb(params domain.GenParams, attempt int, shifts []int) (domain.DeriveMode, int) {
	if attempt == 1 {
		return params.Mode, 0
	}
	if len(shifts) == 0 {
		return domain.DeriveDerangement, 0
	}
	idx := (int(params.Seed%int64(len(shifts))) + attempt - 2) % len(shifts)
	if idx < 0 {
		idx += len(shifts)
	}
	return domain.DeriveRotate, shifts[idx]
}

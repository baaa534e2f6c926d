package ports

import (
	"context"
	"time"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Attempts int
	Duration time.Duration
}

// Solver proves or refutes solvability of a board within a budget. A
// board can only be marked accepted through a Solved result from here.
type Solver interface {
	Solve(ctx context.Context, b *domain.Board, budget domain.Budget) (domain.SolveResult, error)
}

// Generator turns a plain-data skeleton into a solver-gated level.
type Generator interface {
	Generate(ctx context.Context, skel domain.Skeleton, params domain.GenParams) (*domain.Level, Stats, error)
}

// Validator performs fast invariant checks on a board's layers.
type Validator interface {
	Validate(ctx context.Context, b *domain.Board) (ok bool, conflicts []domain.Pos, err error)
}

// Storage persists and retrieves levels as JSON.
type Storage interface {
	Save(ctx context.Context, l *domain.Level) error
	Load(ctx context.Context, id string) (*domain.Level, error)
	List(ctx context.Context) ([]domain.LevelMeta, error)
}

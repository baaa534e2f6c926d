package usecase

import (
	"context"
	"errors"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/ports"
)

// Service is the application facade wiring providers behind the ports.
type Service struct {
	Solver    ports.Solver
	Generator ports.Generator
	Validator ports.Validator
	Storage   ports.Storage
}

func NewService(s ports.Solver, g ports.Generator, v ports.Validator, st ports.Storage) *Service {
	return &Service{Solver: s, Generator: g, Validator: v, Storage: st}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) Solve(ctx context.Context, b *domain.Board, budget domain.Budget) (domain.SolveResult, error) {
	if u.Solver == nil {
		return domain.SolveResult{}, errNotConfigured
	}
	return u.Solver.Solve(ctx, b, budget)
}

func (u *Service) Generate(ctx context.Context, skel domain.Skeleton, params domain.GenParams) (*domain.Level, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	return u.Generator.Generate(ctx, skel, params)
}

func (u *Service) Validate(ctx context.Context, b *domain.Board) (bool, []domain.Pos, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, b)
}

// Persistence
func (u *Service) Save(ctx context.Context, l *domain.Level) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	return u.Storage.Save(ctx, l)
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Level, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.LevelMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

package guaranteemock

import (
	"context"
	"time"

	domain "garantia-backend/internal/domain/guarantee"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn           func(ctx context.Context, g *domain.Guarantee) error
	GetByGuaranteeIDFn func(ctx context.Context, guaranteeID string) (*domain.Guarantee, error)
	SaveWithVersionFn  func(ctx context.Context, g *domain.Guarantee, expectedVersion int64) error
	ListExpirableFn    func(ctx context.Context, asOf time.Time, limit int) ([]domain.Guarantee, error)
}

func (m *Repo) Create(ctx context.Context, g *domain.Guarantee) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}

func (m *Repo) GetByGuaranteeID(ctx context.Context, guaranteeID string) (*domain.Guarantee, error) {
	if m.GetByGuaranteeIDFn != nil {
		return m.GetByGuaranteeIDFn(ctx, guaranteeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveWithVersion(ctx context.Context, g *domain.Guarantee, expectedVersion int64) error {
	if m.SaveWithVersionFn != nil {
		return m.SaveWithVersionFn(ctx, g, expectedVersion)
	}
	return nil
}

func (m *Repo) ListExpirable(ctx context.Context, asOf time.Time, limit int) ([]domain.Guarantee, error) {
	if m.ListExpirableFn != nil {
		return m.ListExpirableFn(ctx, asOf, limit)
	}
	return nil, nil
}

package auditmock

import (
	"context"

	domain "garantia-backend/internal/domain/audit"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	AppendFn            func(ctx context.Context, e *domain.Entry) error
	ListByGuaranteeIDFn func(ctx context.Context, guaranteeID uint64) ([]domain.Entry, error)
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListByGuaranteeID(ctx context.Context, guaranteeID uint64) ([]domain.Entry, error) {
	if m.ListByGuaranteeIDFn != nil {
		return m.ListByGuaranteeIDFn(ctx, guaranteeID)
	}
	return nil, nil
}

package uow

import (
	"context"

	"garantia-backend/internal/domain/audit"
	"garantia-backend/internal/domain/guarantee"
)

// Repos are transaction-scoped repository handles. The engine uses them to
// write the aggregate and its audit entry in one unit of work: a transition
// is never applied unless its audit entry is also durable.
type Repos struct {
	Guarantees guarantee.Repository
	Audits     audit.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

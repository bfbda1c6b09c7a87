package guarantee

import (
	"context"
	"time"
)

// Repository reads and writes whole aggregates only. There is no partial
// update path, so nothing outside the transition engine can mutate state.
type Repository interface {
	Create(ctx context.Context, g *Guarantee) error
	GetByGuaranteeID(ctx context.Context, guaranteeID string) (*Guarantee, error)

	// SaveWithVersion writes the whole aggregate conditioned on the stored
	// version still matching expectedVersion. On mismatch it returns
	// ErrConcurrentModification and writes nothing.
	SaveWithVersion(ctx context.Context, g *Guarantee, expectedVersion int64) error

	// ListExpirable returns active guarantees whose expiry has passed.
	ListExpirable(ctx context.Context, asOf time.Time, limit int) ([]Guarantee, error)
}

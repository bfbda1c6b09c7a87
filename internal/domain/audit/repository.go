package audit

import "context"

// Repository is append-only: no update, no delete.
type Repository interface {
	// Append stores the entry and assigns its per-guarantee sequence number.
	// Must run inside the same transaction as the guarantee version check so
	// sequences stay gap-free under concurrent writers.
	Append(ctx context.Context, e *Entry) error

	// ListByGuaranteeID returns all entries ordered by sequence ascending.
	ListByGuaranteeID(ctx context.Context, guaranteeID uint64) ([]Entry, error)
}

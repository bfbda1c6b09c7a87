package mysql

import (
	"context"

	"gorm.io/gorm"

	auditDomain "garantia-backend/internal/domain/audit"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

// Append assigns the next per-guarantee sequence and inserts the entry.
// Callers run this inside the same transaction as the guarantee's
// version-conditioned update; that write serializes concurrent writers, so
// MAX+1 here cannot produce duplicates or gaps. The unique index on
// (guarantee_id, sequence) backstops the invariant.
func (r *AuditRepository) Append(ctx context.Context, e *auditDomain.Entry) error {
	var next int64
	err := r.db.WithContext(ctx).
		Model(&auditDomain.Entry{}).
		Where("guarantee_id = ?", e.GuaranteeID).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return err
	}
	e.Sequence = next
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) ListByGuaranteeID(ctx context.Context, guaranteeID uint64) ([]auditDomain.Entry, error) {
	var out []auditDomain.Entry
	err := r.db.WithContext(ctx).
		Where("guarantee_id = ?", guaranteeID).
		Order("sequence ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

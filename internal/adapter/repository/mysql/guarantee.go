package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	guaranteeDomain "garantia-backend/internal/domain/guarantee"
)

type GuaranteeRepository struct{ db *gorm.DB }

func NewGuaranteeRepository(db *gorm.DB) *GuaranteeRepository { return &GuaranteeRepository{db: db} }

func (r *GuaranteeRepository) Create(ctx context.Context, g *guaranteeDomain.Guarantee) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GuaranteeRepository) GetByGuaranteeID(ctx context.Context, guaranteeID string) (*guaranteeDomain.Guarantee, error) {
	var out guaranteeDomain.Guarantee
	res := r.db.WithContext(ctx).Where("guarantee_id = ?", guaranteeID).First(&out)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, guaranteeDomain.ErrNotFound
		}
		return nil, res.Error
	}
	return &out, nil
}

// SaveWithVersion writes the whole aggregate, conditioned on the stored row
// still carrying expectedVersion. Zero rows affected means someone else won
// the race; nothing is written and the enclosing transaction rolls back.
func (r *GuaranteeRepository) SaveWithVersion(ctx context.Context, g *guaranteeDomain.Guarantee, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&guaranteeDomain.Guarantee{}).
		Where("guarantee_id = ? AND version = ?", g.GuaranteeID, expectedVersion).
		Select("*").
		Omit("id", "guarantee_id", "created_at").
		Updates(g)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return guaranteeDomain.ErrConcurrentModification
	}
	return nil
}

func (r *GuaranteeRepository) ListExpirable(ctx context.Context, asOf time.Time, limit int) ([]guaranteeDomain.Guarantee, error) {
	var out []guaranteeDomain.Guarantee
	q := r.db.WithContext(ctx).
		Where("state = ? AND expires_at IS NOT NULL AND expires_at <= ?", guaranteeDomain.StateActive, asOf).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package audit

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("audit entry not found")

// Entry is one append-only record of a state-changing action on a guarantee.
// Entries are written only by the transition engine, inside the same
// transaction as the state write, and are never updated or deleted.
//
// Financially-relevant actions carry a snapshot of score/rate/fee so the
// history is self-describing even when read long after approval.
type Entry struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// FK to guarantees.id (numeric)
	GuaranteeID uint64 `gorm:"column:guarantee_id;not null;index:idx_audit_guarantee;uniqueIndex:ux_audit_guarantee_seq,priority:1" json:"-"`
	// Monotonic per guarantee, assigned by the log itself, gap-free
	Sequence int64 `gorm:"column:sequence;not null;uniqueIndex:ux_audit_guarantee_seq,priority:2" json:"sequence"`

	Action    string `gorm:"column:action;size:64;not null" json:"action"`
	ActorID   string `gorm:"column:actor_id;size:64;not null" json:"actor_id"`
	ActorRole string `gorm:"column:actor_role;size:32;not null" json:"actor_role"`

	FromState string `gorm:"column:from_state;size:32" json:"from_state"`
	ToState   string `gorm:"column:to_state;size:32;not null" json:"to_state"`

	Detail string `gorm:"column:detail;type:text" json:"detail,omitempty"`

	// Financial snapshot, set only on financially-relevant actions
	CreditScore  *int                `gorm:"column:credit_score" json:"credit_score,omitempty"`
	AppliedRate  decimal.NullDecimal `gorm:"column:applied_rate;type:decimal(6,2)" json:"applied_rate,omitempty"`
	GuaranteeFee decimal.NullDecimal `gorm:"column:guarantee_fee;type:decimal(16,2)" json:"guarantee_fee,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "guarantee_audit_entries" }

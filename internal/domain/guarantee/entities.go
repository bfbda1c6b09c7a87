package guarantee

import (
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateSubmitted               State = "submitted"
	StateUnderReview             State = "under_review"
	StateApproved                State = "approved"
	StateRejected                State = "rejected"
	StateSentToFinance           State = "sent_to_finance"
	StateAwaitingPaymentLink     State = "awaiting_payment_link"
	StatePaymentLinkIssued       State = "payment_link_issued"
	StateProofSubmitted          State = "proof_submitted"
	StatePaymentConfirmed        State = "payment_confirmed"
	StateAwaitingAgencySignature State = "awaiting_agency_signature"
	StateActive                  State = "active"
	StateExpired                 State = "expired"
	StateCancelled               State = "cancelled"
)

// Terminal states keep no outgoing edges; only the admin override can reopen them.
func (s State) Terminal() bool {
	return s == StateRejected || s == StateExpired || s == StateCancelled
}

func (s State) Known() bool {
	switch s {
	case StateSubmitted, StateUnderReview, StateApproved, StateRejected,
		StateSentToFinance, StateAwaitingPaymentLink, StatePaymentLinkIssued,
		StateProofSubmitted, StatePaymentConfirmed, StateAwaitingAgencySignature,
		StateActive, StateExpired, StateCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
)

type Role string

const (
	RoleAgency  Role = "agency"
	RoleAnalyst Role = "analyst"
	RoleFinance Role = "finance"
	RoleTenant  Role = "tenant"
	RoleLegal   Role = "legal"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAgency, RoleAnalyst, RoleFinance, RoleTenant, RoleLegal, RoleAdmin, RoleSystem:
		return Role(s), true
	}
	return "", false
}

// Actor is the explicit identity behind every mutating call. There is no
// implicit "current user"; callers always say who is acting and as what.
type Actor struct {
	ID   string
	Role Role
}

// SystemActor drives time-based transitions (expiry) and automated forwarding.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

// Guarantee is the aggregate root of the surety lifecycle.
//
// The derived financial fields (TotalLeaseValue, AppliedRate, GuaranteeFee)
// and CreditScore are write-once: null until the Approve transition, then
// frozen. Later rent/term edits never recompute them.
type Guarantee struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	GuaranteeID string `gorm:"column:guarantee_id;type:char(32);not null;uniqueIndex:ux_guarantees_guarantee_id" json:"guarantee_id"`

	// Tenant snapshot
	TenantName          string          `gorm:"column:tenant_name;size:255;not null" json:"tenant_name"`
	TenantNationalID    string          `gorm:"column:tenant_national_id;size:32;not null" json:"tenant_national_id"`
	TenantMonthlyIncome decimal.Decimal `gorm:"column:tenant_monthly_income;type:decimal(14,2)" json:"tenant_monthly_income"`
	TenantContact       string          `gorm:"column:tenant_contact;size:255" json:"tenant_contact"`
	TenantAddress       string          `gorm:"column:tenant_address;type:text" json:"tenant_address"`

	// Owning agency and the analyst the case is assigned to (if any)
	AgencyID  string `gorm:"column:agency_id;type:char(32);not null;index:idx_guarantees_agency" json:"agency_id"`
	AnalystID string `gorm:"column:analyst_id;type:char(32)" json:"analyst_id,omitempty"`

	// Property snapshot
	PropertyType        string          `gorm:"column:property_type;size:64;not null" json:"property_type"`
	PropertyAddress     string          `gorm:"column:property_address;type:text;not null" json:"property_address"`
	PropertyArea        string          `gorm:"column:property_area;size:32" json:"property_area,omitempty"`
	PropertyDescription string          `gorm:"column:property_description;type:text" json:"property_description,omitempty"`
	MonthlyRent         decimal.Decimal `gorm:"column:monthly_rent;type:decimal(14,2);not null" json:"monthly_rent"`
	LeaseTermMonths     int             `gorm:"column:lease_term_months;not null" json:"lease_term_months"`

	// Derived financial fields, frozen by Approve and never recomputed
	TotalLeaseValue decimal.NullDecimal `gorm:"column:total_lease_value;type:decimal(16,2)" json:"total_lease_value"`
	AppliedRate     decimal.NullDecimal `gorm:"column:applied_rate;type:decimal(6,2)" json:"applied_rate"`
	GuaranteeFee    decimal.NullDecimal `gorm:"column:guarantee_fee;type:decimal(16,2)" json:"guarantee_fee"`
	CreditScore     *int                `gorm:"column:credit_score" json:"credit_score"`

	State           State  `gorm:"column:state;size:32;not null;index:idx_guarantees_state" json:"state"`
	RejectionReason string `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`

	// Payment stage
	PaymentLink       string        `gorm:"column:payment_link;type:text" json:"payment_link,omitempty"`
	ProofOfPaymentRef string        `gorm:"column:proof_of_payment_ref;size:255" json:"proof_of_payment_ref,omitempty"`
	PaymentStatus     PaymentStatus `gorm:"column:payment_status;size:16;not null;default:'pending'" json:"payment_status"`
	SignedContractRef string        `gorm:"column:signed_contract_ref;size:255" json:"signed_contract_ref,omitempty"`

	// Optimistic concurrency token; +1 per accepted transition
	Version int64 `gorm:"column:version;not null" json:"version"`

	// Set at Activate: contract start plus lease term; feeds MarkExpired
	ExpiresAt *time.Time `gorm:"column:expires_at;index:idx_guarantees_expires" json:"expires_at,omitempty"`

	StateUpdatedAt time.Time `gorm:"column:state_updated_at" json:"state_updated_at"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Guarantee) TableName() string { return "guarantees" }

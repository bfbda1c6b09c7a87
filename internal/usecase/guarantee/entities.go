package guarantee

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateInput struct {
	TenantName          string
	TenantNationalID    string
	TenantMonthlyIncome decimal.Decimal
	TenantContact       string
	TenantAddress       string

	PropertyType        string
	PropertyAddress     string
	PropertyArea        string
	PropertyDescription string
	MonthlyRent         decimal.Decimal
	LeaseTermMonths     int
}

type GuaranteeDTO struct {
	GuaranteeID string `json:"guarantee_id"`

	TenantName          string          `json:"tenant_name"`
	TenantNationalID    string          `json:"tenant_national_id"`
	TenantMonthlyIncome decimal.Decimal `json:"tenant_monthly_income"`
	TenantContact       string          `json:"tenant_contact,omitempty"`
	TenantAddress       string          `json:"tenant_address,omitempty"`

	AgencyID  string `json:"agency_id"`
	AnalystID string `json:"analyst_id,omitempty"`

	PropertyType    string          `json:"property_type"`
	PropertyAddress string          `json:"property_address"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	LeaseTermMonths int             `json:"lease_term_months"`

	TotalLeaseValue *decimal.Decimal `json:"total_lease_value,omitempty"`
	AppliedRate     *decimal.Decimal `json:"applied_rate,omitempty"`
	GuaranteeFee    *decimal.Decimal `json:"guarantee_fee,omitempty"`
	CreditScore     *int             `json:"credit_score,omitempty"`

	State           string `json:"state"`
	RejectionReason string `json:"rejection_reason,omitempty"`

	PaymentLink       string `json:"payment_link,omitempty"`
	ProofOfPaymentRef string `json:"proof_of_payment_ref,omitempty"`
	PaymentStatus     string `json:"payment_status"`
	SignedContractRef string `json:"signed_contract_ref,omitempty"`

	Version   int64      `json:"version"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type AuditEntryDTO struct {
	Sequence  int64  `json:"sequence"`
	Action    string `json:"action"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	FromState string `json:"from_state,omitempty"`
	ToState   string `json:"to_state"`
	Detail    string `json:"detail,omitempty"`

	CreditScore  *int             `json:"credit_score,omitempty"`
	AppliedRate  *decimal.Decimal `json:"applied_rate,omitempty"`
	GuaranteeFee *decimal.Decimal `json:"guarantee_fee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

package transition

import (
	"github.com/shopspring/decimal"

	"garantia-backend/internal/domain/guarantee"
)

// Result is what every transition returns to its caller.
type Result struct {
	GuaranteeID string          `json:"guarantee_id"`
	State       guarantee.State `json:"state"`
	Version     int64           `json:"version"`
}

type ApproveInput struct {
	CreditScore int
	AppliedRate decimal.Decimal // percentage, (0, 100]
}

type RejectInput struct {
	Reason string
}

type IssuePaymentLinkInput struct {
	PaymentLink string
}

type SubmitProofInput struct {
	ProofOfPaymentRef string
}

type ActivateInput struct {
	SignedContractRef string
}

type CancelInput struct {
	Reason string
}

type OverrideInput struct {
	Reason string
}

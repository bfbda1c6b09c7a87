package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"garantia-backend/internal/domain/guarantee"
	ucTransition "garantia-backend/internal/usecase/transition"
)

type TransitionHandler struct{ uc *ucTransition.Usecase }

func NewTransitionHandler(uc *ucTransition.Usecase) *TransitionHandler {
	return &TransitionHandler{uc: uc}
}

// withActor factors the shared prologue of every transition route: path
// param, actor headers, then the transition call.
func (h *TransitionHandler) withActor(c echo.Context, fn func(guaranteeID string, actor guarantee.Actor) (*ucTransition.Result, error)) error {
	guaranteeID := c.Param("guarantee_id")
	if guaranteeID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing guarantee_id path param"})
	}
	actor, err := actorFromHeaders(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	res, err := fn(guaranteeID, actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TransitionHandler) StartReview(c echo.Context) error {
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.StartReview(c.Request().Context(), id, actor)
	})
}

type approveReq struct {
	CreditScore int     `json:"credit_score" validate:"required,gte=300,lte=999"`
	AppliedRate float64 `json:"applied_rate" validate:"required,gt=0,lte=100,dec2"`
}

func (h *TransitionHandler) Approve(c echo.Context) error {
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.Approve(c.Request().Context(), id, actor, ucTransition.ApproveInput{
			CreditScore: req.CreditScore,
			AppliedRate: decimal.NewFromFloat(req.AppliedRate),
		})
	})
}

type reasonReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *TransitionHandler) Reject(c echo.Context) error {
	var req reasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.Reject(c.Request().Context(), id, actor, ucTransition.RejectInput{Reason: req.Reason})
	})
}

func (h *TransitionHandler) ForwardToFinance(c echo.Context) error {
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.ForwardToFinance(c.Request().Context(), id, actor)
	})
}

func (h *TransitionHandler) AcknowledgeFinance(c echo.Context) error {
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.AcknowledgeFinance(c.Request().Context(), id, actor)
	})
}

type paymentLinkReq struct {
	PaymentLink string `json:"payment_link" validate:"required,url"`
}

func (h *TransitionHandler) IssuePaymentLink(c echo.Context) error {
	var req paymentLinkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.IssuePaymentLink(c.Request().Context(), id, actor, ucTransition.IssuePaymentLinkInput{PaymentLink: req.PaymentLink})
	})
}

type proofReq struct {
	ProofOfPaymentRef string `json:"proof_of_payment_ref" validate:"required"`
}

func (h *TransitionHandler) SubmitProof(c echo.Context) error {
	var req proofReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.SubmitProof(c.Request().Context(), id, actor, ucTransition.SubmitProofInput{ProofOfPaymentRef: req.ProofOfPaymentRef})
	})
}

func (h *TransitionHandler) ConfirmPayment(c echo.Context) error {
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.ConfirmPayment(c.Request().Context(), id, actor)
	})
}

func (h *TransitionHandler) RequestSignature(c echo.Context) error {
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.RequestSignature(c.Request().Context(), id, actor)
	})
}

type activateReq struct {
	SignedContractRef string `json:"signed_contract_ref" validate:"required"`
}

func (h *TransitionHandler) Activate(c echo.Context) error {
	var req activateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.Activate(c.Request().Context(), id, actor, ucTransition.ActivateInput{SignedContractRef: req.SignedContractRef})
	})
}

func (h *TransitionHandler) Cancel(c echo.Context) error {
	var req reasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.Cancel(c.Request().Context(), id, actor, ucTransition.CancelInput{Reason: req.Reason})
	})
}

func (h *TransitionHandler) Override(c echo.Context) error {
	var req reasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.withActor(c, func(id string, actor guarantee.Actor) (*ucTransition.Result, error) {
		return h.uc.Override(c.Request().Context(), id, actor, ucTransition.OverrideInput{Reason: req.Reason})
	})
}

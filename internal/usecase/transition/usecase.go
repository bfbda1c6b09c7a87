package transition

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"garantia-backend/internal/authz"
	"garantia-backend/internal/domain/audit"
	"garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/domain/uow"
	"garantia-backend/internal/fee"
	"garantia-backend/internal/notify"
)

// Usecase is the transition engine. Every mutation of a guarantee goes
// through apply(): guard check, payload validation, edge check, optional fee
// computation, then a version-conditioned write plus one audit entry in a
// single transaction. Nothing else in the codebase writes guarantee state.
type Usecase struct {
	guard     *authz.Guard
	uow       uow.UnitOfWork
	publisher notify.Publisher
}

func NewUsecase(guard *authz.Guard, tx uow.UnitOfWork, publisher notify.Publisher) *Usecase {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Usecase{guard: guard, uow: tx, publisher: publisher}
}

// request is one transition, fully described. mutate runs after the edge
// check and before the write; its field assignments are the only aggregate
// changes besides state/version/timestamps.
type request struct {
	name     guarantee.Transition
	actor    guarantee.Actor
	validate func() error
	mutate   func(g *guarantee.Guarantee) error
	detail   string
	// financial requests snapshot score/rate/fee onto the audit entry
	financial bool
	// noopOnTerminal: succeed without writing when the aggregate is already
	// terminal (time-driven triggers may fire more than once)
	noopOnTerminal bool
}

func (u *Usecase) apply(ctx context.Context, guaranteeID string, req request) (*Result, error) {
	// Authorization first: a role that can never perform the transition is
	// rejected regardless of the aggregate's current state.
	if !u.guard.Allowed(req.actor.Role, req.name) {
		return nil, guarantee.ErrUnauthorized
	}
	if req.validate != nil {
		if err := req.validate(); err != nil {
			return nil, err
		}
	}

	var res *Result
	var applied bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		g, err := r.Guarantees.GetByGuaranteeID(ctx, guaranteeID)
		if err != nil {
			return err
		}

		if req.noopOnTerminal && g.State.Terminal() {
			res = &Result{GuaranteeID: g.GuaranteeID, State: g.State, Version: g.Version}
			return nil
		}

		next, ok := guarantee.NextState(req.name, g.State)
		if !ok {
			return &guarantee.InvalidTransitionError{From: g.State, Transition: req.name}
		}

		expected := g.Version
		from := g.State

		if req.mutate != nil {
			if err := req.mutate(g); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		g.State = next
		g.Version = expected + 1
		g.StateUpdatedAt = now
		g.UpdatedAt = now

		if err := r.Guarantees.SaveWithVersion(ctx, g, expected); err != nil {
			return err
		}

		entry := &audit.Entry{
			GuaranteeID: g.ID,
			Action:      string(req.name),
			ActorID:     req.actor.ID,
			ActorRole:   string(req.actor.Role),
			FromState:   string(from),
			ToState:     string(next),
			Detail:      req.detail,
		}
		if req.financial {
			entry.CreditScore = g.CreditScore
			entry.AppliedRate = g.AppliedRate
			entry.GuaranteeFee = g.GuaranteeFee
		}
		if err := r.Audits.Append(ctx, entry); err != nil {
			return err
		}

		applied = true
		res = &Result{GuaranteeID: g.GuaranteeID, State: next, Version: g.Version}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		u.publisher.Publish(notify.Event{
			GuaranteeID: res.GuaranteeID,
			Action:      string(req.name),
			State:       string(res.State),
			ActorID:     req.actor.ID,
			ActorRole:   string(req.actor.Role),
			At:          time.Now().UTC(),
		})
	}
	return res, nil
}

// StartReview assigns the case to the acting analyst and opens review.
func (u *Usecase) StartReview(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionStartReview,
		actor: actor,
		mutate: func(g *guarantee.Guarantee) error {
			g.AnalystID = actor.ID
			return nil
		},
		detail: "review started",
	})
}

// Approve freezes credit score, rate and the computed fee onto the aggregate.
// The figures are never recomputed afterwards, even if rent or term change.
func (u *Usecase) Approve(ctx context.Context, guaranteeID string, actor guarantee.Actor, in ApproveInput) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionApprove,
		actor: actor,
		validate: func() error {
			var bad []string
			if in.CreditScore < 300 || in.CreditScore > 999 {
				bad = append(bad, "credit_score")
			}
			if in.AppliedRate.LessThanOrEqual(decimal.Zero) || in.AppliedRate.GreaterThan(decimal.NewFromInt(100)) {
				bad = append(bad, "applied_rate")
			}
			if len(bad) > 0 {
				return &guarantee.InvalidPayloadError{Fields: bad}
			}
			return nil
		},
		mutate: func(g *guarantee.Guarantee) error {
			quote, err := fee.Compute(g.MonthlyRent, g.LeaseTermMonths, in.AppliedRate)
			if err != nil {
				return err
			}
			score := in.CreditScore
			g.CreditScore = &score
			g.AppliedRate = decimal.NewNullDecimal(in.AppliedRate)
			g.TotalLeaseValue = decimal.NewNullDecimal(quote.TotalLeaseValue)
			g.GuaranteeFee = decimal.NewNullDecimal(quote.GuaranteeFee)
			return nil
		},
		detail:    "application approved",
		financial: true,
	})
}

func (u *Usecase) Reject(ctx context.Context, guaranteeID string, actor guarantee.Actor, in RejectInput) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionReject,
		actor: actor,
		validate: func() error {
			if strings.TrimSpace(in.Reason) == "" {
				return &guarantee.InvalidPayloadError{Fields: []string{"rejection_reason"}}
			}
			return nil
		},
		mutate: func(g *guarantee.Guarantee) error {
			g.RejectionReason = strings.TrimSpace(in.Reason)
			return nil
		},
		detail: "application rejected",
	})
}

func (u *Usecase) ForwardToFinance(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:   guarantee.TransitionForwardToFinance,
		actor:  actor,
		detail: "forwarded to finance",
	})
}

func (u *Usecase) AcknowledgeFinance(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:   guarantee.TransitionAcknowledgeFinance,
		actor:  actor,
		detail: "finance picked up the case",
	})
}

func (u *Usecase) IssuePaymentLink(ctx context.Context, guaranteeID string, actor guarantee.Actor, in IssuePaymentLinkInput) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionIssuePaymentLink,
		actor: actor,
		validate: func() error {
			if !validURL(in.PaymentLink) {
				return &guarantee.InvalidPayloadError{Fields: []string{"payment_link"}}
			}
			return nil
		},
		mutate: func(g *guarantee.Guarantee) error {
			g.PaymentLink = in.PaymentLink
			return nil
		},
		detail: "payment link issued",
	})
}

func (u *Usecase) SubmitProof(ctx context.Context, guaranteeID string, actor guarantee.Actor, in SubmitProofInput) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionSubmitProof,
		actor: actor,
		validate: func() error {
			if strings.TrimSpace(in.ProofOfPaymentRef) == "" {
				return &guarantee.InvalidPayloadError{Fields: []string{"proof_of_payment_ref"}}
			}
			return nil
		},
		mutate: func(g *guarantee.Guarantee) error {
			g.ProofOfPaymentRef = strings.TrimSpace(in.ProofOfPaymentRef)
			return nil
		},
		detail: "proof of payment submitted",
	})
}

func (u *Usecase) ConfirmPayment(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionConfirmPayment,
		actor: actor,
		mutate: func(g *guarantee.Guarantee) error {
			g.PaymentStatus = guarantee.PaymentConfirmed
			return nil
		},
		detail: "payment confirmed",
	})
}

func (u *Usecase) RequestSignature(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:   guarantee.TransitionRequestSignature,
		actor:  actor,
		detail: "agency signature requested",
	})
}

// Activate stores the signed contract reference and stamps the expiry the
// time-driven MarkExpired job will act on.
func (u *Usecase) Activate(ctx context.Context, guaranteeID string, actor guarantee.Actor, in ActivateInput) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionActivate,
		actor: actor,
		validate: func() error {
			if strings.TrimSpace(in.SignedContractRef) == "" {
				return &guarantee.InvalidPayloadError{Fields: []string{"signed_contract_ref"}}
			}
			return nil
		},
		mutate: func(g *guarantee.Guarantee) error {
			g.SignedContractRef = strings.TrimSpace(in.SignedContractRef)
			exp := time.Now().UTC().AddDate(0, g.LeaseTermMonths, 0)
			g.ExpiresAt = &exp
			return nil
		},
		detail: "contract signed, guarantee active",
	})
}

// MarkExpired is the one time-driven transition. Expiring an already-terminal
// guarantee is a no-op success with no duplicate audit entry, because the
// trigger may fire more than once.
func (u *Usecase) MarkExpired(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:           guarantee.TransitionMarkExpired,
		actor:          actor,
		detail:         "lease term elapsed",
		noopOnTerminal: true,
	})
}

func (u *Usecase) Cancel(ctx context.Context, guaranteeID string, actor guarantee.Actor, in CancelInput) (*Result, error) {
	return u.apply(ctx, guaranteeID, request{
		name:  guarantee.TransitionCancel,
		actor: actor,
		validate: func() error {
			if strings.TrimSpace(in.Reason) == "" {
				return &guarantee.InvalidPayloadError{Fields: []string{"reason"}}
			}
			return nil
		},
		detail: "cancelled: " + strings.TrimSpace(in.Reason),
	})
}

// Override reopens a terminal guarantee to under_review. It bypasses the edge
// table on purpose (terminal states have no outgoing edges) but is still
// guard-checked, version-checked and audited under its own action name, so
// operator corrections never rewrite history.
func (u *Usecase) Override(ctx context.Context, guaranteeID string, actor guarantee.Actor, in OverrideInput) (*Result, error) {
	if !u.guard.Allowed(actor.Role, guarantee.TransitionOverride) {
		return nil, guarantee.ErrUnauthorized
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, &guarantee.InvalidPayloadError{Fields: []string{"reason"}}
	}

	var res *Result
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		g, err := r.Guarantees.GetByGuaranteeID(ctx, guaranteeID)
		if err != nil {
			return err
		}
		if !g.State.Terminal() {
			return &guarantee.InvalidTransitionError{From: g.State, Transition: guarantee.TransitionOverride}
		}

		expected := g.Version
		from := g.State
		now := time.Now().UTC()

		g.State = guarantee.StateUnderReview
		g.RejectionReason = ""
		g.Version = expected + 1
		g.StateUpdatedAt = now
		g.UpdatedAt = now

		if err := r.Guarantees.SaveWithVersion(ctx, g, expected); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &audit.Entry{
			GuaranteeID: g.ID,
			Action:      string(guarantee.TransitionOverride),
			ActorID:     actor.ID,
			ActorRole:   string(actor.Role),
			FromState:   string(from),
			ToState:     string(g.State),
			Detail:      "administrative override: " + strings.TrimSpace(in.Reason),
		}); err != nil {
			return err
		}
		res = &Result{GuaranteeID: g.GuaranteeID, State: g.State, Version: g.Version}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.publisher.Publish(notify.Event{
		GuaranteeID: res.GuaranteeID,
		Action:      string(guarantee.TransitionOverride),
		State:       string(res.State),
		ActorID:     actor.ID,
		ActorRole:   string(actor.Role),
		At:          time.Now().UTC(),
	})
	return res, nil
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

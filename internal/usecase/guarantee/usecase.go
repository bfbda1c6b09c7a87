package guarantee

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"garantia-backend/internal/authz"
	"garantia-backend/internal/domain/audit"
	domain "garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/domain/uow"
	"garantia-backend/pkg/id"
)

// Usecase covers creation and the read surface. All later mutations go
// through the transition engine; this package never changes state.
type Usecase struct {
	guard  *authz.Guard
	repo   domain.Repository
	audits audit.Repository
	uow    uow.UnitOfWork
}

func NewUsecase(guard *authz.Guard, repo domain.Repository, audits audit.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{guard: guard, repo: repo, audits: audits, uow: tx}
}

// Create opens a guarantee in the submitted state on behalf of an agency.
// The first audit entry (sequence 1) is written in the same transaction.
func (u *Usecase) Create(ctx context.Context, actor domain.Actor, in CreateInput) (*GuaranteeDTO, error) {
	if !u.guard.Allowed(actor.Role, domain.TransitionSubmit) {
		return nil, domain.ErrUnauthorized
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &domain.Guarantee{
		GuaranteeID:         id.NewID32(),
		TenantName:          strings.TrimSpace(in.TenantName),
		TenantNationalID:    strings.TrimSpace(in.TenantNationalID),
		TenantMonthlyIncome: in.TenantMonthlyIncome,
		TenantContact:       strings.TrimSpace(in.TenantContact),
		TenantAddress:       strings.TrimSpace(in.TenantAddress),
		AgencyID:            actor.ID,
		PropertyType:        strings.TrimSpace(in.PropertyType),
		PropertyAddress:     strings.TrimSpace(in.PropertyAddress),
		PropertyArea:        strings.TrimSpace(in.PropertyArea),
		PropertyDescription: strings.TrimSpace(in.PropertyDescription),
		MonthlyRent:         in.MonthlyRent,
		LeaseTermMonths:     in.LeaseTermMonths,
		State:               domain.StateSubmitted,
		PaymentStatus:       domain.PaymentPending,
		Version:             1,
		StateUpdatedAt:      now,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Guarantees.Create(ctx, g); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &audit.Entry{
			GuaranteeID: g.ID,
			Action:      string(domain.TransitionSubmit),
			ActorID:     actor.ID,
			ActorRole:   string(actor.Role),
			ToState:     string(domain.StateSubmitted),
			Detail:      "guarantee submitted",
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(g), nil
}

func (u *Usecase) Get(ctx context.Context, guaranteeID string) (*GuaranteeDTO, error) {
	g, err := u.repo.GetByGuaranteeID(ctx, guaranteeID)
	if err != nil {
		return nil, err
	}
	return toDTO(g), nil
}

// History returns the audit trail ordered by sequence ascending.
func (u *Usecase) History(ctx context.Context, guaranteeID string) ([]AuditEntryDTO, error) {
	g, err := u.repo.GetByGuaranteeID(ctx, guaranteeID)
	if err != nil {
		return nil, err
	}
	entries, err := u.audits.ListByGuaranteeID(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	out := make([]AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out, nil
}

func validateCreate(in CreateInput) error {
	var bad []string
	if strings.TrimSpace(in.TenantName) == "" {
		bad = append(bad, "tenant_name")
	}
	if strings.TrimSpace(in.TenantNationalID) == "" {
		bad = append(bad, "tenant_national_id")
	}
	if strings.TrimSpace(in.PropertyType) == "" {
		bad = append(bad, "property_type")
	}
	if strings.TrimSpace(in.PropertyAddress) == "" {
		bad = append(bad, "property_address")
	}
	if in.MonthlyRent.LessThanOrEqual(decimal.Zero) {
		bad = append(bad, "monthly_rent")
	}
	if in.LeaseTermMonths <= 0 {
		bad = append(bad, "lease_term_months")
	}
	if len(bad) > 0 {
		return &domain.InvalidPayloadError{Fields: bad}
	}
	return nil
}

func toDTO(g *domain.Guarantee) *GuaranteeDTO {
	dto := &GuaranteeDTO{
		GuaranteeID:         g.GuaranteeID,
		TenantName:          g.TenantName,
		TenantNationalID:    g.TenantNationalID,
		TenantMonthlyIncome: g.TenantMonthlyIncome,
		TenantContact:       g.TenantContact,
		TenantAddress:       g.TenantAddress,
		AgencyID:            g.AgencyID,
		AnalystID:           g.AnalystID,
		PropertyType:        g.PropertyType,
		PropertyAddress:     g.PropertyAddress,
		MonthlyRent:         g.MonthlyRent,
		LeaseTermMonths:     g.LeaseTermMonths,
		CreditScore:         g.CreditScore,
		State:               string(g.State),
		RejectionReason:     g.RejectionReason,
		PaymentLink:         g.PaymentLink,
		ProofOfPaymentRef:   g.ProofOfPaymentRef,
		PaymentStatus:       string(g.PaymentStatus),
		SignedContractRef:   g.SignedContractRef,
		Version:             g.Version,
		ExpiresAt:           g.ExpiresAt,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
	if g.TotalLeaseValue.Valid {
		v := g.TotalLeaseValue.Decimal
		dto.TotalLeaseValue = &v
	}
	if g.AppliedRate.Valid {
		v := g.AppliedRate.Decimal
		dto.AppliedRate = &v
	}
	if g.GuaranteeFee.Valid {
		v := g.GuaranteeFee.Decimal
		dto.GuaranteeFee = &v
	}
	return dto
}

func toEntryDTO(e audit.Entry) AuditEntryDTO {
	dto := AuditEntryDTO{
		Sequence:    e.Sequence,
		Action:      e.Action,
		ActorID:     e.ActorID,
		ActorRole:   e.ActorRole,
		FromState:   e.FromState,
		ToState:     e.ToState,
		Detail:      e.Detail,
		CreditScore: e.CreditScore,
		CreatedAt:   e.CreatedAt,
	}
	if e.AppliedRate.Valid {
		v := e.AppliedRate.Decimal
		dto.AppliedRate = &v
	}
	if e.GuaranteeFee.Valid {
		v := e.GuaranteeFee.Decimal
		dto.GuaranteeFee = &v
	}
	return dto
}

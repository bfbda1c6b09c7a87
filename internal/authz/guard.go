// Package authz holds the role/transition permission matrix. It is data, not
// conditionals, so the whole table can be audited and tested in one place.
// State eligibility is the engine's concern; the guard only answers "may this
// role ever perform this transition".
package authz

import "garantia-backend/internal/domain/guarantee"

type Guard struct {
	matrix map[guarantee.Role]map[guarantee.Transition]bool
}

// NewGuard builds the default permission matrix. Unknown roles and unknown
// transitions deny: the guard fails closed.
func NewGuard() *Guard {
	return &Guard{matrix: map[guarantee.Role]map[guarantee.Transition]bool{
		guarantee.RoleAgency: {
			guarantee.TransitionSubmit:           true,
			guarantee.TransitionRequestSignature: true,
			guarantee.TransitionActivate:         true,
		},
		guarantee.RoleAnalyst: {
			guarantee.TransitionStartReview:      true,
			guarantee.TransitionApprove:          true,
			guarantee.TransitionReject:           true,
			guarantee.TransitionForwardToFinance: true,
		},
		guarantee.RoleFinance: {
			guarantee.TransitionAcknowledgeFinance: true,
			guarantee.TransitionIssuePaymentLink:   true,
			guarantee.TransitionConfirmPayment:     true,
		},
		guarantee.RoleTenant: {
			guarantee.TransitionSubmitProof: true,
		},
		guarantee.RoleLegal: {
			guarantee.TransitionRequestSignature: true,
			guarantee.TransitionActivate:         true,
		},
		guarantee.RoleAdmin: {
			guarantee.TransitionSubmit:      true,
			guarantee.TransitionStartReview: true,
			guarantee.TransitionCancel:      true,
			guarantee.TransitionOverride:    true,
		},
		guarantee.RoleSystem: {
			guarantee.TransitionForwardToFinance: true,
			guarantee.TransitionMarkExpired:      true,
		},
	}}
}

func (g *Guard) Allowed(role guarantee.Role, t guarantee.Transition) bool {
	perms, ok := g.matrix[role]
	if !ok {
		return false
	}
	return perms[t]
}

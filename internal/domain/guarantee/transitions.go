package guarantee

type Transition string

const (
	// Submit is the creating action, audited like any transition.
	TransitionSubmit Transition = "submit"

	TransitionStartReview        Transition = "start_review"
	TransitionApprove            Transition = "approve"
	TransitionReject             Transition = "reject"
	TransitionForwardToFinance   Transition = "forward_to_finance"
	TransitionAcknowledgeFinance Transition = "acknowledge_finance"
	TransitionIssuePaymentLink   Transition = "issue_payment_link"
	TransitionSubmitProof        Transition = "submit_proof"
	TransitionConfirmPayment     Transition = "confirm_payment"
	TransitionRequestSignature   Transition = "request_signature"
	TransitionActivate           Transition = "activate"
	TransitionMarkExpired        Transition = "mark_expired"
	TransitionCancel             Transition = "cancel"

	// TransitionOverride reopens a terminal guarantee. It is not a normal
	// edge: it is separately authorized and separately named in the audit log.
	TransitionOverride Transition = "admin_override"
)

type edge struct {
	from []State
	to   State
	// Cancel is allowed from every non-terminal state rather than a fixed list.
	fromAnyNonTerminal bool
}

var edges = map[Transition]edge{
	TransitionStartReview:        {from: []State{StateSubmitted}, to: StateUnderReview},
	TransitionApprove:            {from: []State{StateUnderReview}, to: StateApproved},
	TransitionReject:             {from: []State{StateUnderReview}, to: StateRejected},
	TransitionForwardToFinance:   {from: []State{StateApproved}, to: StateSentToFinance},
	TransitionAcknowledgeFinance: {from: []State{StateSentToFinance}, to: StateAwaitingPaymentLink},
	TransitionIssuePaymentLink:   {from: []State{StateAwaitingPaymentLink}, to: StatePaymentLinkIssued},
	TransitionSubmitProof:        {from: []State{StatePaymentLinkIssued}, to: StateProofSubmitted},
	TransitionConfirmPayment:     {from: []State{StateProofSubmitted}, to: StatePaymentConfirmed},
	TransitionRequestSignature:   {from: []State{StatePaymentConfirmed}, to: StateAwaitingAgencySignature},
	TransitionActivate:           {from: []State{StateAwaitingAgencySignature}, to: StateActive},
	TransitionMarkExpired:        {from: []State{StateActive}, to: StateExpired},
	TransitionCancel:             {fromAnyNonTerminal: true, to: StateCancelled},
}

// NextState resolves the target state of a transition from the given state.
// ok is false when the current state has no such outgoing edge.
func NextState(t Transition, from State) (State, bool) {
	e, found := edges[t]
	if !found {
		return "", false
	}
	if e.fromAnyNonTerminal {
		if from.Terminal() {
			return "", false
		}
		return e.to, true
	}
	for _, s := range e.from {
		if s == from {
			return e.to, true
		}
	}
	return "", false
}

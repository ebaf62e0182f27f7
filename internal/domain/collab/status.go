package collab

import "strings"

type CandidateStatus string

const (
	StatusContacted     CandidateStatus = "CONTACTED"
	StatusInNegotiation CandidateStatus = "IN_NEGOTIATION"
	StatusHired         CandidateStatus = "HIRED"
	StatusContentReview CandidateStatus = "CONTENT_REVIEW"
	StatusCompleted     CandidateStatus = "COMPLETED"
	StatusRejected      CandidateStatus = "REJECTED"
	StatusArchived      CandidateStatus = "ARCHIVED"
)

var candidateStatuses = []CandidateStatus{
	StatusContacted,
	StatusInNegotiation,
	StatusHired,
	StatusContentReview,
	StatusCompleted,
	StatusRejected,
	StatusArchived,
}

func ParseCandidateStatus(raw string) (CandidateStatus, bool) {
	s := CandidateStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range candidateStatuses {
		if s == known {
			return s, true
		}
	}
	return "", false
}

func (s CandidateStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusArchived
}

// Negotiable statuses accept invitation responses, offers and rejection.
func (s CandidateStatus) Negotiable() bool {
	return s == StatusContacted || s == StatusInNegotiation
}

// PreHire reports whether moving to HIRED is a forward step.
func (s CandidateStatus) PreHire() bool {
	return s.Negotiable()
}

// Engaged statuses have a contract whose deliverables may move.
func (s CandidateStatus) Engaged() bool {
	return s == StatusHired || s == StatusContentReview
}

// Active funnels exclude terminal relationships.
func ActiveStatuses() []string {
	out := make([]string, 0, len(candidateStatuses))
	for _, s := range candidateStatuses {
		if !s.Terminal() {
			out = append(out, string(s))
		}
	}
	return out
}

type OfferStatus string

const (
	OfferPending  OfferStatus = "PENDING"
	OfferAccepted OfferStatus = "ACCEPTED"
)

type ContractKind string

const (
	KindNegotiated ContractKind = "NEGOTIATED"
	KindDirectHire ContractKind = "DIRECT_HIRE"
)

type ContractStatus string

const (
	ContractDraft     ContractStatus = "DRAFT"
	ContractActive    ContractStatus = "ACTIVE"
	ContractCompleted ContractStatus = "COMPLETED"
)

type EscrowType string

const EscrowDeposit EscrowType = "DEPOSIT"

type EscrowStatus string

const (
	EscrowPending  EscrowStatus = "PENDING"
	EscrowFunded   EscrowStatus = "FUNDED"
	EscrowReleased EscrowStatus = "RELEASED"
)

type DeliverableStatus string

const (
	DeliverablePending   DeliverableStatus = "PENDING"
	DeliverableSubmitted DeliverableStatus = "SUBMITTED"
	DeliverableApproved  DeliverableStatus = "APPROVED"
)

type InvitationAction string

const (
	ActionAccept  InvitationAction = "ACCEPT"
	ActionDecline InvitationAction = "DECLINE"
)

func ParseInvitationAction(raw string) (InvitationAction, bool) {
	switch a := InvitationAction(strings.ToUpper(strings.TrimSpace(raw))); a {
	case ActionAccept, ActionDecline:
		return a, true
	}
	return "", false
}

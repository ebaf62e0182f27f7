package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
)

var CollaborationAggregatePolicy = Policy{
	Name:        "Collab.CollaborationAggregate",
	OwnsTx:      true,
	AuditInTx:   true,
	ScopedReads: true,
	Notes:       "Owns candidate/offer/contract/escrow/deliverable consistency and the audit trail for every lifecycle write.",
}

// CollaborationAggregate is the only writer of candidate status.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeForbidden, CodeInvalidAmount,
// CodeAlreadyExists, CodeAlreadyFinalized, CodeNoPendingTransaction,
// CodeNoPendingDeliverable, CodeInvariantViolation, CodeConflict,
// CodeRetryable, CodePersistenceFailure.
type CollaborationAggregate interface {
	Aggregate

	Invite(ctx context.Context, in InviteInput) (InviteResult, error)
	RespondToInvitation(ctx context.Context, in RespondInput) (TransitionResult, error)
	RejectCandidate(ctx context.Context, in TransitionInput) (TransitionResult, error)
	UpdateStatus(ctx context.Context, in TransitionInput) (TransitionResult, error)

	UpsertOffer(ctx context.Context, in UpsertOfferInput) (UpsertOfferResult, error)
	FinalizeOffer(ctx context.Context, in FinalizeOfferInput) (ContractResult, error)
	DirectHire(ctx context.Context, in DirectHireInput) (ContractResult, error)

	FundEscrow(ctx context.Context, in EscrowInput) (EscrowResult, error)
	ReleaseEscrow(ctx context.Context, in EscrowInput) (EscrowResult, error)

	SubmitDeliverable(ctx context.Context, in SubmitDeliverableInput) (DeliverableResult, error)
	ApproveDeliverable(ctx context.Context, in ReviewDeliverableInput) (DeliverableResult, error)
	RequestRevision(ctx context.Context, in ReviewDeliverableInput) (DeliverableResult, error)
	MarkComplete(ctx context.Context, in TransitionInput) (TransitionResult, error)
}

// Parties names everyone a lifecycle write may need to notify.
type Parties struct {
	RelationshipID uuid.UUID  `json:"relationship_id"`
	CampaignID     uuid.UUID  `json:"campaign_id"`
	CampaignTitle  string     `json:"campaign_title"`
	BrandUserID    uuid.UUID  `json:"brand_user_id"`
	ManagerUserID  *uuid.UUID `json:"manager_user_id,omitempty"`
	CreatorID      uuid.UUID  `json:"creator_id"`
	CreatorUserID  uuid.UUID  `json:"creator_user_id"`
	CreatorName    string     `json:"creator_name"`
}

type InviteInput struct {
	Actor      collab.Actor
	CampaignID uuid.UUID
	CreatorID  uuid.UUID
}

type InviteResult struct {
	Parties Parties
	Status  collab.CandidateStatus
	At      time.Time
}

type RespondInput struct {
	Actor          collab.Actor
	RelationshipID uuid.UUID
	Action         collab.InvitationAction
}

// TransitionInput drives status-only writes. Status is ignored by
// RejectCandidate and MarkComplete.
type TransitionInput struct {
	Actor          collab.Actor
	RelationshipID uuid.UUID
	Status         collab.CandidateStatus
}

type TransitionResult struct {
	Parties        Parties
	PreviousStatus collab.CandidateStatus
	Status         collab.CandidateStatus
	ContractID     *uuid.UUID
}

type UpsertOfferInput struct {
	Actor          collab.Actor
	RelationshipID uuid.UUID
	Amount         float64
	Description    string
}

type UpsertOfferResult struct {
	Parties            Parties
	Offer              collab.Offer
	Created            bool
	RelationshipStatus collab.CandidateStatus
}

type FinalizeOfferInput struct {
	Actor          collab.Actor
	RelationshipID uuid.UUID
}

type DirectHireInput struct {
	Actor       collab.Actor
	CampaignID  uuid.UUID
	CreatorID   uuid.UUID
	Amount      float64
	Title       string
	Description string
	Terms       string
	DueDate     *time.Time
}

// ContractResult is returned by both origination paths.
type ContractResult struct {
	Parties             Parties
	Contract            collab.Contract
	Escrow              collab.EscrowTransaction
	Deliverables        []collab.Deliverable
	OfferID             *uuid.UUID
	RelationshipCreated bool
	// PreviousStatus is the relationship status before the move to HIRED.
	PreviousStatus      collab.CandidateStatus
	RelationshipStatus  collab.CandidateStatus
}

type EscrowInput struct {
	Actor      collab.Actor
	ContractID uuid.UUID
	GatewayRef string
}

type EscrowResult struct {
	Parties            Parties
	ContractID         uuid.UUID
	Transaction        collab.EscrowTransaction
	ContractStatus     collab.ContractStatus
	RelationshipStatus collab.CandidateStatus
	Totals             collab.EscrowTotals
	// AlreadyFunded is set when a concurrent or repeated fund found nothing
	// PENDING; nothing was written.
	AlreadyFunded bool
}

type SubmitDeliverableInput struct {
	Actor          collab.Actor
	RelationshipID uuid.UUID
	DeliverableID  *uuid.UUID
	URL            string
	Notes          string
}

type ReviewDeliverableInput struct {
	Actor          collab.Actor
	RelationshipID uuid.UUID
	DeliverableID  uuid.UUID
	Reason         string
}

type DeliverableResult struct {
	Parties            Parties
	ContractID         uuid.UUID
	Deliverable        collab.Deliverable
	RelationshipStatus collab.CandidateStatus
	Progress           int
}

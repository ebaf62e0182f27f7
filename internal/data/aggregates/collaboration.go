package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/repos"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/audit"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

const candidateTable = "candidate_relationship"

type CollaborationAggregateDeps struct {
	Base BaseDeps

	Campaigns    repos.CampaignRepo
	Creators     repos.CreatorProfileRepo
	Candidates   repos.CandidateRepo
	Offers       repos.OfferRepo
	Contracts    repos.ContractRepo
	Escrow       repos.EscrowRepo
	Deliverables repos.DeliverableRepo
	Audit        repos.AuditEntryRepo

	FeePolicy collab.FeePolicy
	Now       func() time.Time
}

type collaborationAggregate struct {
	deps    CollaborationAggregateDeps
	ledger  *OfferLedger
	money   *ContractEscrow
	tracker *DeliverableTracker
}

func NewCollaborationAggregate(deps CollaborationAggregateDeps) domainagg.CollaborationAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.FeePolicy == (collab.FeePolicy{}) {
		deps.FeePolicy = collab.DefaultFeePolicy()
	}
	cas := deps.Base.CASGuard
	return &collaborationAggregate{
		deps:    deps,
		ledger:  NewOfferLedger(deps.Offers, cas),
		money:   NewContractEscrow(deps.Contracts, deps.Escrow, cas, deps.FeePolicy),
		tracker: NewDeliverableTracker(deps.Deliverables, cas),
	}
}

func (a *collaborationAggregate) Policy() domainagg.Policy {
	return domainagg.CollaborationAggregatePolicy
}

func (a *collaborationAggregate) now() time.Time { return a.deps.Now().UTC() }

func (a *collaborationAggregate) configured() bool {
	d := a.deps
	return d.Campaigns != nil && d.Creators != nil && d.Candidates != nil && d.Offers != nil &&
		d.Contracts != nil && d.Escrow != nil && d.Deliverables != nil && d.Audit != nil
}

func (a *collaborationAggregate) precheck(op string, actor collab.Actor) error {
	if !a.configured() {
		return domainagg.NewError(domainagg.CodeInternal, op, "collaboration aggregate repos not configured", nil)
	}
	if !actor.Valid() {
		return domainagg.NewError(domainagg.CodeForbidden, op, "missing or unknown actor", nil)
	}
	return nil
}

// scope is a locked relationship with the rows that decide who may act on it.
type scope struct {
	rel      *collab.CandidateRelationship
	campaign *collab.Campaign
	creator  *collab.CreatorProfile
}

func (s scope) parties() domainagg.Parties {
	p := domainagg.Parties{}
	if s.rel != nil {
		p.RelationshipID = s.rel.ID
		p.CampaignID = s.rel.CampaignID
		p.CreatorID = s.rel.CreatorID
	}
	if s.campaign != nil {
		p.CampaignTitle = s.campaign.Title
		p.BrandUserID = s.campaign.BrandUserID
		p.ManagerUserID = s.campaign.ManagerUserID
	}
	if s.creator != nil {
		p.CreatorUserID = s.creator.UserID
		p.CreatorName = s.creator.DisplayName
	}
	return p
}

func notFoundAs(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(what + " not found")
	}
	return err
}

func (a *collaborationAggregate) loadParties(dbc dbctx.Context, campaignID, creatorID uuid.UUID) (*collab.Campaign, *collab.CreatorProfile, error) {
	campaign, err := a.deps.Campaigns.GetByID(dbc, campaignID)
	if err != nil {
		return nil, nil, notFoundAs(err, "campaign")
	}
	creator, err := a.deps.Creators.GetByID(dbc, creatorID)
	if err != nil {
		return nil, nil, notFoundAs(err, "creator")
	}
	return campaign, creator, nil
}

// lock takes the relationship row lock that serializes every lifecycle write
// on one relationship.
func (a *collaborationAggregate) lock(dbc dbctx.Context, relationshipID uuid.UUID) (scope, error) {
	if relationshipID == uuid.Nil {
		return scope{}, ValidationError("missing relationship id")
	}
	rel, err := a.deps.Candidates.LockByID(dbc, relationshipID)
	if err != nil {
		return scope{}, notFoundAs(err, "relationship")
	}
	campaign, creator, err := a.loadParties(dbc, rel.CampaignID, rel.CreatorID)
	if err != nil {
		return scope{}, err
	}
	return scope{rel: rel, campaign: campaign, creator: creator}, nil
}

func requireBrandSide(actor collab.Actor, campaign *collab.Campaign) error {
	if !actor.IsBrandSide(campaign) {
		return ForbiddenError("actor does not administer this campaign")
	}
	return nil
}

func requireCreatorSide(actor collab.Actor, creator *collab.CreatorProfile) error {
	if !actor.IsCreatorSide(creator) {
		return ForbiddenError("actor does not own this creator profile")
	}
	return nil
}

// move is the only place candidate status is written. The update is
// conditioned on the status still being one of from; an empty from makes it
// an unconditional override.
func (a *collaborationAggregate) move(dbc dbctx.Context, rel *collab.CandidateRelationship, to collab.CandidateStatus, at time.Time, from ...collab.CandidateStatus) error {
	updates := map[string]any{"status": to, "updated_at": at}
	if len(from) == 0 {
		if err := a.deps.Candidates.UpdateFields(dbc, rel.ID, updates); err != nil {
			return err
		}
		rel.Status = to
		rel.UpdatedAt = at
		return nil
	}
	ok, err := a.deps.Base.CASGuard.Apply(dbc, Transition{
		Table: candidateTable,
		ID:    rel.ID,
		From:  StatusSet(from...),
		Set:   updates,
	})
	if err != nil {
		return err
	}
	if !ok {
		return InvariantError(fmt.Sprintf("relationship cannot move from %s to %s", rel.Status, to))
	}
	rel.Status = to
	rel.UpdatedAt = at
	return nil
}

func (a *collaborationAggregate) audit(dbc dbctx.Context, actor collab.Actor, action, entityType string, entityID uuid.UUID, details map[string]any) error {
	return a.deps.Audit.Append(dbc, actor, action, entityType, entityID, details)
}

func (a *collaborationAggregate) contractFor(dbc dbctx.Context, relationshipID uuid.UUID) (*collab.Contract, error) {
	contract, err := a.deps.Contracts.GetByRelationshipID(dbc, relationshipID)
	if err != nil {
		return nil, notFoundAs(err, "contract")
	}
	return contract, nil
}

func (a *collaborationAggregate) Invite(ctx context.Context, in domainagg.InviteInput) (domainagg.InviteResult, error) {
	const op = "Collab.Invite"
	var out domainagg.InviteResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	if in.CampaignID == uuid.Nil || in.CreatorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "campaign_id and creator_id are required", nil)
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		campaign, creator, err := a.loadParties(dbc, in.CampaignID, in.CreatorID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, campaign); err != nil {
			return err
		}
		if _, err := a.deps.Candidates.GetByPair(dbc, in.CampaignID, in.CreatorID); err == nil {
			return AlreadyExistsError("creator already invited to this campaign")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		rel := &collab.CandidateRelationship{
			ID:         uuid.New(),
			CampaignID: in.CampaignID,
			CreatorID:  in.CreatorID,
			Status:     collab.StatusContacted,
		}
		if _, err := a.deps.Candidates.Create(dbc, []*collab.CandidateRelationship{rel}); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionInvite, audit.EntityRelationship, rel.ID, map[string]any{
			"campaign_id": in.CampaignID.String(),
			"creator_id":  in.CreatorID.String(),
		}); err != nil {
			return err
		}
		out = domainagg.InviteResult{
			Parties: scope{rel: rel, campaign: campaign, creator: creator}.parties(),
			Status:  rel.Status,
			At:      at,
		}
		return nil
	})
	return out, domainagg.Recode(err, domainagg.CodeConflict, domainagg.CodeAlreadyExists, "creator already invited to this campaign")
}

func (a *collaborationAggregate) RespondToInvitation(ctx context.Context, in domainagg.RespondInput) (domainagg.TransitionResult, error) {
	const op = "Collab.RespondToInvitation"
	var out domainagg.TransitionResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	var (
		to     collab.CandidateStatus
		action string
	)
	switch in.Action {
	case collab.ActionAccept:
		to, action = collab.StatusInNegotiation, audit.ActionAcceptInvitation
	case collab.ActionDecline:
		to, action = collab.StatusRejected, audit.ActionDeclineInvitation
	default:
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown invitation action %q", in.Action), nil)
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireCreatorSide(in.Actor, s.creator); err != nil {
			return err
		}
		prev := s.rel.Status
		if !prev.Negotiable() {
			return InvariantError(fmt.Sprintf("cannot respond to an invitation in status %s", prev))
		}
		if err := a.move(dbc, s.rel, to, at, collab.StatusContacted, collab.StatusInNegotiation); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, action, audit.EntityRelationship, s.rel.ID, map[string]any{
			"from": string(prev),
			"to":   string(to),
		}); err != nil {
			return err
		}
		out = domainagg.TransitionResult{Parties: s.parties(), PreviousStatus: prev, Status: to}
		return nil
	})
	return out, err
}

func (a *collaborationAggregate) RejectCandidate(ctx context.Context, in domainagg.TransitionInput) (domainagg.TransitionResult, error) {
	const op = "Collab.RejectCandidate"
	var out domainagg.TransitionResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		prev := s.rel.Status
		if !prev.Negotiable() {
			return InvariantError(fmt.Sprintf("cannot reject a collaboration in status %s", prev))
		}
		if err := a.move(dbc, s.rel, collab.StatusRejected, at, collab.StatusContacted, collab.StatusInNegotiation); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionReject, audit.EntityRelationship, s.rel.ID, map[string]any{
			"from": string(prev),
		}); err != nil {
			return err
		}
		out = domainagg.TransitionResult{Parties: s.parties(), PreviousStatus: prev, Status: collab.StatusRejected}
		return nil
	})
	return out, err
}

// UpdateStatus is the administrative override. It checks only that the
// target status is known.
func (a *collaborationAggregate) UpdateStatus(ctx context.Context, in domainagg.TransitionInput) (domainagg.TransitionResult, error) {
	const op = "Collab.UpdateStatus"
	var out domainagg.TransitionResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	to, ok := collab.ParseCandidateStatus(string(in.Status))
	if !ok {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown status %q", in.Status), nil)
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		prev := s.rel.Status
		if err := a.move(dbc, s.rel, to, at); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionStatusOverride, audit.EntityRelationship, s.rel.ID, map[string]any{
			"from": string(prev),
			"to":   string(to),
		}); err != nil {
			return err
		}
		out = domainagg.TransitionResult{Parties: s.parties(), PreviousStatus: prev, Status: to}
		return nil
	})
	return out, err
}

func (a *collaborationAggregate) UpsertOffer(ctx context.Context, in domainagg.UpsertOfferInput) (domainagg.UpsertOfferResult, error) {
	const op = "Collab.UpsertOffer"
	var out domainagg.UpsertOfferResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		current, err := a.ledger.Current(dbc, s.rel.ID)
		if err != nil {
			return err
		}
		if current != nil && current.Status == collab.OfferAccepted {
			return AlreadyFinalizedError("accepted offers are immutable")
		}
		if !s.rel.Status.Negotiable() {
			return InvariantError(fmt.Sprintf("cannot negotiate a collaboration in status %s", s.rel.Status))
		}

		offer, created, err := a.ledger.Upsert(dbc, s.rel.ID, in.Amount, in.Description, at)
		if err != nil {
			return err
		}
		if err := a.move(dbc, s.rel, collab.StatusInNegotiation, at, collab.StatusContacted, collab.StatusInNegotiation); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionOfferUpsert, audit.EntityOffer, offer.ID, map[string]any{
			"amount":  offer.Amount,
			"created": created,
			"version": len(offer.History),
		}); err != nil {
			return err
		}
		out = domainagg.UpsertOfferResult{
			Parties:            s.parties(),
			Offer:              *offer,
			Created:            created,
			RelationshipStatus: s.rel.Status,
		}
		return nil
	})
	return out, err
}

func (a *collaborationAggregate) FinalizeOffer(ctx context.Context, in domainagg.FinalizeOfferInput) (domainagg.ContractResult, error) {
	const op = "Collab.FinalizeOffer"
	var out domainagg.ContractResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		offer, err := a.ledger.Accept(dbc, s.rel.ID, at)
		if err != nil {
			return err
		}
		if s.rel.Status.Terminal() {
			return InvariantError(fmt.Sprintf("cannot finalize an offer in status %s", s.rel.Status))
		}
		// A direct hire may already have contracted this pair.
		if _, err := a.deps.Contracts.GetByRelationshipID(dbc, s.rel.ID); err == nil {
			return AlreadyExistsError("collaboration already has a contract")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		orig, err := a.money.Originate(dbc, OriginateInput{
			Kind:           collab.KindNegotiated,
			RelationshipID: s.rel.ID,
			Amount:         offer.Amount,
			Terms:          offer.DeliverablesDescription,
			StartDate:      at,
		})
		if err != nil {
			return err
		}
		deliverables, err := a.tracker.Seed(dbc, orig.Contract.ID, []DeliverableSeed{SeedFromDescription(offer.DeliverablesDescription)})
		if err != nil {
			return err
		}
		prev := s.rel.Status
		// HIRED is set here, before escrow is funded; FundEscrow keeps it.
		if err := a.move(dbc, s.rel, collab.StatusHired, at, collab.StatusContacted, collab.StatusInNegotiation, collab.StatusHired); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionOfferFinalize, audit.EntityContract, orig.Contract.ID, map[string]any{
			"offer_id":     offer.ID.String(),
			"total_amount": orig.Contract.TotalAmount,
			"platform_fee": orig.Contract.PlatformFee,
		}); err != nil {
			return err
		}
		offerID := offer.ID
		out = domainagg.ContractResult{
			Parties:            s.parties(),
			Contract:           orig.Contract,
			Escrow:             orig.Escrow,
			Deliverables:       deliverables,
			OfferID:            &offerID,
			PreviousStatus:     prev,
			RelationshipStatus: s.rel.Status,
		}
		return nil
	})
	return out, domainagg.Recode(err, domainagg.CodeConflict, domainagg.CodeAlreadyFinalized, "offer already finalized")
}

func (a *collaborationAggregate) DirectHire(ctx context.Context, in domainagg.DirectHireInput) (domainagg.ContractResult, error) {
	const op = "Collab.DirectHire"
	var out domainagg.ContractResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	if in.CampaignID == uuid.Nil || in.CreatorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "campaign_id and creator_id are required", nil)
	}
	if err := collab.ValidateAmount(in.Amount); err != nil {
		return out, MapError(op, err)
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		campaign, creator, err := a.loadParties(dbc, in.CampaignID, in.CreatorID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, campaign); err != nil {
			return err
		}

		created := false
		rel, err := a.deps.Candidates.GetByPair(dbc, in.CampaignID, in.CreatorID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rel = &collab.CandidateRelationship{
				ID:         uuid.New(),
				CampaignID: in.CampaignID,
				CreatorID:  in.CreatorID,
				Status:     collab.StatusContacted,
			}
			if _, err := a.deps.Candidates.Create(dbc, []*collab.CandidateRelationship{rel}); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			if rel, err = a.deps.Candidates.LockByID(dbc, rel.ID); err != nil {
				return err
			}
			if rel.Status.Terminal() {
				return InvariantError(fmt.Sprintf("cannot hire into a collaboration in status %s", rel.Status))
			}
			if _, err := a.deps.Contracts.GetByRelationshipID(dbc, rel.ID); err == nil {
				return AlreadyExistsError("collaboration already has a contract")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		orig, err := a.money.Originate(dbc, OriginateInput{
			Kind:           collab.KindDirectHire,
			RelationshipID: rel.ID,
			Amount:         in.Amount,
			Terms:          in.Terms,
			StartDate:      at,
		})
		if err != nil {
			return err
		}
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = SeedFromDescription(in.Description).Title
		}
		deliverables, err := a.tracker.Seed(dbc, orig.Contract.ID, []DeliverableSeed{{
			Title:       title,
			Description: in.Description,
			DueDate:     in.DueDate,
		}})
		if err != nil {
			return err
		}
		prev := rel.Status
		if err := a.move(dbc, rel, collab.StatusHired, at, collab.StatusContacted, collab.StatusInNegotiation, collab.StatusHired); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionDirectHire, audit.EntityContract, orig.Contract.ID, map[string]any{
			"relationship_id": rel.ID.String(),
			"from":            string(prev),
			"total_amount":    orig.Contract.TotalAmount,
			"escrow_amount":   orig.Escrow.Amount,
		}); err != nil {
			return err
		}
		out = domainagg.ContractResult{
			Parties:             scope{rel: rel, campaign: campaign, creator: creator}.parties(),
			Contract:            orig.Contract,
			Escrow:              orig.Escrow,
			Deliverables:        deliverables,
			RelationshipCreated: created,
			PreviousStatus:      prev,
			RelationshipStatus:  rel.Status,
		}
		return nil
	})
	return out, domainagg.Recode(err, domainagg.CodeConflict, domainagg.CodeAlreadyExists, "collaboration already has a contract")
}

// contractScope resolves a contract and locks its relationship.
func (a *collaborationAggregate) contractScope(dbc dbctx.Context, contractID uuid.UUID) (*collab.Contract, scope, error) {
	if contractID == uuid.Nil {
		return nil, scope{}, ValidationError("missing contract id")
	}
	contract, err := a.money.Contract(dbc, contractID)
	if err != nil {
		return nil, scope{}, notFoundAs(err, "contract")
	}
	s, err := a.lock(dbc, contract.RelationshipID)
	if err != nil {
		return nil, scope{}, err
	}
	return contract, s, nil
}

func (a *collaborationAggregate) FundEscrow(ctx context.Context, in domainagg.EscrowInput) (domainagg.EscrowResult, error) {
	const op = "Collab.FundEscrow"
	var out domainagg.EscrowResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		contract, s, err := a.contractScope(dbc, in.ContractID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		next, err := a.money.NextPending(dbc, contract.ID)
		if err != nil {
			return err
		}
		if !next.AlreadyFunded && s.rel.Status.Terminal() {
			return InvariantError(fmt.Sprintf("cannot fund escrow for a collaboration in status %s", s.rel.Status))
		}

		outcome := next
		if !next.AlreadyFunded {
			if outcome, err = a.money.Fund(dbc, contract.ID, in.GatewayRef, at); err != nil {
				return err
			}
		}
		if outcome.AlreadyFunded {
			totals, err := a.money.Totals(dbc, contract.ID)
			if err != nil {
				return err
			}
			out = domainagg.EscrowResult{
				Parties:            s.parties(),
				ContractID:         contract.ID,
				Transaction:        outcome.Transaction,
				ContractStatus:     contract.Status,
				RelationshipStatus: s.rel.Status,
				Totals:             totals,
				AlreadyFunded:      true,
			}
			return nil
		}

		if contract.Status == collab.ContractDraft {
			contract.Status = collab.ContractActive
		}
		if s.rel.Status.PreHire() {
			if err := a.move(dbc, s.rel, collab.StatusHired, at, collab.StatusContacted, collab.StatusInNegotiation); err != nil {
				return err
			}
		}
		if err := a.audit(dbc, in.Actor, audit.ActionEscrowFund, audit.EntityEscrow, outcome.Transaction.ID, map[string]any{
			"contract_id": contract.ID.String(),
			"amount":      outcome.Transaction.Amount,
		}); err != nil {
			return err
		}
		totals, err := a.money.Totals(dbc, contract.ID)
		if err != nil {
			return err
		}
		out = domainagg.EscrowResult{
			Parties:            s.parties(),
			ContractID:         contract.ID,
			Transaction:        outcome.Transaction,
			ContractStatus:     contract.Status,
			RelationshipStatus: s.rel.Status,
			Totals:             totals,
		}
		return nil
	})
	return out, err
}

func (a *collaborationAggregate) ReleaseEscrow(ctx context.Context, in domainagg.EscrowInput) (domainagg.EscrowResult, error) {
	const op = "Collab.ReleaseEscrow"
	var out domainagg.EscrowResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	if !in.Actor.IsAdmin() {
		return out, domainagg.NewError(domainagg.CodeForbidden, op, "only admins release escrow", nil)
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		contract, s, err := a.contractScope(dbc, in.ContractID)
		if err != nil {
			return err
		}
		tx, err := a.money.Release(dbc, contract.ID, in.GatewayRef, at)
		if err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionEscrowRelease, audit.EntityEscrow, tx.ID, map[string]any{
			"contract_id": contract.ID.String(),
			"amount":      tx.Amount,
		}); err != nil {
			return err
		}
		totals, err := a.money.Totals(dbc, contract.ID)
		if err != nil {
			return err
		}
		out = domainagg.EscrowResult{
			Parties:            s.parties(),
			ContractID:         contract.ID,
			Transaction:        tx,
			ContractStatus:     contract.Status,
			RelationshipStatus: s.rel.Status,
			Totals:             totals,
		}
		return nil
	})
	return out, err
}

func (a *collaborationAggregate) SubmitDeliverable(ctx context.Context, in domainagg.SubmitDeliverableInput) (domainagg.DeliverableResult, error) {
	const op = "Collab.SubmitDeliverable"
	var out domainagg.DeliverableResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	if strings.TrimSpace(in.URL) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "submission url is required", nil)
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireCreatorSide(in.Actor, s.creator); err != nil {
			return err
		}
		contract, err := a.contractFor(dbc, s.rel.ID)
		if err != nil {
			return err
		}
		if !s.rel.Status.Engaged() {
			return InvariantError(fmt.Sprintf("cannot submit content for a collaboration in status %s", s.rel.Status))
		}
		d, err := a.tracker.Submit(dbc, contract.ID, in.DeliverableID, in.URL, in.Notes, at)
		if err != nil {
			return err
		}
		if s.rel.Status != collab.StatusContentReview {
			if err := a.move(dbc, s.rel, collab.StatusContentReview, at, collab.StatusHired); err != nil {
				return err
			}
		}
		if err := a.audit(dbc, in.Actor, audit.ActionDeliverableSubmit, audit.EntityDeliverable, d.ID, map[string]any{
			"contract_id":    contract.ID.String(),
			"submission_url": d.SubmissionURL,
		}); err != nil {
			return err
		}
		progress, _, err := a.tracker.Progress(dbc, contract.ID)
		if err != nil {
			return err
		}
		out = domainagg.DeliverableResult{
			Parties:            s.parties(),
			ContractID:         contract.ID,
			Deliverable:        d,
			RelationshipStatus: s.rel.Status,
			Progress:           progress,
		}
		return nil
	})
	return out, err
}

type reviewFn func(dbc dbctx.Context, contractID, deliverableID uuid.UUID, at time.Time) (collab.Deliverable, error)

func (a *collaborationAggregate) review(ctx context.Context, op, action string, in domainagg.ReviewDeliverableInput, fn reviewFn) (domainagg.DeliverableResult, error) {
	var out domainagg.DeliverableResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		contract, err := a.contractFor(dbc, s.rel.ID)
		if err != nil {
			return err
		}
		if !s.rel.Status.Engaged() {
			return InvariantError(fmt.Sprintf("cannot review content for a collaboration in status %s", s.rel.Status))
		}
		d, err := fn(dbc, contract.ID, in.DeliverableID, at)
		if err != nil {
			return err
		}
		details := map[string]any{"contract_id": contract.ID.String()}
		if reason := strings.TrimSpace(in.Reason); reason != "" {
			details["reason"] = reason
		}
		if err := a.audit(dbc, in.Actor, action, audit.EntityDeliverable, d.ID, details); err != nil {
			return err
		}
		progress, _, err := a.tracker.Progress(dbc, contract.ID)
		if err != nil {
			return err
		}
		out = domainagg.DeliverableResult{
			Parties:            s.parties(),
			ContractID:         contract.ID,
			Deliverable:        d,
			RelationshipStatus: s.rel.Status,
			Progress:           progress,
		}
		return nil
	})
	return out, err
}

func (a *collaborationAggregate) ApproveDeliverable(ctx context.Context, in domainagg.ReviewDeliverableInput) (domainagg.DeliverableResult, error) {
	return a.review(ctx, "Collab.ApproveDeliverable", audit.ActionDeliverableApprove, in, a.tracker.Approve)
}

func (a *collaborationAggregate) RequestRevision(ctx context.Context, in domainagg.ReviewDeliverableInput) (domainagg.DeliverableResult, error) {
	return a.review(ctx, "Collab.RequestRevision", audit.ActionDeliverableRevise, in, a.tracker.RequestRevision)
}

func (a *collaborationAggregate) MarkComplete(ctx context.Context, in domainagg.TransitionInput) (domainagg.TransitionResult, error) {
	const op = "Collab.MarkComplete"
	var out domainagg.TransitionResult
	if err := a.precheck(op, in.Actor); err != nil {
		return out, err
	}
	at := a.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lock(dbc, in.RelationshipID)
		if err != nil {
			return err
		}
		if err := requireBrandSide(in.Actor, s.campaign); err != nil {
			return err
		}
		contract, err := a.contractFor(dbc, s.rel.ID)
		if err != nil {
			return err
		}
		if !s.rel.Status.Engaged() {
			return InvariantError(fmt.Sprintf("cannot complete a collaboration in status %s", s.rel.Status))
		}
		ds, err := a.tracker.List(dbc, contract.ID)
		if err != nil {
			return err
		}
		if !collab.AllApproved(ds) {
			return ValidationError("every deliverable must be approved before completion")
		}
		if err := a.money.Complete(dbc, contract, at); err != nil {
			return err
		}
		prev := s.rel.Status
		if err := a.move(dbc, s.rel, collab.StatusCompleted, at, collab.StatusHired, collab.StatusContentReview); err != nil {
			return err
		}
		if err := a.audit(dbc, in.Actor, audit.ActionComplete, audit.EntityRelationship, s.rel.ID, map[string]any{
			"contract_id": contract.ID.String(),
			"from":        string(prev),
		}); err != nil {
			return err
		}
		contractID := contract.ID
		out = domainagg.TransitionResult{
			Parties:        s.parties(),
			PreviousStatus: prev,
			Status:         collab.StatusCompleted,
			ContractID:     &contractID,
		}
		return nil
	})
	return out, err
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/aggregates"
	types "github.com/yungbote/collab-backend/internal/domain"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

// CollaborationView is the full read model of one relationship.
type CollaborationView struct {
	Relationship    types.CandidateRelationship `json:"relationship"`
	Campaign        *types.Campaign             `json:"campaign,omitempty"`
	Creator         *types.CreatorProfile       `json:"creator,omitempty"`
	Offer           *types.Offer                `json:"offer,omitempty"`
	Contract        *types.Contract             `json:"contract,omitempty"`
	Escrow          []types.EscrowTransaction   `json:"escrow"`
	EscrowTotals    collab.EscrowTotals         `json:"escrow_totals"`
	Deliverables    []types.Deliverable         `json:"deliverables"`
	Progress        int                         `json:"progress"`
	NextDeliverable *types.Deliverable          `json:"next_deliverable,omitempty"`
	ChannelID       *uuid.UUID                  `json:"channel_id,omitempty"`
}

// CollaborationSummary is one row of a campaign or creator listing.
type CollaborationSummary struct {
	RelationshipID uuid.UUID              `json:"relationship_id"`
	CampaignID     uuid.UUID              `json:"campaign_id"`
	CampaignTitle  string                 `json:"campaign_title"`
	CreatorID      uuid.UUID              `json:"creator_id"`
	CreatorName    string                 `json:"creator_name"`
	Status         collab.CandidateStatus `json:"status"`
	ContractID     *uuid.UUID             `json:"contract_id,omitempty"`
	ContractStatus collab.ContractStatus  `json:"contract_status,omitempty"`
	Progress       int                    `json:"progress"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func (s *lifecycleService) GetCollaboration(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (view *CollaborationView, err error) {
	const op = "Lifecycle.GetCollaboration"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("relationship_id", relationshipID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return nil, err
	}
	if relationshipID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing relationship id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}

	rel, err := s.candidates.GetByID(dbc, relationshipID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	campaign, err := s.campaigns.GetByID(dbc, rel.CampaignID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	creator, err := s.creators.GetByID(dbc, rel.CreatorID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !actor.IsBrandSide(campaign) && !actor.IsCreatorSide(creator) {
		return nil, domainagg.NewError(domainagg.CodeForbidden, op, "not a party to this collaboration", nil)
	}

	view = &CollaborationView{
		Relationship: *rel,
		Campaign:     campaign,
		Creator:      creator,
		Escrow:       []types.EscrowTransaction{},
		Deliverables: []types.Deliverable{},
	}

	offer, err := s.offers.GetByRelationshipID(dbc, rel.ID)
	switch {
	case err == nil:
		view.Offer = offer
	case !isNotFound(err):
		return nil, aggregates.MapError(op, err)
	}

	contract, err := s.contracts.GetByRelationshipID(dbc, rel.ID)
	switch {
	case err == nil:
		view.Contract = contract
		txs, err := s.escrow.ListByContract(dbc, contract.ID)
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		ds, err := s.deliverables.ListByContract(dbc, contract.ID)
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		view.Escrow = derefAll(txs)
		view.EscrowTotals = collab.Totals(view.Escrow)
		view.Deliverables = derefAll(ds)
		view.Progress = collab.Progress(view.Deliverables)
		view.NextDeliverable = collab.NextDeliverable(view.Deliverables)
	case !isNotFound(err):
		return nil, aggregates.MapError(op, err)
	}

	if s.channels != nil {
		ch, err := s.channels.GetByRelationshipID(dbc, rel.ID)
		switch {
		case err == nil:
			id := ch.ID
			view.ChannelID = &id
		case !isNotFound(err):
			return nil, aggregates.MapError(op, err)
		}
	}
	return view, nil
}

func (s *lifecycleService) ListForCampaign(ctx context.Context, actor collab.Actor, campaignID uuid.UUID, statuses []string) (out []CollaborationSummary, err error) {
	const op = "Lifecycle.ListForCampaign"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("campaign_id", campaignID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return nil, err
	}
	statuses, err = normalizeStatuses(op, statuses)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	campaign, err := s.campaigns.GetByID(dbc, campaignID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !actor.IsBrandSide(campaign) {
		return nil, domainagg.NewError(domainagg.CodeForbidden, op, "not on the brand side of this campaign", nil)
	}
	rels, err := s.candidates.ListByCampaign(dbc, campaignID, statuses)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	for _, rel := range rels {
		rel.Campaign = campaign
	}
	return s.summarize(dbc, op, rels)
}

func (s *lifecycleService) ListForCreator(ctx context.Context, actor collab.Actor, creatorID uuid.UUID, statuses []string) (out []CollaborationSummary, err error) {
	const op = "Lifecycle.ListForCreator"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("creator_id", creatorID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return nil, err
	}
	statuses, err = normalizeStatuses(op, statuses)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	creator, err := s.creators.GetByID(dbc, creatorID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !actor.IsCreatorSide(creator) && !actor.IsAdmin() {
		return nil, domainagg.NewError(domainagg.CodeForbidden, op, "not this creator", nil)
	}
	rels, err := s.candidates.ListByCreator(dbc, creatorID, statuses)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	for _, rel := range rels {
		rel.Creator = creator
	}
	return s.summarize(dbc, op, rels)
}

func normalizeStatuses(op string, raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		// "active" expands to every non-terminal status.
		if strings.EqualFold(strings.TrimSpace(r), "active") {
			out = append(out, collab.ActiveStatuses()...)
			continue
		}
		st, ok := collab.ParseCandidateStatus(r)
		if !ok {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, "unknown status filter "+r, nil)
		}
		out = append(out, string(st))
	}
	return out, nil
}

func (s *lifecycleService) summarize(dbc dbctx.Context, op string, rels []*types.CandidateRelationship) ([]CollaborationSummary, error) {
	out := make([]CollaborationSummary, 0, len(rels))
	if len(rels) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ID)
	}
	contracts, err := s.contracts.ListByRelationshipIDs(dbc, ids)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	byRel := make(map[uuid.UUID]*types.Contract, len(contracts))
	for _, c := range contracts {
		byRel[c.RelationshipID] = c
	}

	for _, rel := range rels {
		row := CollaborationSummary{
			RelationshipID: rel.ID,
			CampaignID:     rel.CampaignID,
			CreatorID:      rel.CreatorID,
			Status:         rel.Status,
			UpdatedAt:      rel.UpdatedAt,
		}
		if rel.Campaign != nil {
			row.CampaignTitle = rel.Campaign.Title
		}
		if rel.Creator != nil {
			row.CreatorName = rel.Creator.DisplayName
		}
		if c, ok := byRel[rel.ID]; ok {
			id := c.ID
			row.ContractID = &id
			row.ContractStatus = c.Status
			row.Progress = collab.Progress(c.Deliverables)
		}
		out = append(out, row)
	}
	return out, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/repos"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/domain/notify"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/ctxutil"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

const (
	defaultSideEffectTimeout = 5 * time.Second
	maxConcurrentSideEffects = 4
)

// LifecycleService is the entry point for every collaboration action. It
// checks the caller and the inputs, delegates the ledger writes to the
// collaboration aggregate, then fans out notifications and channel work
// after commit. Side-effect failures are logged and never fail the call.
type LifecycleService interface {
	Invite(ctx context.Context, actor collab.Actor, campaignID, creatorID uuid.UUID) (domainagg.InviteResult, error)
	RespondToInvitation(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID, action collab.InvitationAction) (domainagg.TransitionResult, error)
	RejectCandidate(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (domainagg.TransitionResult, error)
	UpdateStatus(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID, status collab.CandidateStatus) (domainagg.TransitionResult, error)

	CreateOrUpdateOffer(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID, amount float64, description string) (domainagg.UpsertOfferResult, error)
	FinalizeOffer(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (domainagg.ContractResult, error)
	DirectHire(ctx context.Context, actor collab.Actor, in DirectHireRequest) (domainagg.ContractResult, error)

	FundEscrow(ctx context.Context, actor collab.Actor, contractID uuid.UUID, gatewayRef string) (domainagg.EscrowResult, error)
	ReleaseEscrow(ctx context.Context, actor collab.Actor, contractID uuid.UUID, gatewayRef string) (domainagg.EscrowResult, error)

	SubmitDeliverable(ctx context.Context, actor collab.Actor, in SubmitDeliverableRequest) (domainagg.DeliverableResult, error)
	ApproveDeliverable(ctx context.Context, actor collab.Actor, relationshipID, deliverableID uuid.UUID) (domainagg.DeliverableResult, error)
	RequestRevision(ctx context.Context, actor collab.Actor, relationshipID, deliverableID uuid.UUID, reason string) (domainagg.DeliverableResult, error)
	MarkComplete(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (domainagg.TransitionResult, error)

	GetCollaboration(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (*CollaborationView, error)
	ListForCampaign(ctx context.Context, actor collab.Actor, campaignID uuid.UUID, statuses []string) ([]CollaborationSummary, error)
	ListForCreator(ctx context.Context, actor collab.Actor, creatorID uuid.UUID, statuses []string) ([]CollaborationSummary, error)
}

type DirectHireRequest struct {
	CampaignID  uuid.UUID
	CreatorID   uuid.UUID
	Amount      float64
	Title       string
	Description string
	Terms       string
	DueDate     *time.Time
}

type SubmitDeliverableRequest struct {
	RelationshipID uuid.UUID
	DeliverableID  *uuid.UUID
	URL            string
	Notes          string
}

type LifecycleDeps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Aggregate domainagg.CollaborationAggregate

	Campaigns    repos.CampaignRepo
	Creators     repos.CreatorProfileRepo
	Candidates   repos.CandidateRepo
	Offers       repos.OfferRepo
	Contracts    repos.ContractRepo
	Escrow       repos.EscrowRepo
	Deliverables repos.DeliverableRepo
	Channels     repos.ChannelRepo

	Notifier      Notifier
	Conversations ConversationService
	Metrics       *observability.Metrics

	SideEffectTimeout time.Duration
}

type lifecycleService struct {
	db  *gorm.DB
	log *logger.Logger
	agg domainagg.CollaborationAggregate

	campaigns    repos.CampaignRepo
	creators     repos.CreatorProfileRepo
	candidates   repos.CandidateRepo
	offers       repos.OfferRepo
	contracts    repos.ContractRepo
	escrow       repos.EscrowRepo
	deliverables repos.DeliverableRepo
	channels     repos.ChannelRepo

	notifier      Notifier
	conversations ConversationService
	metrics       *observability.Metrics

	effectTimeout time.Duration
}

func NewLifecycleService(deps LifecycleDeps) LifecycleService {
	timeout := deps.SideEffectTimeout
	if timeout <= 0 {
		timeout = defaultSideEffectTimeout
	}
	log := deps.Log.With("service", "LifecycleService")
	if deps.Aggregate != nil {
		if p := deps.Aggregate.Policy(); !p.SafeForPostCommitEffects() {
			log.Warn("aggregate does not commit its own writes; side effects may see rolled-back state", "aggregate", p.Name)
		}
	}
	return &lifecycleService{
		db:            deps.DB,
		log:           log,
		agg:           deps.Aggregate,
		campaigns:     deps.Campaigns,
		creators:      deps.Creators,
		candidates:    deps.Candidates,
		offers:        deps.Offers,
		contracts:     deps.Contracts,
		escrow:        deps.Escrow,
		deliverables:  deps.Deliverables,
		channels:      deps.Channels,
		notifier:      deps.Notifier,
		conversations: deps.Conversations,
		metrics:       deps.Metrics,
		effectTimeout: timeout,
	}
}

func requireActor(op string, actor collab.Actor) error {
	if !actor.Valid() {
		return domainagg.NewError(domainagg.CodeForbidden, op, "missing or unknown actor", nil)
	}
	return nil
}

func requireAmount(op string, amount float64) error {
	if err := collab.ValidateAmount(amount); err != nil {
		return domainagg.NewError(domainagg.CodeInvalidAmount, op, err.Error(), err)
	}
	return nil
}

func relationshipLink(id uuid.UUID) string { return "/collaborations/" + id.String() }

func (s *lifecycleService) transitioned(from, to collab.CandidateStatus) {
	if from == to {
		return
	}
	if from == "" {
		from = "NONE"
	}
	s.metrics.IncTransition(string(from), string(to))
}

// ----- side effects -----

type sideEffect struct {
	name string
	run  func(ctx context.Context) error
}

// runSideEffects runs after commit on a context detached from the caller's
// cancellation and bounded by the side-effect timeout.
func (s *lifecycleService) runSideEffects(ctx context.Context, op string, effects ...sideEffect) {
	if len(effects) == 0 {
		return
	}
	ectx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.effectTimeout)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(maxConcurrentSideEffects)
	for _, e := range effects {
		e := e
		g.Go(func() error {
			start := time.Now()
			err := e.run(ectx)
			s.metrics.ObserveSideEffect(e.name, err, time.Since(start))
			if err != nil {
				fields := append([]any{"op", op, "effect", e.name, "error", err}, ctxutil.LogFields(ctx)...)
				s.log.Warn("side effect failed", fields...)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *lifecycleService) notifyEffect(name string, in NotificationInput) sideEffect {
	return sideEffect{name: name, run: func(ctx context.Context) error {
		if s.notifier == nil || in.RecipientID == uuid.Nil {
			return nil
		}
		_, err := s.notifier.Notify(ctx, in)
		return err
	}}
}

// channelEffect makes sure the brand and creator share a channel. The seed
// message is posted only by the call that created the channel.
func (s *lifecycleService) channelEffect(p domainagg.Parties, seed string) sideEffect {
	return sideEffect{name: "channel", run: func(ctx context.Context) error {
		if s.conversations == nil {
			return nil
		}
		ch, created, err := s.conversations.GetOrCreateChannel(ctx, p.RelationshipID, []uuid.UUID{p.BrandUserID, p.CreatorUserID})
		if err != nil {
			return err
		}
		if !created || seed == "" {
			return nil
		}
		_, err = s.conversations.PostMessage(ctx, ch.ID, p.CreatorUserID, seed)
		return err
	}}
}

// brandRecipients is the brand user plus the campaign manager when one is
// assigned and distinct.
func brandRecipients(p domainagg.Parties) []uuid.UUID {
	out := []uuid.UUID{p.BrandUserID}
	if p.ManagerUserID != nil && *p.ManagerUserID != uuid.Nil && *p.ManagerUserID != p.BrandUserID {
		out = append(out, *p.ManagerUserID)
	}
	return out
}

// ----- invitation -----

func (s *lifecycleService) Invite(ctx context.Context, actor collab.Actor, campaignID, creatorID uuid.UUID) (res domainagg.InviteResult, err error) {
	const op = "Lifecycle.Invite"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("campaign_id", campaignID.String()),
		attribute.String("creator_id", creatorID.String()),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.Invite(ctx, domainagg.InviteInput{Actor: actor, CampaignID: campaignID, CreatorID: creatorID})
	if err != nil {
		return res, err
	}
	s.transitioned("", res.Status)
	return res, nil
}

func (s *lifecycleService) RespondToInvitation(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID, action collab.InvitationAction) (res domainagg.TransitionResult, err error) {
	const op = "Lifecycle.RespondToInvitation"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("relationship_id", relationshipID.String()),
		attribute.String("action", string(action)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.RespondToInvitation(ctx, domainagg.RespondInput{Actor: actor, RelationshipID: relationshipID, Action: action})
	if err != nil {
		return res, err
	}
	s.transitioned(res.PreviousStatus, res.Status)

	p := res.Parties
	link := relationshipLink(p.RelationshipID)
	switch action {
	case collab.ActionAccept:
		s.runSideEffects(ctx, op,
			s.channelEffect(p, fmt.Sprintf("Hi! I've accepted your invitation to collaborate on %s.", p.CampaignTitle)),
			s.notifyEffect("notify_brand", NotificationInput{
				RecipientID: p.BrandUserID,
				Title:       "Invitation accepted",
				Message:     fmt.Sprintf("%s accepted your invitation to %s. Fund escrow to proceed.", p.CreatorName, p.CampaignTitle),
				Category:    notify.CategoryInvitation,
				Link:        link,
			}),
		)
	case collab.ActionDecline:
		s.runSideEffects(ctx, op, s.notifyEffect("notify_brand", NotificationInput{
			RecipientID: p.BrandUserID,
			Title:       "Invitation declined",
			Message:     fmt.Sprintf("%s declined your invitation to %s.", p.CreatorName, p.CampaignTitle),
			Category:    notify.CategoryInvitation,
			Link:        link,
		}))
	}
	return res, nil
}

func (s *lifecycleService) RejectCandidate(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (res domainagg.TransitionResult, err error) {
	const op = "Lifecycle.RejectCandidate"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("relationship_id", relationshipID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.RejectCandidate(ctx, domainagg.TransitionInput{Actor: actor, RelationshipID: relationshipID})
	if err != nil {
		return res, err
	}
	s.transitioned(res.PreviousStatus, res.Status)

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Application update",
		Message:     fmt.Sprintf("The brand has decided not to move forward with you on %s.", p.CampaignTitle),
		Category:    notify.CategoryStatus,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

func (s *lifecycleService) UpdateStatus(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID, status collab.CandidateStatus) (res domainagg.TransitionResult, err error) {
	const op = "Lifecycle.UpdateStatus"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("relationship_id", relationshipID.String()),
		attribute.String("status", string(status)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.UpdateStatus(ctx, domainagg.TransitionInput{Actor: actor, RelationshipID: relationshipID, Status: status})
	if err != nil {
		return res, err
	}
	s.transitioned(res.PreviousStatus, res.Status)

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Status updated",
		Message:     fmt.Sprintf("Your collaboration on %s is now %s.", p.CampaignTitle, res.Status),
		Category:    notify.CategoryStatus,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

// ----- offers and contracts -----

func (s *lifecycleService) CreateOrUpdateOffer(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID, amount float64, description string) (res domainagg.UpsertOfferResult, err error) {
	const op = "Lifecycle.CreateOrUpdateOffer"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("relationship_id", relationshipID.String()),
		attribute.Float64("amount", amount),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	if err = requireAmount(op, amount); err != nil {
		return res, err
	}
	res, err = s.agg.UpsertOffer(ctx, domainagg.UpsertOfferInput{
		Actor:          actor,
		RelationshipID: relationshipID,
		Amount:         amount,
		Description:    description,
	})
	if err != nil {
		return res, err
	}

	p := res.Parties
	title := "Offer updated"
	msg := fmt.Sprintf("The offer for %s is now %s.", p.CampaignTitle, collab.FormatAmount(res.Offer.Amount))
	if res.Created {
		title = "New offer"
		msg = fmt.Sprintf("You received an offer of %s for %s.", collab.FormatAmount(res.Offer.Amount), p.CampaignTitle)
	}
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       title,
		Message:     msg,
		Category:    notify.CategoryOffer,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

func (s *lifecycleService) FinalizeOffer(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (res domainagg.ContractResult, err error) {
	const op = "Lifecycle.FinalizeOffer"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("relationship_id", relationshipID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.FinalizeOffer(ctx, domainagg.FinalizeOfferInput{Actor: actor, RelationshipID: relationshipID})
	if err != nil {
		return res, err
	}
	s.transitioned(res.PreviousStatus, res.RelationshipStatus)

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Contract ready",
		Message: fmt.Sprintf("Your contract for %s is ready. Escrow of %s awaits funding.",
			p.CampaignTitle, collab.FormatAmount(res.Escrow.Amount)),
		Category: notify.CategoryContract,
		Link:     relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

func (s *lifecycleService) DirectHire(ctx context.Context, actor collab.Actor, in DirectHireRequest) (res domainagg.ContractResult, err error) {
	const op = "Lifecycle.DirectHire"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("campaign_id", in.CampaignID.String()),
		attribute.String("creator_id", in.CreatorID.String()),
		attribute.Float64("amount", in.Amount),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	if err = requireAmount(op, in.Amount); err != nil {
		return res, err
	}
	res, err = s.agg.DirectHire(ctx, domainagg.DirectHireInput{
		Actor:       actor,
		CampaignID:  in.CampaignID,
		CreatorID:   in.CreatorID,
		Amount:      in.Amount,
		Title:       in.Title,
		Description: in.Description,
		Terms:       in.Terms,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return res, err
	}
	from := res.PreviousStatus
	if res.RelationshipCreated {
		from = ""
	}
	s.transitioned(from, res.RelationshipStatus)

	p := res.Parties
	s.runSideEffects(ctx, op,
		s.channelEffect(p, ""),
		s.notifyEffect("notify_creator", NotificationInput{
			RecipientID: p.CreatorUserID,
			Title:       "You've been hired",
			Message:     fmt.Sprintf("You were hired directly for %s at %s.", p.CampaignTitle, collab.FormatAmount(res.Contract.TotalAmount)),
			Category:    notify.CategoryContract,
			Link:        relationshipLink(p.RelationshipID),
		}),
	)
	return res, nil
}

// ----- escrow -----

func (s *lifecycleService) FundEscrow(ctx context.Context, actor collab.Actor, contractID uuid.UUID, gatewayRef string) (res domainagg.EscrowResult, err error) {
	const op = "Lifecycle.FundEscrow"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("contract_id", contractID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.FundEscrow(ctx, domainagg.EscrowInput{Actor: actor, ContractID: contractID, GatewayRef: gatewayRef})
	if err != nil {
		return res, err
	}
	span.SetAttributes(attribute.Bool("already_funded", res.AlreadyFunded))
	if res.AlreadyFunded {
		return res, nil
	}

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Escrow funded",
		Message: fmt.Sprintf("%s funded for %s. You can start working on deliverables.",
			collab.FormatAmount(res.Transaction.Amount), p.CampaignTitle),
		Category: notify.CategoryPayment,
		Link:     relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

func (s *lifecycleService) ReleaseEscrow(ctx context.Context, actor collab.Actor, contractID uuid.UUID, gatewayRef string) (res domainagg.EscrowResult, err error) {
	const op = "Lifecycle.ReleaseEscrow"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("contract_id", contractID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.ReleaseEscrow(ctx, domainagg.EscrowInput{Actor: actor, ContractID: contractID, GatewayRef: gatewayRef})
	if err != nil {
		return res, err
	}

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Payment released",
		Message:     fmt.Sprintf("%s has been released for %s.", collab.FormatAmount(res.Transaction.Amount), p.CampaignTitle),
		Category:    notify.CategoryPayment,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

// ----- deliverables -----

func (s *lifecycleService) SubmitDeliverable(ctx context.Context, actor collab.Actor, in SubmitDeliverableRequest) (res domainagg.DeliverableResult, err error) {
	const op = "Lifecycle.SubmitDeliverable"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("relationship_id", in.RelationshipID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.SubmitDeliverable(ctx, domainagg.SubmitDeliverableInput{
		Actor:          actor,
		RelationshipID: in.RelationshipID,
		DeliverableID:  in.DeliverableID,
		URL:            in.URL,
		Notes:          in.Notes,
	})
	if err != nil {
		return res, err
	}
	if res.RelationshipStatus == collab.StatusContentReview {
		s.transitioned(collab.StatusHired, res.RelationshipStatus)
	}

	p := res.Parties
	effects := make([]sideEffect, 0, 2)
	for i, recipient := range brandRecipients(p) {
		name := "notify_brand"
		if i > 0 {
			name = "notify_manager"
		}
		effects = append(effects, s.notifyEffect(name, NotificationInput{
			RecipientID: recipient,
			Title:       "Review required",
			Message:     fmt.Sprintf("%s submitted %q for %s.", p.CreatorName, res.Deliverable.Title, p.CampaignTitle),
			Category:    notify.CategoryDeliverable,
			Link:        relationshipLink(p.RelationshipID),
		}))
	}
	s.runSideEffects(ctx, op, effects...)
	return res, nil
}

func (s *lifecycleService) ApproveDeliverable(ctx context.Context, actor collab.Actor, relationshipID, deliverableID uuid.UUID) (res domainagg.DeliverableResult, err error) {
	const op = "Lifecycle.ApproveDeliverable"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("relationship_id", relationshipID.String()),
		attribute.String("deliverable_id", deliverableID.String()),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.ApproveDeliverable(ctx, domainagg.ReviewDeliverableInput{Actor: actor, RelationshipID: relationshipID, DeliverableID: deliverableID})
	if err != nil {
		return res, err
	}

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Deliverable approved",
		Message:     fmt.Sprintf("%q was approved for %s. Progress is at %d%%.", res.Deliverable.Title, p.CampaignTitle, res.Progress),
		Category:    notify.CategoryDeliverable,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

func (s *lifecycleService) RequestRevision(ctx context.Context, actor collab.Actor, relationshipID, deliverableID uuid.UUID, reason string) (res domainagg.DeliverableResult, err error) {
	const op = "Lifecycle.RequestRevision"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("relationship_id", relationshipID.String()),
		attribute.String("deliverable_id", deliverableID.String()),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.RequestRevision(ctx, domainagg.ReviewDeliverableInput{
		Actor:          actor,
		RelationshipID: relationshipID,
		DeliverableID:  deliverableID,
		Reason:         reason,
	})
	if err != nil {
		return res, err
	}

	p := res.Parties
	msg := fmt.Sprintf("%q needs changes for %s.", res.Deliverable.Title, p.CampaignTitle)
	if reason != "" {
		msg = fmt.Sprintf("%q needs changes for %s: %s", res.Deliverable.Title, p.CampaignTitle, reason)
	}
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Revision requested",
		Message:     msg,
		Category:    notify.CategoryDeliverable,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

func (s *lifecycleService) MarkComplete(ctx context.Context, actor collab.Actor, relationshipID uuid.UUID) (res domainagg.TransitionResult, err error) {
	const op = "Lifecycle.MarkComplete"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("relationship_id", relationshipID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if err = requireActor(op, actor); err != nil {
		return res, err
	}
	res, err = s.agg.MarkComplete(ctx, domainagg.TransitionInput{Actor: actor, RelationshipID: relationshipID})
	if err != nil {
		return res, err
	}
	s.transitioned(res.PreviousStatus, res.Status)

	p := res.Parties
	s.runSideEffects(ctx, op, s.notifyEffect("notify_creator", NotificationInput{
		RecipientID: p.CreatorUserID,
		Title:       "Collaboration completed",
		Message:     fmt.Sprintf("Your collaboration on %s has been marked complete.", p.CampaignTitle),
		Category:    notify.CategoryStatus,
		Link:        relationshipLink(p.RelationshipID),
	}))
	return res, nil
}

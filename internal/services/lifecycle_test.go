package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/aggregates"
	"github.com/yungbote/collab-backend/internal/data/repos"
	"github.com/yungbote/collab-backend/internal/data/repos/testutil"
	types "github.com/yungbote/collab-backend/internal/domain"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/realtime"
	"github.com/yungbote/collab-backend/internal/realtime/bus"
	"github.com/yungbote/collab-backend/internal/services"
)

type stack struct {
	db            *gorm.DB
	svc           services.LifecycleService
	notifier      services.Notifier
	conversations services.ConversationService
	bus           *bus.MemoryBus
	metrics       *observability.Metrics

	notifications repos.NotificationRepo
	channels      repos.ChannelRepo
	messages      repos.ChannelMessageRepo
	deliverables  repos.DeliverableRepo

	parties testutil.Parties
	admin   collab.Actor
}

type stackOption func(*stack)

// failingNotifier stands in for a notification backend that is down.
type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(context.Context, services.NotificationInput) (*types.Notification, error) {
	f.calls++
	return nil, errors.New("smtp relay unavailable")
}

func (f *failingNotifier) ListInbox(context.Context, collab.Actor, bool, int) ([]*types.Notification, error) {
	return nil, nil
}

func (f *failingNotifier) MarkRead(context.Context, collab.Actor, uuid.UUID) error { return nil }

func withNotifier(n services.Notifier) stackOption {
	return func(s *stack) { s.notifier = n }
}

func newStack(t *testing.T, opts ...stackOption) *stack {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	s := &stack{
		db:            db,
		bus:           bus.NewMemoryBus(),
		metrics:       observability.New(observability.MetricsConfig{Enabled: true}),
		notifications: repos.NewNotificationRepo(db, log),
		channels:      repos.NewChannelRepo(db, log),
		messages:      repos.NewChannelMessageRepo(db, log),
		deliverables:  repos.NewDeliverableRepo(db, log),
		parties:       testutil.SeedParties(t, context.Background(), db),
		admin:         collab.Actor{ID: uuid.New(), Role: collab.RoleAdmin},
	}
	s.notifier = services.NewNotifier(log, s.notifications, s.bus, s.metrics)
	s.conversations = services.NewConversationService(db, log, s.channels, s.messages, s.bus, s.metrics)
	for _, opt := range opts {
		opt(s)
	}

	campaigns := repos.NewCampaignRepo(db, log)
	creators := repos.NewCreatorProfileRepo(db, log)
	candidates := repos.NewCandidateRepo(db, log)
	offers := repos.NewOfferRepo(db, log)
	contracts := repos.NewContractRepo(db, log)
	escrow := repos.NewEscrowRepo(db, log)

	agg := aggregates.NewCollaborationAggregate(aggregates.CollaborationAggregateDeps{
		Base:         aggregates.BaseDeps{DB: db, Log: log},
		Campaigns:    campaigns,
		Creators:     creators,
		Candidates:   candidates,
		Offers:       offers,
		Contracts:    contracts,
		Escrow:       escrow,
		Deliverables: s.deliverables,
		Audit:        repos.NewAuditEntryRepo(db, log),
	})
	s.svc = services.NewLifecycleService(services.LifecycleDeps{
		DB:            db,
		Log:           log,
		Aggregate:     agg,
		Campaigns:     campaigns,
		Creators:      creators,
		Candidates:    candidates,
		Offers:        offers,
		Contracts:     contracts,
		Escrow:        escrow,
		Deliverables:  s.deliverables,
		Channels:      s.channels,
		Notifier:      s.notifier,
		Conversations: s.conversations,
		Metrics:       s.metrics,
	})
	return s
}

func (s *stack) inbox(t *testing.T, userID uuid.UUID) []*types.Notification {
	t.Helper()
	rows, err := s.notifications.ListByRecipient(dbctx.Context{Ctx: context.Background()}, userID, false, 100)
	require.NoError(t, err)
	return rows
}

func hasTitle(rows []*types.Notification, title string) bool {
	for _, n := range rows {
		if n.Title == title {
			return true
		}
	}
	return false
}

// accepted invites the seeded creator and accepts on their behalf.
func (s *stack) accepted(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	inv, err := s.svc.Invite(ctx, s.parties.Brand, s.parties.Campaign.ID, s.parties.Creator.ID)
	require.NoError(t, err)
	_, err = s.svc.RespondToInvitation(ctx, s.parties.Talent, inv.Parties.RelationshipID, collab.ActionAccept)
	require.NoError(t, err)
	return inv.Parties.RelationshipID
}

// hired takes a fresh pair through an accepted offer of amount.
func (s *stack) hired(t *testing.T, amount float64) (uuid.UUID, domainagg.ContractResult) {
	t.Helper()
	ctx := context.Background()
	relID := s.accepted(t)
	_, err := s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, amount, "1 reel")
	require.NoError(t, err)
	fin, err := s.svc.FinalizeOffer(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	return relID, fin
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, domainagg.IsCode(err, code), "want %s, got %q (%v)", code, domainagg.CodeOf(err), err)
}

func TestLifecycle_InviteAndAccept(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	inv, err := s.svc.Invite(ctx, s.parties.Brand, s.parties.Campaign.ID, s.parties.Creator.ID)
	require.NoError(t, err)
	assert.Equal(t, collab.StatusContacted, inv.Status)
	assert.Empty(t, s.inbox(t, s.parties.Talent.ID), "invite sends no notification")

	relID := inv.Parties.RelationshipID
	res, err := s.svc.RespondToInvitation(ctx, s.parties.Talent, relID, collab.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, collab.StatusInNegotiation, res.Status)

	ch, err := s.channels.GetByRelationshipID(dbctx.Context{Ctx: ctx}, relID)
	require.NoError(t, err)
	assert.True(t, ch.HasParticipant(s.parties.Brand.ID))
	assert.True(t, ch.HasParticipant(s.parties.Talent.ID))

	msgs, err := s.messages.ListByChannel(dbctx.Context{Ctx: ctx}, ch.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, s.parties.Talent.ID, msgs[0].SenderID)
	assert.Equal(t, int64(1), msgs[0].Seq)

	brandInbox := s.inbox(t, s.parties.Brand.ID)
	require.Len(t, brandInbox, 1)
	assert.Equal(t, "Invitation accepted", brandInbox[0].Title)
	assert.Contains(t, brandInbox[0].Message, "Fund escrow to proceed")
	require.NotNil(t, brandInbox[0].Link)
	assert.Equal(t, "/collaborations/"+relID.String(), *brandInbox[0].Link)

	var sawNotification bool
	for _, ev := range s.bus.Published() {
		if ev.Type == realtime.EventNotificationCreated && ev.Channel == realtime.UserChannel(s.parties.Brand.ID) {
			sawNotification = true
		}
	}
	assert.True(t, sawNotification, "brand notification pushed to the bus")
}

func TestLifecycle_DoubleAcceptKeepsOneChannel(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	inv, err := s.svc.Invite(ctx, s.parties.Brand, s.parties.Campaign.ID, s.parties.Creator.ID)
	require.NoError(t, err)
	relID := inv.Parties.RelationshipID

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.RespondToInvitation(ctx, s.parties.Talent, relID, collab.ActionAccept)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	_, err = s.svc.RespondToInvitation(ctx, s.parties.Talent, relID, collab.ActionAccept)
	require.NoError(t, err)

	var channels int64
	require.NoError(t, s.db.Model(&types.Channel{}).Where("relationship_id = ?", relID).Count(&channels).Error)
	assert.Equal(t, int64(1), channels)

	ch, err := s.channels.GetByRelationshipID(dbctx.Context{Ctx: ctx}, relID)
	require.NoError(t, err)
	n, err := s.messages.Count(dbctx.Context{Ctx: ctx}, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "seed message posted once")
}

func TestLifecycle_RespondOnlyFromNegotiableStates(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID, _ := s.hired(t, 5000)

	_, err := s.svc.RespondToInvitation(ctx, s.parties.Talent, relID, collab.ActionAccept)
	requireCode(t, err, domainagg.CodeInvariantViolation)
	_, err = s.svc.RespondToInvitation(ctx, s.parties.Talent, relID, collab.ActionDecline)
	requireCode(t, err, domainagg.CodeInvariantViolation)
}

func TestLifecycle_NegotiatedPath(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID := s.accepted(t)

	offer, err := s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, 5000, "1 reel")
	require.NoError(t, err)
	assert.True(t, offer.Created)
	assert.Equal(t, 5000.0, offer.Offer.Amount)
	assert.Equal(t, collab.OfferPending, offer.Offer.Status)
	require.Len(t, offer.Offer.History, 1)
	assert.Equal(t, collab.HistoryCreated, offer.Offer.History[0].Action)
	assert.Equal(t, 5000.0, offer.Offer.History[0].Amount)
	assert.True(t, hasTitle(s.inbox(t, s.parties.Talent.ID), "New offer"))

	fin, err := s.svc.FinalizeOffer(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, fin.Contract.TotalAmount)
	assert.Equal(t, 500.0, fin.Contract.PlatformFee)
	assert.Equal(t, collab.ContractDraft, fin.Contract.Status)
	assert.Equal(t, 5000.0, fin.Escrow.Amount)
	assert.Equal(t, collab.EscrowPending, fin.Escrow.Status)
	assert.Equal(t, collab.StatusHired, fin.RelationshipStatus)
	assert.True(t, hasTitle(s.inbox(t, s.parties.Talent.ID), "Contract ready"))

	view, err := s.svc.GetCollaboration(ctx, s.parties.Talent, relID)
	require.NoError(t, err)
	require.NotNil(t, view.Offer)
	assert.Equal(t, collab.OfferAccepted, view.Offer.Status)
	require.Len(t, view.Offer.History, 2)
	assert.Equal(t, collab.HistoryAccepted, view.Offer.History[1].Action)
	assert.Equal(t, collab.StatusHired, view.Relationship.Status)

	funded, err := s.svc.FundEscrow(ctx, s.parties.Brand, fin.Contract.ID, "pay_123")
	require.NoError(t, err)
	assert.False(t, funded.AlreadyFunded)
	assert.Equal(t, collab.EscrowFunded, funded.Transaction.Status)
	assert.Equal(t, collab.ContractActive, funded.ContractStatus)

	var fundedNote *types.Notification
	for _, n := range s.inbox(t, s.parties.Talent.ID) {
		if n.Title == "Escrow funded" {
			fundedNote = n
		}
	}
	require.NotNil(t, fundedNote)
	assert.Contains(t, fundedNote.Message, "₹5000 funded")

	sub, err := s.svc.SubmitDeliverable(ctx, s.parties.Talent, services.SubmitDeliverableRequest{
		RelationshipID: relID,
		URL:            "https://cdn.example.com/reel.mp4",
		Notes:          "first cut",
	})
	require.NoError(t, err)
	assert.Equal(t, collab.DeliverableSubmitted, sub.Deliverable.Status)
	assert.NotNil(t, sub.Deliverable.SubmittedAt)
	assert.Equal(t, collab.StatusContentReview, sub.RelationshipStatus)
	assert.True(t, hasTitle(s.inbox(t, s.parties.Brand.ID), "Review required"))
	assert.True(t, hasTitle(s.inbox(t, s.parties.Manager.ID), "Review required"))

	_, err = s.svc.ApproveDeliverable(ctx, s.parties.Manager, relID, sub.Deliverable.ID)
	require.NoError(t, err)
	done, err := s.svc.MarkComplete(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Equal(t, collab.StatusCompleted, done.Status)

	view, err = s.svc.GetCollaboration(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	require.NotNil(t, view.Contract)
	assert.Equal(t, collab.ContractCompleted, view.Contract.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Nil(t, view.NextDeliverable)
	assert.Equal(t, 5000.0, view.EscrowTotals.Funded)
	assert.NotNil(t, view.ChannelID)

	released, err := s.svc.ReleaseEscrow(ctx, s.admin, fin.Contract.ID, "payout_9")
	require.NoError(t, err)
	assert.Equal(t, collab.EscrowReleased, released.Transaction.Status)
	assert.True(t, hasTitle(s.inbox(t, s.parties.Talent.ID), "Payment released"))
}

func TestLifecycle_OfferHistoryGrowsByOne(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID := s.accepted(t)

	for i, amount := range []float64{1000, 1200, 1500, 1499.99} {
		res, err := s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, amount, "2 stories")
		require.NoError(t, err)
		require.Len(t, res.Offer.History, i+1)
		assert.Equal(t, amount, res.Offer.Amount)
	}
}

func TestLifecycle_InvalidAmountsRejectedBeforeWrite(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID := s.accepted(t)

	for _, amount := range []float64{0, -10, 0.001} {
		_, err := s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, amount, "x")
		requireCode(t, err, domainagg.CodeInvalidAmount)
	}
	view, err := s.svc.GetCollaboration(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Nil(t, view.Offer)

	_, err = s.svc.DirectHire(ctx, s.parties.Brand, services.DirectHireRequest{
		CampaignID: s.parties.Campaign.ID,
		CreatorID:  s.parties.Creator.ID,
		Amount:     -1,
	})
	requireCode(t, err, domainagg.CodeInvalidAmount)
}

func TestLifecycle_DoubleFinalize(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID, fin := s.hired(t, 5000)
	assert.Equal(t, 1.0, s.metrics.TransitionCount("IN_NEGOTIATION", "HIRED"))

	_, err := s.svc.FinalizeOffer(ctx, s.parties.Brand, relID)
	requireCode(t, err, domainagg.CodeAlreadyFinalized)
	assert.Equal(t, 1.0, s.metrics.TransitionCount("IN_NEGOTIATION", "HIRED"))

	var contracts int64
	require.NoError(t, s.db.Model(&types.Contract{}).Where("relationship_id = ?", relID).Count(&contracts).Error)
	assert.Equal(t, int64(1), contracts)

	_, err = s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, 9000, "more")
	requireCode(t, err, domainagg.CodeAlreadyFinalized)

	view, err := s.svc.GetCollaboration(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Equal(t, fin.Contract.ID, view.Contract.ID)
}

func TestLifecycle_DoubleFund(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	_, fin := s.hired(t, 5000)

	first, err := s.svc.FundEscrow(ctx, s.parties.Brand, fin.Contract.ID, "")
	require.NoError(t, err)
	assert.False(t, first.AlreadyFunded)

	second, err := s.svc.FundEscrow(ctx, s.parties.Manager, fin.Contract.ID, "")
	require.NoError(t, err)
	assert.True(t, second.AlreadyFunded)
	assert.Equal(t, collab.ContractActive, second.ContractStatus)
	assert.Equal(t, 5000.0, second.Totals.Funded)

	var funded int
	for _, n := range s.inbox(t, s.parties.Talent.ID) {
		if n.Title == "Escrow funded" {
			funded++
		}
	}
	assert.Equal(t, 1, funded, "creator notified once")

	var rows []types.EscrowTransaction
	require.NoError(t, s.db.Where("contract_id = ?", fin.Contract.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, collab.EscrowFunded, rows[0].Status)
}

func TestLifecycle_EmptyURLMutatesNothing(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID, fin := s.hired(t, 5000)
	_, err := s.svc.FundEscrow(ctx, s.parties.Brand, fin.Contract.ID, "")
	require.NoError(t, err)
	before := len(s.inbox(t, s.parties.Brand.ID))

	for _, url := range []string{"", "   "} {
		_, err = s.svc.SubmitDeliverable(ctx, s.parties.Talent, services.SubmitDeliverableRequest{RelationshipID: relID, URL: url})
		requireCode(t, err, domainagg.CodeValidation)
	}

	ds, err := s.deliverables.ListByContract(dbctx.Context{Ctx: ctx}, fin.Contract.ID)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, collab.DeliverablePending, ds[0].Status)
	assert.Nil(t, ds[0].SubmittedAt)
	assert.Len(t, s.inbox(t, s.parties.Brand.ID), before)

	view, err := s.svc.GetCollaboration(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Equal(t, collab.StatusHired, view.Relationship.Status)
}

func TestLifecycle_DirectHire(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	res, err := s.svc.DirectHire(ctx, s.parties.Brand, services.DirectHireRequest{
		CampaignID:  s.parties.Campaign.ID,
		CreatorID:   s.parties.Creator.ID,
		Amount:      2000,
		Title:       "Unboxing video",
		Description: "60s vertical",
	})
	require.NoError(t, err)
	assert.True(t, res.RelationshipCreated)
	assert.Equal(t, collab.KindDirectHire, res.Contract.Kind)
	assert.Equal(t, 100.0, res.Contract.PlatformFee)
	assert.Equal(t, 360.0, res.Contract.TaxAmount)
	assert.Equal(t, collab.ContractActive, res.Contract.Status)
	assert.Equal(t, collab.EscrowFunded, res.Escrow.Status)
	assert.InDelta(t, 2460.0, res.Escrow.Amount, 1e-9)
	require.Len(t, res.Deliverables, 1)
	assert.Equal(t, collab.DeliverablePending, res.Deliverables[0].Status)
	assert.Equal(t, collab.StatusHired, res.RelationshipStatus)

	assert.True(t, hasTitle(s.inbox(t, s.parties.Talent.ID), "You've been hired"))
	ch, err := s.channels.GetByRelationshipID(dbctx.Context{Ctx: ctx}, res.Parties.RelationshipID)
	require.NoError(t, err)
	n, err := s.messages.Count(dbctx.Context{Ctx: ctx}, ch.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.svc.FundEscrow(ctx, s.parties.Brand, res.Contract.ID, "")
	require.NoError(t, err, "funding a direct hire is a no-op")

	_, err = s.svc.DirectHire(ctx, s.parties.Brand, services.DirectHireRequest{
		CampaignID: s.parties.Campaign.ID,
		CreatorID:  s.parties.Creator.ID,
		Amount:     2000,
	})
	requireCode(t, err, domainagg.CodeAlreadyExists)
}

func TestLifecycle_DirectHireOverNegotiation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID := s.accepted(t)
	_, err := s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, 4000, "2 posts")
	require.NoError(t, err)

	res, err := s.svc.DirectHire(ctx, s.parties.Brand, services.DirectHireRequest{
		CampaignID: s.parties.Campaign.ID,
		CreatorID:  s.parties.Creator.ID,
		Amount:     3000,
	})
	require.NoError(t, err)
	assert.False(t, res.RelationshipCreated)
	assert.Equal(t, collab.StatusInNegotiation, res.PreviousStatus)
	assert.Equal(t, 1.0, s.metrics.TransitionCount("IN_NEGOTIATION", "HIRED"))
	assert.Zero(t, s.metrics.TransitionCount("NONE", "HIRED"))

	_, err = s.svc.FinalizeOffer(ctx, s.parties.Brand, relID)
	requireCode(t, err, domainagg.CodeAlreadyExists)

	view, err := s.svc.GetCollaboration(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Equal(t, res.Contract.ID, view.Contract.ID)
	assert.Equal(t, collab.KindDirectHire, view.Contract.Kind)
	assert.Equal(t, 1.0, s.metrics.TransitionCount("IN_NEGOTIATION", "HIRED"))
}

func TestLifecycle_SideEffectFailureIsSwallowed(t *testing.T) {
	failing := &failingNotifier{}
	s := newStack(t, withNotifier(failing))
	ctx := context.Background()

	relID := s.accepted(t)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1.0, s.metrics.SideEffectCount("notify_brand", "failed"))
	assert.Equal(t, 1.0, s.metrics.SideEffectCount("channel", "ok"))

	_, err := s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, 700, "1 post")
	require.NoError(t, err)
	view, err := s.svc.GetCollaboration(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	require.NotNil(t, view.Offer)
	assert.Equal(t, 700.0, view.Offer.Amount)
}

func TestLifecycle_Authorization(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID := s.accepted(t)
	stranger := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}

	_, err := s.svc.Invite(ctx, collab.Actor{}, s.parties.Campaign.ID, s.parties.Creator.ID)
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = s.svc.CreateOrUpdateOffer(ctx, stranger, relID, 100, "x")
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = s.svc.CreateOrUpdateOffer(ctx, s.parties.Talent, relID, 100, "x")
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = s.svc.GetCollaboration(ctx, stranger, relID)
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = s.svc.ListForCampaign(ctx, s.parties.Talent, s.parties.Campaign.ID, nil)
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = s.svc.ListForCreator(ctx, s.parties.Brand, s.parties.Creator.ID, nil)
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = s.svc.GetCollaboration(ctx, s.parties.Brand, uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestLifecycle_Listings(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID, fin := s.hired(t, 3000)

	other := testutil.SeedCreator(t, ctx, s.db, uuid.New(), "Bo")
	inv, err := s.svc.Invite(ctx, s.parties.Brand, s.parties.Campaign.ID, other.ID)
	require.NoError(t, err)

	all, err := s.svc.ListForCampaign(ctx, s.parties.Manager, s.parties.Campaign.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	hired, err := s.svc.ListForCampaign(ctx, s.parties.Brand, s.parties.Campaign.ID, []string{"hired"})
	require.NoError(t, err)
	require.Len(t, hired, 1)
	assert.Equal(t, relID, hired[0].RelationshipID)
	assert.Equal(t, "Asha", hired[0].CreatorName)
	require.NotNil(t, hired[0].ContractID)
	assert.Equal(t, fin.Contract.ID, *hired[0].ContractID)
	assert.Equal(t, collab.ContractDraft, hired[0].ContractStatus)
	assert.Zero(t, hired[0].Progress)

	mine, err := s.svc.ListForCreator(ctx, s.parties.Talent, s.parties.Creator.ID, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s.parties.Campaign.Title, mine[0].CampaignTitle)

	_, err = s.svc.RejectCandidate(ctx, s.parties.Brand, inv.Parties.RelationshipID)
	require.NoError(t, err)
	active, err := s.svc.ListForCampaign(ctx, s.parties.Brand, s.parties.Campaign.ID, []string{"active"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, relID, active[0].RelationshipID)

	_, err = s.svc.ListForCampaign(ctx, s.parties.Brand, s.parties.Campaign.ID, []string{"SIGNED"})
	requireCode(t, err, domainagg.CodeValidation)
}

func TestLifecycle_RejectAndStatusOverride(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID := s.accepted(t)

	res, err := s.svc.RejectCandidate(ctx, s.parties.Brand, relID)
	require.NoError(t, err)
	assert.Equal(t, collab.StatusRejected, res.Status)
	assert.True(t, hasTitle(s.inbox(t, s.parties.Talent.ID), "Application update"))

	_, err = s.svc.CreateOrUpdateOffer(ctx, s.parties.Brand, relID, 100, "x")
	requireCode(t, err, domainagg.CodeInvariantViolation)

	over, err := s.svc.UpdateStatus(ctx, s.admin, relID, collab.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, collab.StatusRejected, over.PreviousStatus)
	assert.Equal(t, collab.StatusArchived, over.Status)

	statusNote := false
	for _, n := range s.inbox(t, s.parties.Talent.ID) {
		if n.Title == "Status updated" && strings.Contains(n.Message, "ARCHIVED") {
			statusNote = true
		}
	}
	assert.True(t, statusNote)
}

func TestLifecycle_RevisionRoundTrip(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	relID, fin := s.hired(t, 5000)
	_, err := s.svc.FundEscrow(ctx, s.parties.Brand, fin.Contract.ID, "")
	require.NoError(t, err)

	sub, err := s.svc.SubmitDeliverable(ctx, s.parties.Talent, services.SubmitDeliverableRequest{RelationshipID: relID, URL: "https://v1"})
	require.NoError(t, err)
	rev, err := s.svc.RequestRevision(ctx, s.parties.Brand, relID, sub.Deliverable.ID, "brighter lighting")
	require.NoError(t, err)
	assert.Equal(t, collab.DeliverablePending, rev.Deliverable.Status)

	var note *types.Notification
	for _, n := range s.inbox(t, s.parties.Talent.ID) {
		if n.Title == "Revision requested" {
			note = n
		}
	}
	require.NotNil(t, note)
	assert.Contains(t, note.Message, "brighter lighting")

	_, err = s.svc.MarkComplete(ctx, s.parties.Brand, relID)
	requireCode(t, err, domainagg.CodeValidation)

	again, err := s.svc.SubmitDeliverable(ctx, s.parties.Talent, services.SubmitDeliverableRequest{RelationshipID: relID, URL: "https://v2"})
	require.NoError(t, err)
	assert.Equal(t, sub.Deliverable.ID, again.Deliverable.ID)
	assert.Equal(t, "https://v2", again.Deliverable.SubmissionURL)
}

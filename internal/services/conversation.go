package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/aggregates"
	"github.com/yungbote/collab-backend/internal/data/repos"
	types "github.com/yungbote/collab-backend/internal/domain"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
	"github.com/yungbote/collab-backend/internal/realtime"
	"github.com/yungbote/collab-backend/internal/realtime/bus"
)

const maxMessageLength = 4000

type ConversationService interface {
	// GetOrCreateChannel is idempotent per relationship. created reports
	// whether this call inserted the channel.
	GetOrCreateChannel(ctx context.Context, relationshipID uuid.UUID, participants []uuid.UUID) (ch *types.Channel, created bool, err error)
	GetChannel(ctx context.Context, actor collab.Actor, channelID uuid.UUID) (*types.Channel, error)
	PostMessage(ctx context.Context, channelID, senderID uuid.UUID, content string) (*types.ChannelMessage, error)
	ListMessages(ctx context.Context, actor collab.Actor, channelID uuid.UUID, limit int, beforeSeq int64) ([]*types.ChannelMessage, error)
}

type conversationService struct {
	db       *gorm.DB
	log      *logger.Logger
	channels repos.ChannelRepo
	messages repos.ChannelMessageRepo
	bus      bus.Bus
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewConversationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	channelRepo repos.ChannelRepo,
	messageRepo repos.ChannelMessageRepo,
	eventBus bus.Bus,
	metrics *observability.Metrics,
) ConversationService {
	return &conversationService{
		db:       db,
		log:      baseLog.With("service", "ConversationService"),
		channels: channelRepo,
		messages: messageRepo,
		bus:      eventBus,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeParticipants(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *conversationService) GetOrCreateChannel(ctx context.Context, relationshipID uuid.UUID, participants []uuid.UUID) (*types.Channel, bool, error) {
	const op = "Conversation.GetOrCreateChannel"
	if relationshipID == uuid.Nil {
		return nil, false, domainagg.NewError(domainagg.CodeValidation, op, "missing relationship id", nil)
	}
	participants = normalizeParticipants(participants)
	if len(participants) == 0 {
		return nil, false, domainagg.NewError(domainagg.CodeValidation, op, "channel needs at least one participant", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}

	existing, err := s.channels.GetByRelationshipID(dbc, relationshipID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, aggregates.MapError(op, err)
	}

	relID := relationshipID
	row := &types.Channel{
		ID:             uuid.New(),
		RelationshipID: &relID,
		Participants:   participants,
	}
	// Single autocommit insert: a concurrent creator trips the unique
	// relationship index and we read the winner back.
	if _, err := s.channels.Create(dbc, row); err != nil {
		mapped := aggregates.MapError(op, err)
		if !domainagg.IsCode(mapped, domainagg.CodeConflict) {
			return nil, false, mapped
		}
		winner, rerr := s.channels.GetByRelationshipID(dbc, relationshipID)
		if rerr != nil {
			return nil, false, aggregates.MapError(op, rerr)
		}
		return winner, false, nil
	}

	for _, p := range participants {
		s.publish(ctx, p, realtime.EventChannelCreated, map[string]any{"channel": row})
	}
	return row, true, nil
}

func (s *conversationService) GetChannel(ctx context.Context, actor collab.Actor, channelID uuid.UUID) (*types.Channel, error) {
	const op = "Conversation.GetChannel"
	if !actor.Valid() {
		return nil, domainagg.NewError(domainagg.CodeForbidden, op, "missing actor", nil)
	}
	if channelID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing channel id", nil)
	}
	ch, err := s.channels.GetByID(dbctx.Context{Ctx: ctx}, channelID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !ch.HasParticipant(actor.ID) && !actor.IsAdmin() {
		return nil, domainagg.NewError(domainagg.CodeForbidden, op, "not a channel participant", nil)
	}
	return ch, nil
}

func (s *conversationService) PostMessage(ctx context.Context, channelID, senderID uuid.UUID, content string) (*types.ChannelMessage, error) {
	const op = "Conversation.PostMessage"
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "message content is required", nil)
	}
	if len([]rune(content)) > maxMessageLength {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "message too long", nil)
	}
	if channelID == uuid.Nil || senderID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing channel or sender", nil)
	}

	var (
		msg *types.ChannelMessage
		ch  *types.Channel
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		ch, err = s.channels.LockByID(dbc, channelID)
		if err != nil {
			return err
		}
		if !ch.HasParticipant(senderID) {
			return aggregates.ForbiddenError("sender is not a channel participant")
		}
		at := s.now()
		msg = &types.ChannelMessage{
			ID:        uuid.New(),
			ChannelID: ch.ID,
			SenderID:  senderID,
			Seq:       ch.NextSeq + 1,
			Content:   content,
		}
		if _, err := s.messages.Create(dbc, []*types.ChannelMessage{msg}); err != nil {
			return err
		}
		return s.channels.UpdateFields(dbc, ch.ID, map[string]interface{}{
			"next_seq":        msg.Seq,
			"last_message_at": at,
		})
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}

	for _, p := range ch.Participants {
		if p == senderID {
			continue
		}
		s.publish(ctx, p, realtime.EventChannelMessage, map[string]any{"channel_id": ch.ID, "message": msg})
	}
	return msg, nil
}

func (s *conversationService) ListMessages(ctx context.Context, actor collab.Actor, channelID uuid.UUID, limit int, beforeSeq int64) ([]*types.ChannelMessage, error) {
	ch, err := s.GetChannel(ctx, actor, channelID)
	if err != nil {
		return nil, err
	}
	out, err := s.messages.ListByChannel(dbctx.Context{Ctx: ctx}, ch.ID, beforeSeq, limit)
	if err != nil {
		return nil, aggregates.MapError("Conversation.ListMessages", err)
	}
	return out, nil
}

func (s *conversationService) publish(ctx context.Context, userID uuid.UUID, ev realtime.EventType, data map[string]any) {
	if s.bus == nil || userID == uuid.Nil {
		return
	}
	err := s.bus.Publish(ctx, realtime.Event{Channel: realtime.UserChannel(userID), Type: ev, Data: data})
	s.metrics.IncEventPublished(string(ev), err)
	if err != nil {
		s.log.Warn("channel event publish failed", "event", ev, "error", err)
	}
}

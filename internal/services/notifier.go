package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/data/repos"
	types "github.com/yungbote/collab-backend/internal/domain"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/domain/notify"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
	"github.com/yungbote/collab-backend/internal/realtime"
	"github.com/yungbote/collab-backend/internal/realtime/bus"
)

type NotificationInput struct {
	RecipientID uuid.UUID
	Title       string
	Message     string
	Category    notify.Category
	Link        string
}

// Notifier persists inbox rows and pushes them to the realtime bus. Bus
// failures are logged; the inbox row is the source of truth.
type Notifier interface {
	Notify(ctx context.Context, in NotificationInput) (*types.Notification, error)
	ListInbox(ctx context.Context, actor collab.Actor, unreadOnly bool, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, actor collab.Actor, id uuid.UUID) error
}

type notifier struct {
	log     *logger.Logger
	repo    repos.NotificationRepo
	bus     bus.Bus
	metrics *observability.Metrics
	now     func() time.Time
}

func NewNotifier(baseLog *logger.Logger, repo repos.NotificationRepo, eventBus bus.Bus, metrics *observability.Metrics) Notifier {
	return &notifier{
		log:     baseLog.With("service", "Notifier"),
		repo:    repo,
		bus:     eventBus,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (n *notifier) Notify(ctx context.Context, in NotificationInput) (*types.Notification, error) {
	const op = "Notifier.Notify"
	if in.RecipientID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing recipient", nil)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing title", nil)
	}
	row := &types.Notification{
		ID:          uuid.New(),
		RecipientID: in.RecipientID,
		Title:       title,
		Message:     strings.TrimSpace(in.Message),
		Category:    in.Category,
	}
	if link := strings.TrimSpace(in.Link); link != "" {
		row.Link = &link
	}
	if _, err := n.repo.Create(dbctx.Context{Ctx: ctx}, []*types.Notification{row}); err != nil {
		return nil, domainagg.Wrap(domainagg.CodePersistenceFailure, op, err)
	}

	if n.bus != nil {
		err := n.bus.Publish(ctx, realtime.Event{
			Channel: realtime.UserChannel(row.RecipientID),
			Type:    realtime.EventNotificationCreated,
			Data:    map[string]any{"notification": row},
		})
		n.metrics.IncEventPublished(string(realtime.EventNotificationCreated), err)
		if err != nil {
			n.log.Warn("notification publish failed", "notification_id", row.ID, "error", err)
		}
	}
	return row, nil
}

func (n *notifier) ListInbox(ctx context.Context, actor collab.Actor, unreadOnly bool, limit int) ([]*types.Notification, error) {
	if !actor.Valid() {
		return nil, domainagg.NewError(domainagg.CodeForbidden, "Notifier.ListInbox", "missing actor", nil)
	}
	rows, err := n.repo.ListByRecipient(dbctx.Context{Ctx: ctx}, actor.ID, unreadOnly, limit)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodePersistenceFailure, "Notifier.ListInbox", err)
	}
	return rows, nil
}

func (n *notifier) MarkRead(ctx context.Context, actor collab.Actor, id uuid.UUID) error {
	const op = "Notifier.MarkRead"
	if !actor.Valid() {
		return domainagg.NewError(domainagg.CodeForbidden, op, "missing actor", nil)
	}
	if id == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing notification id", nil)
	}
	ok, err := n.repo.MarkRead(dbctx.Context{Ctx: ctx}, id, actor.ID, n.now())
	if err != nil {
		return domainagg.Wrap(domainagg.CodePersistenceFailure, op, err)
	}
	if !ok {
		return domainagg.NewError(domainagg.CodeNotFound, op, "notification not found", nil)
	}
	return nil
}

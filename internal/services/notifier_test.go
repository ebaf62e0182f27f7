package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/collab-backend/internal/data/repos"
	"github.com/yungbote/collab-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/domain/notify"
	"github.com/yungbote/collab-backend/internal/realtime"
	"github.com/yungbote/collab-backend/internal/realtime/bus"
	"github.com/yungbote/collab-backend/internal/services"
)

func TestNotifier_InboxAndMarkRead(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	eventBus := bus.NewMemoryBus()
	n := services.NewNotifier(log, repos.NewNotificationRepo(db, log), eventBus, nil)
	ctx := context.Background()
	me := collab.Actor{ID: uuid.New(), Role: collab.RoleCreator}

	row, err := n.Notify(ctx, services.NotificationInput{
		RecipientID: me.ID,
		Title:       "  New offer ",
		Message:     "You received an offer",
		Category:    notify.CategoryOffer,
		Link:        "/collaborations/x",
	})
	require.NoError(t, err)
	assert.Equal(t, "New offer", row.Title)

	events := eventBus.Published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.UserChannel(me.ID), events[0].Channel)
	assert.Equal(t, realtime.EventNotificationCreated, events[0].Type)

	unread, err := n.ListInbox(ctx, me, true, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	someoneElse := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}
	requireCode(t, n.MarkRead(ctx, someoneElse, row.ID), domainagg.CodeNotFound)
	require.NoError(t, n.MarkRead(ctx, me, row.ID))

	unread, err = n.ListInbox(ctx, me, true, 10)
	require.NoError(t, err)
	assert.Empty(t, unread)
	all, err := n.ListInbox(ctx, me, false, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)
	assert.NotNil(t, all[0].ReadAt)
}

func TestNotifier_Validation(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	n := services.NewNotifier(log, repos.NewNotificationRepo(db, log), nil, nil)
	ctx := context.Background()

	_, err := n.Notify(ctx, services.NotificationInput{Title: "x"})
	requireCode(t, err, domainagg.CodeValidation)
	_, err = n.Notify(ctx, services.NotificationInput{RecipientID: uuid.New(), Title: "  "})
	requireCode(t, err, domainagg.CodeValidation)
	_, err = n.ListInbox(ctx, collab.Actor{}, false, 10)
	requireCode(t, err, domainagg.CodeForbidden)
}

func TestNotifier_ClosedBusDoesNotFailNotify(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	eventBus := bus.NewMemoryBus()
	require.NoError(t, eventBus.Close())
	n := services.NewNotifier(log, repos.NewNotificationRepo(db, log), eventBus, nil)

	row, err := n.Notify(context.Background(), services.NotificationInput{RecipientID: uuid.New(), Title: "Escrow funded"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, row.ID)
}

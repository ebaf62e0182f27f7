package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/collab-backend/internal/data/repos"
	"github.com/yungbote/collab-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/realtime"
	"github.com/yungbote/collab-backend/internal/realtime/bus"
	"github.com/yungbote/collab-backend/internal/services"
)

func newConversations(t *testing.T) (services.ConversationService, *bus.MemoryBus) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	eventBus := bus.NewMemoryBus()
	return services.NewConversationService(db, log, repos.NewChannelRepo(db, log), repos.NewChannelMessageRepo(db, log), eventBus, nil), eventBus
}

func TestConversation_GetOrCreateIsIdempotent(t *testing.T) {
	conv, eventBus := newConversations(t)
	ctx := context.Background()
	relID := uuid.New()
	brand, creator := uuid.New(), uuid.New()

	first, created, err := conv.GetOrCreateChannel(ctx, relID, []uuid.UUID{brand, creator, brand})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, first.Participants, 2)

	second, created, err := conv.GetOrCreateChannel(ctx, relID, []uuid.UUID{brand, creator})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var createdEvents int
	for _, ev := range eventBus.Published() {
		if ev.Type == realtime.EventChannelCreated {
			createdEvents++
		}
	}
	assert.Equal(t, 2, createdEvents, "one channel.created per participant")

	_, _, err = conv.GetOrCreateChannel(ctx, uuid.Nil, []uuid.UUID{brand})
	requireCode(t, err, domainagg.CodeValidation)
}

func TestConversation_MessagesAreSequenced(t *testing.T) {
	conv, eventBus := newConversations(t)
	ctx := context.Background()
	brand := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}
	creator := collab.Actor{ID: uuid.New(), Role: collab.RoleCreator}
	ch, _, err := conv.GetOrCreateChannel(ctx, uuid.New(), []uuid.UUID{brand.ID, creator.ID})
	require.NoError(t, err)

	for i, body := range []string{"hello", "  draft attached  ", "thanks"} {
		msg, err := conv.PostMessage(ctx, ch.ID, []uuid.UUID{creator.ID, brand.ID}[i%2], body)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), msg.Seq)
		assert.Equal(t, strings.TrimSpace(body), msg.Content)
	}

	msgs, err := conv.ListMessages(ctx, brand, ch.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello", msgs[0].Content)

	older, err := conv.ListMessages(ctx, creator, ch.ID, 10, 3)
	require.NoError(t, err)
	assert.Len(t, older, 2)

	var toBrand int
	for _, ev := range eventBus.Published() {
		if ev.Type == realtime.EventChannelMessage && ev.Channel == realtime.UserChannel(brand.ID) {
			toBrand++
		}
	}
	assert.Equal(t, 2, toBrand, "sender never gets its own message event")
}

func TestConversation_Guards(t *testing.T) {
	conv, _ := newConversations(t)
	ctx := context.Background()
	member := uuid.New()
	ch, _, err := conv.GetOrCreateChannel(ctx, uuid.New(), []uuid.UUID{member})
	require.NoError(t, err)

	_, err = conv.PostMessage(ctx, ch.ID, uuid.New(), "hi")
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = conv.PostMessage(ctx, ch.ID, member, "   ")
	requireCode(t, err, domainagg.CodeValidation)
	_, err = conv.PostMessage(ctx, ch.ID, member, strings.Repeat("x", 4001))
	requireCode(t, err, domainagg.CodeValidation)

	outsider := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}
	_, err = conv.ListMessages(ctx, outsider, ch.ID, 10, 0)
	requireCode(t, err, domainagg.CodeForbidden)
	admin := collab.Actor{ID: uuid.New(), Role: collab.RoleAdmin}
	_, err = conv.GetChannel(ctx, admin, ch.ID)
	require.NoError(t, err)
}

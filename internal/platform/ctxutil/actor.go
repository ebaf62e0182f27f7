package ctxutil

import (
	"context"

	"github.com/yungbote/collab-backend/internal/domain/collab"
)

type actorKey struct{}

// WithActor stores the authenticated caller. Only the HTTP auth middleware
// writes it; services receive the actor as an explicit argument.
func WithActor(ctx context.Context, actor collab.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func GetActor(ctx context.Context) (collab.Actor, bool) {
	if ctx == nil {
		return collab.Actor{}, false
	}
	a, ok := ctx.Value(actorKey{}).(collab.Actor)
	if !ok || !a.Valid() {
		return collab.Actor{}, false
	}
	return a, true
}

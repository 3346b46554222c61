package shared

import "context"

// Actor identifies the authenticated user acting on a request. The id is
// issued by the platform gateway; this module treats it as opaque.
type Actor struct {
	ID   int64
	Name string
}

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}

// ActorID returns the acting user id, or zero when the request is anonymous.
func ActorID(ctx context.Context) int64 {
	if actor := ActorFromContext(ctx); actor != nil {
		return actor.ID
	}
	return 0
}

package ordering

import "context"

// ActorContext captures actor/user/tenant identifiers for activity events.
type ActorContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

type actorContextKey struct{}

// ContextWithActor stores actor identifiers on the provided context.
func ContextWithActor(ctx context.Context, meta ActorContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey{}, meta)
}

func actorFrom(ctx context.Context) ActorContext {
	if ctx == nil {
		return ActorContext{}
	}
	if meta, ok := ctx.Value(actorContextKey{}).(ActorContext); ok {
		return meta
	}
	return ActorContext{}
}

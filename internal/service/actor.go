package service

import "context"

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// WithActor returns a context carrying the id of the employee making the request.
func WithActor(ctx context.Context, empID int64) context.Context {
	return context.WithValue(ctx, ctxKeyActor, empID)
}

// ActorID returns the employee id stored by WithActor, if any.
func ActorID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyActor).(int64)
	return id, ok && id > 0
}

func actorPtr(ctx context.Context) *int64 {
	id, ok := ActorID(ctx)
	if !ok {
		return nil
	}
	return &id
}

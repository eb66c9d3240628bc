package ctxutil

import (
	"context"

	"github.com/punchamoorthee/ledgerview/internal/domain"
)

type ctxKey string

const (
	requesterKey ctxKey = "requester"
	requestIDKey ctxKey = "request_id"
)

// WithRequester stores the requester in the context.
func WithRequester(ctx context.Context, r domain.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, r)
}

// RequesterFromCtx extracts the requester from the context.
// Returns an anonymous requester with no permissions and false if absent.
func RequesterFromCtx(ctx context.Context) (domain.Requester, bool) {
	r, ok := ctx.Value(requesterKey).(domain.Requester)
	if !ok {
		return domain.NewRequester(nil), false
	}
	return r, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores the request id assigned by the API middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored by the API middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs operation duration on completion. Use as:
//
//	defer obs.Time(ctx, log, "bids.Accept")(&err)
func Time(ctx context.Context, log *zap.Logger, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("op", name),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}
		if errp != nil && *errp != nil {
			log.Warn("op failed", append(fields, zap.Error(*errp))...)
			return
		}
		log.Debug("op done", fields...)
	}
}

package obs

import (
	"context"
	"log/slog"
	"time"
	"trip-planner-service/internal/platform/logging"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation. Use as
//
//	defer obs.Time(ctx, "op")(&err)
//
// Failures are logged at warn level, successes at debug.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		logger := logging.FromContext(ctx)

		attrs := []any{
			slog.String("req_id", RequestID(ctx)),
			slog.String("op", name),
			slog.Int64("dur_ms", dur.Milliseconds()),
		}

		if errp != nil && *errp != nil {
			logger.Warn("operation failed", append(attrs, slog.String("error", (*errp).Error()))...)
			return
		}
		logger.Debug("operation", attrs...)
	}
}

// Package logging builds the service's JSON slog logger and carries it
// through request contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

type ctxKey struct{}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// NewStructuredLogger writes one JSON object per record to w. Timestamps are
// UTC so log lines line up with the UTC duty-day clock.
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: utcTime,
	}))
}

func utcTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.TimeValue(a.Value.Time().UTC().Truncate(time.Millisecond))
	}
	return a
}

// ParseLevel accepts debug, info, warn(ing) and error in any case; anything
// else is info.
func ParseLevel(s string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l
	}
	return slog.LevelInfo
}

// LogError records err at error level. A nil logger or nil err is a no-op.
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	if logger == nil || err == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelError, message,
		append([]slog.Attr{slog.String("error", err.Error())}, attrs...)...)
}

// LogOperation records a completed domain operation at info level.
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, operation, attrs...)
}

// LogHTTPRequest writes the access-log line for one request.
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMs float64, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "http_request",
		append([]slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Float64("duration_ms", durationMs),
		}, attrs...)...)
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext never returns nil; it falls back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, _ := ctx.Value(ctxKey{}).(*slog.Logger); logger != nil {
		return logger
	}
	return slog.Default()
}

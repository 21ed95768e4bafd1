package logging

import (
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes closer and logs, rather than returns, a failure.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		LogError(logger, "close failed", err,
			slog.String("operation", operation))
	}
}

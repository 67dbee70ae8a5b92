// Package logger provides structured logging with context extraction and Sentry integration.
//
// It wraps log/slog with context-based attribute injection: request-scoped
// values such as the request id or the signed-in user id are added to every
// record logged with a context that carries them.
//
// # Basic Usage
//
//	requestID := func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(logger.Config{Level: "info"}, requestID)
//	log.InfoContext(ctx, "request handled")
//
// # Sentry
//
// When [SentryConfig].DSN is set, warnings and errors are also forwarded to
// Sentry; errors create issues. An empty DSN keeps stdout-only logging.
//
// # Testing
//
// [NewNope] discards everything and is the default for components that
// accept an optional logger.
package logger

package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/awesome/internal"
)

// Logger logs every request when it starts and once the response is written.
func Logger() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			req := c.Request()
			c.LogInfo("request", slog.String("method", req.Method), slog.String("path", req.URL.Path))

			err := next(c)

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Duration("duration", time.Since(start)),
			}
			if rw := c.ResponseWriter(); rw != nil {
				attrs = append(attrs, slog.Int("status", rw.Status()), slog.Int64("size", rw.Size()))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				c.LogWarn("response", attrs...)
				return err
			}
			c.LogInfo("response", attrs...)
			return nil
		}
	}
}

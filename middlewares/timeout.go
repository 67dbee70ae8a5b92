package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/awesome/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns a *TimeoutError when later stages do not finish in time.
// Endpoints observe the deadline through TimeoutContext.
//
// The handler goroutine keeps running after the timeout fires. Long
// running work should watch ctx.Done() and stop early.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			c.Set(timeoutContextKey{}, ctx)

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", timeout.String())
					return &TimeoutError{Duration: timeout}
				}
				return ctx.Err()
			}
		}
	}
}

type timeoutContextKey struct{}

// TimeoutContext returns the deadline bound context installed by Timeout,
// or ctx itself when Timeout did not run.
func TimeoutContext(ctx context.Context) context.Context {
	if v, ok := ctx.Value(timeoutContextKey{}).(context.Context); ok {
		return v
	}
	return ctx
}

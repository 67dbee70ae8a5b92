package db

import (
	"context"
	"errors"
)

// Shutdown returns a function that gracefully closes the connection pool.
// Use with awesome.WithShutdownHook().
//
// Example:
//
//	app := awesome.New(
//	    awesome.WithShutdownHook(db.Shutdown(pool)),
//	)
func Shutdown(pool *Pool) func(ctx context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}

// Healthcheck returns a readiness check that pings the pool.
func Healthcheck(pool *Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open creates the connection pool described by cfg.
// Connection attempts are retried with linear backoff: attempt n waits n*RetryInterval.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Pool, error) {
	dsn, err := cfg.ConnectionString()
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.QueryTimeout > 0 {
		opts = append([]Option{WithQueryTimeout(cfg.QueryTimeout)}, opts...)
	}

	var b backend
	switch cfg.Driver {
	case DriverPostgres:
		b, err = connectPgx(ctx, dsn, cfg)
	case DriverMySQL, DriverSQLite:
		b, err = connectSQL(ctx, dsn, cfg)
	default:
		return nil, errors.Join(ErrFailedToParseDBConfig, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver))
	}
	if err != nil {
		return nil, err
	}
	return newPool(b, DialectFor(cfg.Driver), opts...), nil
}

func connectPgx(ctx context.Context, dsn string, cfg Config) (backend, error) {
	connConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = max(cfg.MaxConns, 1)
	connConfig.MinConns = min(cfg.MinConns, connConfig.MaxConns)
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	return retry(ctx, cfg, func() (backend, error) {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return newPgxBackend(pool), nil
	})
}

func connectSQL(ctx context.Context, dsn string, cfg Config) (backend, error) {
	return retry(ctx, cfg, func() (backend, error) {
		db, err := sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(int(max(cfg.MaxConns, 1)))
		db.SetMaxIdleConns(int(max(cfg.MinConns, 1)))
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &sqlBackend{db: db}, nil
	})
}

func retry(ctx context.Context, cfg Config, connect func() (backend, error)) (backend, error) {
	var lastErr error
	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		b, err := connect()
		if err == nil {
			return b, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}

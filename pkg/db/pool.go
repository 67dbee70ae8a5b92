package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/awesome/pkg/logger"
)

// Pool is a process-wide connection pool handle.
// Every Select and Execute leases exactly one connection for its duration
// and always returns it, on success or error.
// A nil *Pool reports ErrPoolNotInitialized.
type Pool struct {
	backend      backend
	dialect      Dialect
	log          *slog.Logger
	queryTimeout time.Duration
	closed       atomic.Bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the statement logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// WithQueryTimeout bounds every operation, including the wait for a connection.
func WithQueryTimeout(d time.Duration) Option {
	return func(p *Pool) {
		p.queryTimeout = d
	}
}

func newPool(b backend, dialect Dialect, opts ...Option) *Pool {
	p := &Pool{
		backend: b,
		dialect: dialect,
		log:     logger.NewNope(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromPgx wraps an existing pgx pool. Closing the Pool closes pool.
func FromPgx(pool *pgxpool.Pool, opts ...Option) *Pool {
	return newPool(newPgxBackend(pool), postgresDialect{}, opts...)
}

// FromSQL wraps an existing database/sql handle opened with the given driver name.
func FromSQL(db *sql.DB, driver string, opts ...Option) *Pool {
	return newPool(&sqlBackend{db: db}, DialectFor(driver), opts...)
}

// Dialect returns the pool's dialect.
func (p *Pool) Dialect() Dialect {
	if p == nil {
		return mysqlDialect{}
	}
	return p.dialect
}

// Select runs a query with "?" placeholders and returns at most limit rows.
// A limit of zero or less returns every row.
func (p *Pool) Select(ctx context.Context, query string, args []any, limit int) ([]Row, error) {
	b, err := p.use()
	if err != nil {
		return nil, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	p.log.InfoContext(ctx, "SQL", slog.String("query", query))

	c, err := b.acquire(ctx)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer c.release()

	rows, err := c.query(ctx, p.dialect.Rebind(query), args, limit)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	p.log.InfoContext(ctx, "rows returned", slog.Int("count", len(rows)))
	return rows, nil
}

// Execute runs a data-modifying statement and returns the affected row count.
// Without autocommit the statement runs inside a transaction on the leased
// connection that is committed on success and rolled back on failure.
func (p *Pool) Execute(ctx context.Context, query string, args []any, autocommit bool) (int64, error) {
	b, err := p.use()
	if err != nil {
		return 0, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	p.log.InfoContext(ctx, "SQL", slog.String("query", query))

	c, err := b.acquire(ctx)
	if err != nil {
		return 0, errors.Join(ErrExecFailed, err)
	}
	defer c.release()

	query = p.dialect.Rebind(query)
	if autocommit {
		affected, err := c.exec(ctx, query, args)
		if err != nil {
			return 0, errors.Join(ErrExecFailed, err)
		}
		return affected, nil
	}

	tx, err := c.begin(ctx)
	if err != nil {
		return 0, errors.Join(ErrExecFailed, err)
	}
	affected, err := tx.exec(ctx, query, args)
	if err != nil {
		_ = tx.rollback(ctx)
		return 0, errors.Join(ErrExecFailed, err)
	}
	if err := tx.commit(ctx); err != nil {
		return 0, errors.Join(ErrExecFailed, err)
	}
	return affected, nil
}

// Ping verifies a connection can be established.
func (p *Pool) Ping(ctx context.Context) error {
	b, err := p.use()
	if err != nil {
		return err
	}
	return b.ping(ctx)
}

// Close releases every pooled connection. Later calls are no-ops.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	if p.backend == nil || !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.backend.close()
}

func (p *Pool) use() (backend, error) {
	if p == nil || p.backend == nil {
		return nil, ErrPoolNotInitialized
	}
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}
	return p.backend, nil
}

func (p *Pool) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.queryTimeout > 0 {
		return context.WithTimeout(ctx, p.queryTimeout)
	}
	return ctx, func() {}
}

package db

import (
	"context"
	"errors"
	"log/slog"
)

// Tx is a transaction bound to a single leased connection.
// It satisfies the same Select/Execute contract as Pool; the autocommit flag is ignored.
type Tx struct {
	tx      txConn
	dialect Dialect
	log     *slog.Logger
}

// Dialect returns the dialect of the owning pool.
func (t *Tx) Dialect() Dialect { return t.dialect }

// Select runs a query inside the transaction.
func (t *Tx) Select(ctx context.Context, query string, args []any, limit int) ([]Row, error) {
	t.log.InfoContext(ctx, "SQL", slog.String("query", query))
	rows, err := t.tx.query(ctx, t.dialect.Rebind(query), args, limit)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return rows, nil
}

// Execute runs a statement inside the transaction.
func (t *Tx) Execute(ctx context.Context, query string, args []any, _ bool) (int64, error) {
	t.log.InfoContext(ctx, "SQL", slog.String("query", query))
	affected, err := t.tx.exec(ctx, t.dialect.Rebind(query), args)
	if err != nil {
		return 0, errors.Join(ErrExecFailed, err)
	}
	return affected, nil
}

// WithTx executes fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
// If fn panics, the transaction is rolled back and the panic is re-raised.
// If fn succeeds, the transaction is committed.
func WithTx(ctx context.Context, pool *Pool, fn func(tx *Tx) error) error {
	b, err := pool.use()
	if err != nil {
		return err
	}

	c, err := b.acquire(ctx)
	if err != nil {
		return errors.Join(ErrExecFailed, err)
	}
	defer c.release()

	raw, err := c.begin(ctx)
	if err != nil {
		return errors.Join(ErrExecFailed, err)
	}
	tx := &Tx{tx: raw, dialect: pool.dialect, log: pool.log}

	defer func() {
		if p := recover(); p != nil {
			_ = raw.rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = raw.rollback(ctx)
		return err
	}

	return raw.commit(ctx)
}

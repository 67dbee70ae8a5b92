package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

type pgxBackend struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

func newPgxBackend(pool *pgxpool.Pool) *pgxBackend {
	// The bridge shares the pool's connections and must not be closed separately.
	return &pgxBackend{pool: pool, db: stdlib.OpenDBFromPool(pool)}
}

func (b *pgxBackend) acquire(ctx context.Context) (conn, error) {
	c, err := b.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{c: c}, nil
}

func (b *pgxBackend) ping(ctx context.Context) error { return b.pool.Ping(ctx) }
func (b *pgxBackend) close()                         { b.pool.Close() }
func (b *pgxBackend) std() *sql.DB                   { return b.db }

type pgxRunner interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pgxConn struct {
	c *pgxpool.Conn
}

func (p *pgxConn) query(ctx context.Context, q string, args []any, limit int) ([]Row, error) {
	return pgxQuery(ctx, p.c, q, args, limit)
}

func (p *pgxConn) exec(ctx context.Context, q string, args []any) (int64, error) {
	return pgxExec(ctx, p.c, q, args)
}

func (p *pgxConn) begin(ctx context.Context) (txConn, error) {
	tx, err := p.c.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

func (p *pgxConn) release() { p.c.Release() }

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) query(ctx context.Context, q string, args []any, limit int) ([]Row, error) {
	return pgxQuery(ctx, t.tx, q, args, limit)
}

func (t *pgxTx) exec(ctx context.Context, q string, args []any) (int64, error) {
	return pgxExec(ctx, t.tx, q, args)
}

func (t *pgxTx) commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func pgxQuery(ctx context.Context, r pgxRunner, q string, args []any, limit int) ([]Row, error) {
	rows, err := r.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var result []Row
	for rows.Next() {
		if limit > 0 && len(result) == limit {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		result = append(result, Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func pgxExec(ctx context.Context, r pgxRunner, q string, args []any) (int64, error) {
	tag, err := r.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

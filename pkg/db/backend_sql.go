package db

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

type sqlBackend struct {
	db *sql.DB
}

func (b *sqlBackend) acquire(ctx context.Context) (conn, error) {
	c, err := b.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{c: c}, nil
}

func (b *sqlBackend) ping(ctx context.Context) error { return b.db.PingContext(ctx) }
func (b *sqlBackend) close()                         { _ = b.db.Close() }
func (b *sqlBackend) std() *sql.DB                   { return b.db }

type sqlRunner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlConn struct {
	c *sql.Conn
}

func (s *sqlConn) query(ctx context.Context, q string, args []any, limit int) ([]Row, error) {
	return sqlQuery(ctx, s.c, q, args, limit)
}

func (s *sqlConn) exec(ctx context.Context, q string, args []any) (int64, error) {
	return sqlExec(ctx, s.c, q, args)
}

func (s *sqlConn) begin(ctx context.Context) (txConn, error) {
	tx, err := s.c.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (s *sqlConn) release() { _ = s.c.Close() }

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) query(ctx context.Context, q string, args []any, limit int) ([]Row, error) {
	return sqlQuery(ctx, t.tx, q, args, limit)
}

func (t *sqlTx) exec(ctx context.Context, q string, args []any) (int64, error) {
	return sqlExec(ctx, t.tx, q, args)
}

func (t *sqlTx) commit(context.Context) error   { return t.tx.Commit() }
func (t *sqlTx) rollback(context.Context) error { return t.tx.Rollback() }

func sqlQuery(ctx context.Context, r sqlRunner, q string, args []any, limit int) ([]Row, error) {
	rows, err := r.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		if limit > 0 && len(result) == limit {
			break
		}
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func sqlExec(ctx context.Context, r sqlRunner, q string, args []any) (int64, error) {
	res, err := r.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

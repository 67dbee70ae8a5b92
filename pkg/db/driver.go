package db

import (
	"context"
	"database/sql"
)

// backend is a connection pool for one driver family.
type backend interface {
	acquire(ctx context.Context) (conn, error)
	ping(ctx context.Context) error
	close()
	// std exposes a database/sql handle sharing the same connections, for goose.
	std() *sql.DB
}

// conn is a leased connection. release returns it to the pool.
type conn interface {
	querier
	begin(ctx context.Context) (txConn, error)
	release()
}

type txConn interface {
	querier
	commit(ctx context.Context) error
	rollback(ctx context.Context) error
}

type querier interface {
	query(ctx context.Context, q string, args []any, limit int) ([]Row, error)
	exec(ctx context.Context, q string, args []any) (int64, error)
}

// Package db provides the SQL execution engine: a connection pool handle,
// select/execute primitives, placeholder translation, transactions and migrations.
//
// Three backends are supported behind one [Pool] type:
//
//   - postgres via [github.com/jackc/pgx/v5/pgxpool]
//   - mysql via [github.com/go-sql-driver/mysql]
//   - sqlite via [modernc.org/sqlite]
//
// Statements are always written with "?" placeholders and backtick quoted
// identifiers. The pool's [Dialect] rewrites them for the target database
// before they are sent.
//
// # Configuration
//
// Settings are loaded from environment variables or a YAML file:
//
//	DATABASE_DRIVER             - postgres, mysql or sqlite (default: mysql)
//	DATABASE_DSN                - full data source name, overrides the fields below
//	DATABASE_HOST               - host (default: localhost)
//	DATABASE_PORT               - port (default: 3306)
//	DATABASE_USER               - user
//	DATABASE_PASSWORD           - password
//	DATABASE_NAME               - database name, or file path for sqlite
//	DATABASE_CHARSET            - mysql charset (default: utf8)
//	DATABASE_MIN_CONNS          - idle connections kept open (default: 1)
//	DATABASE_MAX_CONNS          - maximum leased connections (default: 10)
//	DATABASE_QUERY_TIMEOUT      - per operation deadline (default: none)
//	DATABASE_RETRY_ATTEMPTS     - connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - base retry interval (default: 2s)
//	DATABASE_MIGRATIONS_TABLE   - migrations table name (default: schema_migrations)
//
// # Usage
//
//	pool, err := db.Open(ctx, cfg, db.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	rows, err := pool.Select(ctx, "SELECT `id`, `name` FROM `users` WHERE `email`=?", []any{email}, 1)
//	affected, err := pool.Execute(ctx, "DELETE FROM `users` WHERE `id`=?", []any{id}, true)
//
// Every operation on a nil or closed pool fails with [ErrPoolNotInitialized]
// or [ErrPoolClosed].
//
// # Transactions
//
// The [WithTx] helper runs several statements on one connection with rollback on error:
//
//	err := db.WithTx(ctx, pool, func(tx *db.Tx) error {
//		_, err := tx.Execute(ctx, "UPDATE `blogs` SET `name`=? WHERE `id`=?", []any{name, id}, false)
//		return err
//	})
//
// # Migrations
//
//	//go:embed *.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, "schema_migrations", logger)
//
// # Error Handling
//
// Errors are wrapped using [errors.Join] with a package sentinel, so callers
// can match either the sentinel or the underlying driver error.
package db

package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/db"
)

func openSQLite(t *testing.T, opts ...func(*db.Config)) *db.Pool {
	t.Helper()

	cfg := db.DefaultConfig()
	cfg.Driver = db.DriverSQLite
	cfg.Database = filepath.Join(t.TempDir(), "test.db")
	cfg.RetryAttempts = 1
	for _, opt := range opts {
		opt(&cfg)
	}

	pool, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Execute(context.Background(),
		"CREATE TABLE `users` (`id` varchar(50) NOT NULL PRIMARY KEY, `name` varchar(50) NOT NULL, `age` bigint NOT NULL)",
		nil, true)
	require.NoError(t, err)
	return pool
}

func TestPoolSelectExecute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := openSQLite(t)

	for _, u := range [][]any{{"a", "Alice", 30}, {"b", "Bob", 25}, {"c", "Carol", 41}} {
		affected, err := pool.Execute(ctx, "INSERT INTO `users` (`name`, `age`, `id`) VALUES (?, ?, ?)", []any{u[1], u[2], u[0]}, false)
		require.NoError(t, err)
		require.EqualValues(t, 1, affected)
	}

	t.Run("returns ordered columns", func(t *testing.T) {
		t.Parallel()

		rows, err := pool.Select(ctx, "SELECT `id`, `name`, `age` FROM `users` WHERE `id`=?", []any{"a"}, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, []string{"id", "name", "age"}, rows[0].Columns)

		name, ok := rows[0].Get("name")
		require.True(t, ok)
		require.Equal(t, "Alice", name)
		require.EqualValues(t, 30, rows[0].Map()["age"])
	})

	t.Run("limit caps rows", func(t *testing.T) {
		t.Parallel()

		rows, err := pool.Select(ctx, "SELECT `id` FROM `users` ORDER BY `id`", nil, 2)
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()

		rows, err := pool.Select(ctx, "SELECT `id` FROM `users` WHERE `id`=?", []any{"missing"}, 0)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("execute failure is reported", func(t *testing.T) {
		_, err := pool.Execute(ctx, "INSERT INTO `users` (`name`, `age`, `id`) VALUES (?, ?, ?)", []any{"Dup", 1, "a"}, false)
		require.ErrorIs(t, err, db.ErrExecFailed)

		rows, err := pool.Select(ctx, "SELECT `name` FROM `users` WHERE `id`=?", []any{"a"}, 0)
		require.NoError(t, err)
		require.Equal(t, "Alice", rows[0].Values[0])
	})

	t.Run("invalid sql", func(t *testing.T) {
		t.Parallel()

		_, err := pool.Select(ctx, "SELECT nope FROM", nil, 0)
		require.ErrorIs(t, err, db.ErrQueryFailed)
	})
}

func TestPoolLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("nil pool", func(t *testing.T) {
		t.Parallel()

		var pool *db.Pool
		_, err := pool.Select(context.Background(), "SELECT 1", nil, 0)
		require.ErrorIs(t, err, db.ErrPoolNotInitialized)

		_, err = pool.Execute(context.Background(), "SELECT 1", nil, true)
		require.ErrorIs(t, err, db.ErrPoolNotInitialized)

		require.NotPanics(t, pool.Close)
	})

	t.Run("closed pool", func(t *testing.T) {
		t.Parallel()

		pool := openSQLite(t)
		pool.Close()
		pool.Close()

		_, err := pool.Select(context.Background(), "SELECT 1", nil, 0)
		require.ErrorIs(t, err, db.ErrPoolClosed)

		_, err = pool.Execute(context.Background(), "SELECT 1", nil, true)
		require.ErrorIs(t, err, db.ErrPoolClosed)

		require.NoError(t, db.Shutdown(pool)(context.Background()))
		require.ErrorIs(t, db.Healthcheck(pool)(context.Background()), db.ErrHealthcheckFailed)
	})

	t.Run("healthcheck", func(t *testing.T) {
		t.Parallel()

		pool := openSQLite(t)
		require.NoError(t, db.Healthcheck(pool)(context.Background()))
	})

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()

		_, err := db.Open(context.Background(), db.Config{Driver: "oracle"})
		require.ErrorIs(t, err, db.ErrUnsupportedDriver)
		require.ErrorIs(t, err, db.ErrFailedToParseDBConfig)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	insert := "INSERT INTO `users` (`name`, `age`, `id`) VALUES (?, ?, ?)"

	t.Run("commits", func(t *testing.T) {
		t.Parallel()

		pool := openSQLite(t)
		err := db.WithTx(ctx, pool, func(tx *db.Tx) error {
			if _, err := tx.Execute(ctx, insert, []any{"A", 1, "a"}, false); err != nil {
				return err
			}
			_, err := tx.Execute(ctx, insert, []any{"B", 2, "b"}, false)
			return err
		})
		require.NoError(t, err)

		rows, err := pool.Select(ctx, "SELECT `id` FROM `users`", nil, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()

		pool := openSQLite(t)
		boom := errors.New("boom")
		err := db.WithTx(ctx, pool, func(tx *db.Tx) error {
			if _, err := tx.Execute(ctx, insert, []any{"A", 1, "a"}, false); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		rows, err := pool.Select(ctx, "SELECT `id` FROM `users`", nil, 0)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		t.Parallel()

		pool := openSQLite(t)
		require.Panics(t, func() {
			_ = db.WithTx(ctx, pool, func(tx *db.Tx) error {
				_, _ = tx.Execute(ctx, insert, []any{"A", 1, "a"}, false)
				panic("boom")
			})
		})

		rows, err := pool.Select(ctx, "SELECT `id` FROM `users`", nil, 0)
		require.NoError(t, err)
		require.Empty(t, rows)
	})
}

func TestPoolBounds(t *testing.T) {
	t.Parallel()

	single := func(cfg *db.Config) { cfg.MaxConns, cfg.MinConns = 1, 1 }

	t.Run("caller waits for a leased connection until its deadline", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		pool := openSQLite(t, single)

		err := db.WithTx(ctx, pool, func(tx *db.Tx) error {
			_, err := tx.Execute(ctx, "INSERT INTO `users` (`name`, `age`, `id`) VALUES (?, ?, ?)", []any{"Alice", 30, "a"}, false)
			require.NoError(t, err)

			waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			start := time.Now()
			_, err = pool.Select(waitCtx, "SELECT `id` FROM `users`", nil, 0)
			require.ErrorIs(t, err, context.DeadlineExceeded)
			require.ErrorIs(t, err, db.ErrQueryFailed)
			require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
			return nil
		})
		require.NoError(t, err)

		rows, err := pool.Select(ctx, "SELECT `id` FROM `users`", nil, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})

	t.Run("query timeout bounds the wait", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		pool := openSQLite(t, single, func(cfg *db.Config) { cfg.QueryTimeout = 50 * time.Millisecond })

		err := db.WithTx(ctx, pool, func(*db.Tx) error {
			_, err := pool.Execute(ctx, "DELETE FROM `users`", nil, true)
			require.ErrorIs(t, err, context.DeadlineExceeded)
			require.ErrorIs(t, err, db.ErrExecFailed)
			return nil
		})
		require.NoError(t, err)

		_, err = pool.Execute(ctx, "DELETE FROM `users`", nil, true)
		require.NoError(t, err)
	})
}

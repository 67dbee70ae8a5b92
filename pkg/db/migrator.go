package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS, table and dialect in package state.
var gooseMu sync.Mutex

// Migrate applies pending goose migrations found at the root of migrations.
func Migrate(ctx context.Context, pool *Pool, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	b, err := pool.use()
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect(gooseDialect(pool.dialect)); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, b.std(), "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

func gooseDialect(d Dialect) string {
	if d.Name() == DriverSQLite {
		return "sqlite3"
	}
	return d.Name()
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// Log at error level only - goose will return an error that propagates up.
	g.log.Error(fmt.Sprintf(format, args...))
}

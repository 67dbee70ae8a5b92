package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrUnsupportedDriver        = errors.New("db: unsupported driver")
	ErrMissingDSN               = errors.New("db: missing data source name")
	ErrPoolNotInitialized       = errors.New("db: pool is not initialized")
	ErrPoolClosed               = errors.New("db: pool is closed")
	ErrQueryFailed              = errors.New("db: query failed")
	ErrExecFailed               = errors.New("db: statement failed")
	ErrSetDialect               = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations          = errors.New("db migrator: failed to apply migrations")
)

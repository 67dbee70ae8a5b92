package db

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds connection pool parameters.
// Fields are populated from environment variables or a YAML config file.
type Config struct {
	// Driver selects the backend: postgres, mysql or sqlite.
	Driver string `env:"DATABASE_DRIVER" envDefault:"mysql" yaml:"driver"`

	// DSN overrides the individual connection fields when set.
	// For sqlite it is the database file path.
	DSN string `env:"DATABASE_DSN" yaml:"dsn"`

	Host     string `env:"DATABASE_HOST" envDefault:"localhost" yaml:"host"`
	Port     int    `env:"DATABASE_PORT" envDefault:"3306" yaml:"port"`
	User     string `env:"DATABASE_USER" yaml:"user"`
	Password string `env:"DATABASE_PASSWORD" yaml:"password"`
	Database string `env:"DATABASE_NAME" yaml:"db"`
	Charset  string `env:"DATABASE_CHARSET" envDefault:"utf8" yaml:"charset"`

	// Pool bounds. Callers wait for a free connection once MaxConns are leased.
	MinConns int32 `env:"DATABASE_MIN_CONNS" envDefault:"1" yaml:"minsize"`
	MaxConns int32 `env:"DATABASE_MAX_CONNS" envDefault:"10" yaml:"maxsize"`

	// QueryTimeout bounds each Select/Execute, including the wait for a connection.
	// Zero means the caller's context is the only deadline.
	QueryTimeout time.Duration `env:"DATABASE_QUERY_TIMEOUT" envDefault:"0s" yaml:"query_timeout"`

	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m" yaml:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m" yaml:"max_conn_lifetime"`

	// Startup retries with linear backoff.
	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"2s" yaml:"retry_interval"`

	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations" yaml:"migrations_table"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverMySQL,
		Host:            "localhost",
		Port:            3306,
		Charset:         "utf8",
		MinConns:        1,
		MaxConns:        10,
		MaxConnIdleTime: 10 * time.Minute,
		MaxConnLifetime: 30 * time.Minute,
		RetryAttempts:   3,
		RetryInterval:   2 * time.Second,
		MigrationsTable: "schema_migrations",
	}
}

// ConnectionString builds the driver specific DSN.
func (c Config) ConnectionString() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case DriverMySQL:
		charset := c.Charset
		if charset == "" {
			charset = "utf8"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&autocommit=true",
			c.User, c.Password, c.Host, c.Port, c.Database, charset), nil
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   c.Host + ":" + strconv.Itoa(c.Port),
			Path:   "/" + c.Database,
		}
		return u.String(), nil
	case DriverSQLite:
		if c.Database == "" {
			return "", ErrMissingDSN
		}
		return c.Database, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}

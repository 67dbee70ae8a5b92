package db

import (
	"strconv"
	"strings"
)

// Dialect adapts statements written with "?" placeholders and backtick
// quoted identifiers to a concrete database.
type Dialect interface {
	// Name returns the driver name, also used as the goose dialect.
	Name() string

	// Rebind rewrites "?" placeholders into the native marker.
	// Question marks inside single-quoted literals are left alone.
	Rebind(query string) string

	// Limit renders a limit clause and its arguments.
	// Without an offset only count is bound.
	Limit(offset, count int, hasOffset bool) (string, []any)
}

// DialectFor returns the dialect for a driver name.
// Unknown names fall back to MySQL, which needs no rewriting.
func DialectFor(driver string) Dialect {
	switch driver {
	case DriverPostgres:
		return postgresDialect{}
	case DriverSQLite:
		return sqliteDialect{}
	default:
		return mysqlDialect{}
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string               { return DriverMySQL }
func (mysqlDialect) Rebind(query string) string { return query }

func (mysqlDialect) Limit(offset, count int, hasOffset bool) (string, []any) {
	if hasOffset {
		return "LIMIT ?, ?", []any{offset, count}
	}
	return "LIMIT ?", []any{count}
}

type sqliteDialect struct{ mysqlDialect }

func (sqliteDialect) Name() string { return DriverSQLite }

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) Limit(offset, count int, hasOffset bool) (string, []any) {
	if hasOffset {
		return "LIMIT ? OFFSET ?", []any{count, offset}
	}
	return "LIMIT ?", []any{count}
}

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	idx := 1
	inString := false
	for i := range len(query) {
		ch := query[i]
		switch {
		case ch == '\'':
			inString = !inString
			b.WriteByte(ch)
		case inString:
			b.WriteByte(ch)
		case ch == '?':
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(idx))
			idx++
		case ch == '`':
			b.WriteByte('"')
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

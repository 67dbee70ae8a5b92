package orm

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/awesome/pkg/db"
)

// QueryOption refines FindAll, FindNumber and Count.
type QueryOption func(*query)

type query struct {
	where   []string
	args    []any
	orderBy string
	limit   *limitSpec
	err     error
}

type limitSpec struct {
	offset    int
	count     int
	hasOffset bool
}

// Where adds a WHERE clause with "?" placeholders bound to args. Repeated
// clauses are joined with AND, each in parentheses.
func Where(clause string, args ...any) QueryOption {
	return func(q *query) {
		q.where = append(q.where, clause)
		q.args = append(q.args, args...)
	}
}

// OrderBy adds an ORDER BY expression.
func OrderBy(expr string) QueryOption {
	return func(q *query) { q.orderBy = expr }
}

// Limit caps the number of returned rows.
func Limit(n int) QueryOption {
	return func(q *query) {
		if n < 0 {
			q.err = fmt.Errorf("%w: %d", ErrInvalidLimit, n)
			return
		}
		q.limit = &limitSpec{count: n}
	}
}

// LimitOffset skips offset rows and returns at most n.
func LimitOffset(offset, n int) QueryOption {
	return func(q *query) {
		if offset < 0 || n < 0 {
			q.err = fmt.Errorf("%w: (%d, %d)", ErrInvalidLimit, offset, n)
			return
		}
		q.limit = &limitSpec{offset: offset, count: n, hasOffset: true}
	}
}

// A nil option is reported as a malformed limit.
func buildQuery(opts []QueryOption) (*query, error) {
	q := &query{}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrInvalidLimit
		}
		opt(q)
		if q.err != nil {
			return nil, q.err
		}
	}
	return q, nil
}

// render appends the optional clauses to base and returns the final SQL and args.
func (q *query) render(base string, dialect db.Dialect) (string, []any) {
	var b strings.Builder
	b.WriteString(base)
	args := append([]any(nil), q.args...)

	switch len(q.where) {
	case 0:
	case 1:
		b.WriteString(" WHERE ")
		b.WriteString(q.where[0])
	default:
		b.WriteString(" WHERE (")
		b.WriteString(strings.Join(q.where, ") AND ("))
		b.WriteByte(')')
	}
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}
	if q.limit != nil {
		clause, limitArgs := dialect.Limit(q.limit.offset, q.limit.count, q.limit.hasOffset)
		b.WriteByte(' ')
		b.WriteString(clause)
		args = append(args, limitArgs...)
	}
	return b.String(), args
}

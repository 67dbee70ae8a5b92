package orm

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/awesome/pkg/db"
)

// Executor runs statements. *db.Pool and *db.Tx implement it.
type Executor interface {
	Select(ctx context.Context, query string, args []any, limit int) ([]db.Row, error)
	Execute(ctx context.Context, query string, args []any, autocommit bool) (int64, error)
	Dialect() db.Dialect
}

// Find loads the record with the given primary key.
// It returns ErrNotFound when no row matches.
func (m *Model[T]) Find(ctx context.Context, ex Executor, pk any) (*T, error) {
	stmt := fmt.Sprintf("%s WHERE %s=?", m.schema.selectSQL, quote(m.schema.primaryKey.Name))
	rows, err := ex.Select(ctx, stmt, []any{pk}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return m.Hydrate(rows[0])
}

// FindAll loads every record matching the options, in the order the database returns them.
func (m *Model[T]) FindAll(ctx context.Context, ex Executor, opts ...QueryOption) ([]*T, error) {
	q, err := buildQuery(opts)
	if err != nil {
		return nil, err
	}

	stmt, args := q.render(m.schema.selectSQL, ex.Dialect())
	rows, err := ex.Select(ctx, stmt, args, 0)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		rec, err := m.Hydrate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// FindNumber evaluates an aggregate expression such as "count(`id`)" over the table.
// It returns ErrNotFound when the query yields no row.
func (m *Model[T]) FindNumber(ctx context.Context, ex Executor, selectExpr string, opts ...QueryOption) (any, error) {
	q, err := buildQuery(opts)
	if err != nil {
		return nil, err
	}
	q.orderBy, q.limit = "", nil

	base := fmt.Sprintf("SELECT %s _num_ FROM %s", selectExpr, quote(m.schema.table))
	stmt, args := q.render(base, ex.Dialect())
	rows, err := ex.Select(ctx, stmt, args, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0].Values) == 0 {
		return nil, ErrNotFound
	}
	if v, ok := rows[0].Get("_num_"); ok {
		return v, nil
	}
	return rows[0].Values[0], nil
}

// Count returns the number of records matching the options.
func (m *Model[T]) Count(ctx context.Context, ex Executor, opts ...QueryOption) (int64, error) {
	v, err := m.FindNumber(ctx, ex, fmt.Sprintf("count(%s)", quote(m.schema.primaryKey.Name)), opts...)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := assign(reflect.ValueOf(&n).Elem(), v); err != nil {
		return 0, err
	}
	return n, nil
}

// Save inserts rec. Unset fields take their defaults, which are written back to rec.
func (m *Model[T]) Save(ctx context.Context, ex Executor, rec *T) error {
	args := make([]any, 0, len(m.schema.fields)+1)
	for _, f := range m.schema.fields {
		v, err := m.ValueOrDefault(rec, f.Name)
		if err != nil {
			return err
		}
		args = append(args, v)
	}
	pk, err := m.ValueOrDefault(rec, m.schema.primaryKey.Name)
	if err != nil {
		return err
	}
	args = append(args, pk)

	affected, err := ex.Execute(ctx, m.schema.insertSQL, args, true)
	if err != nil {
		return err
	}
	if affected != 1 {
		m.log.WarnContext(ctx, "failed to insert record", slog.String("table", m.schema.table), slog.Int64("affected_rows", affected))
	}
	return nil
}

// Update writes the current field values of rec, matched by primary key.
// Defaults are not applied.
func (m *Model[T]) Update(ctx context.Context, ex Executor, rec *T) error {
	args := make([]any, 0, len(m.schema.fields)+1)
	for _, f := range m.schema.fields {
		v, err := m.value(rec, f.Name)
		if err != nil {
			return err
		}
		args = append(args, v)
	}
	pk, err := m.value(rec, m.schema.primaryKey.Name)
	if err != nil {
		return err
	}
	args = append(args, pk)

	affected, err := ex.Execute(ctx, m.schema.updateSQL, args, true)
	if err != nil {
		return err
	}
	if affected != 1 {
		m.log.WarnContext(ctx, "failed to update by primary key", slog.String("table", m.schema.table), slog.Int64("affected_rows", affected))
	}
	return nil
}

// Remove deletes rec by primary key.
func (m *Model[T]) Remove(ctx context.Context, ex Executor, rec *T) error {
	pk, err := m.value(rec, m.schema.primaryKey.Name)
	if err != nil {
		return err
	}

	affected, err := ex.Execute(ctx, m.schema.deleteSQL, []any{pk}, true)
	if err != nil {
		return err
	}
	if affected != 1 {
		m.log.WarnContext(ctx, "failed to remove by primary key", slog.String("table", m.schema.table), slog.Int64("affected_rows", affected))
	}
	return nil
}

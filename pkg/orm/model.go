package orm

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/dmitrymomot/awesome/pkg/db"
	"github.com/dmitrymomot/awesome/pkg/logger"
)

// Model binds a Schema to the struct type T that holds one row.
// Struct fields are matched to columns by the `orm:"name"` tag, or by the
// snake_case form of the Go field name. The mapping is resolved once.
// Pointer fields map to nullable columns.
type Model[T any] struct {
	schema *Schema
	index  map[string][]int
	log    *slog.Logger
}

// Define creates a model for T. An empty table name is derived from the type name.
func Define[T any](table string, fields ...Field) (*Model[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, typ)
	}
	if table == "" {
		table = TableName(typ.Name())
	}

	schema, err := NewSchema(table, fields...)
	if err != nil {
		return nil, err
	}

	columns := structColumns(typ)
	index := make(map[string][]int, len(fields))
	for _, f := range fields {
		idx, ok := columns[f.Name]
		if !ok {
			return nil, errors.Join(ErrSchema, fmt.Errorf("%w: %s has no field for column %s", ErrUnknownField, typ, f.Name))
		}
		index[f.Name] = idx
	}

	return &Model[T]{schema: schema, index: index, log: logger.NewNope()}, nil
}

// MustDefine is like Define but panics on error.
func MustDefine[T any](table string, fields ...Field) *Model[T] {
	m, err := Define[T](table, fields...)
	if err != nil {
		panic(err)
	}
	return m
}

// WithLogger returns a copy of the model that logs to l.
func (m *Model[T]) WithLogger(l *slog.Logger) *Model[T] {
	cp := *m
	if l != nil {
		cp.log = l
	}
	return &cp
}

// Schema returns the model's table schema.
func (m *Model[T]) Schema() *Schema { return m.schema }

// Get returns the current value of the named field.
func (m *Model[T]) Get(rec *T, name string) (any, error) {
	fv, err := m.field(rec, name)
	if err != nil {
		return nil, err
	}
	return fv.Interface(), nil
}

// Set assigns value to the named field, converting driver types where needed.
func (m *Model[T]) Set(rec *T, name string, value any) error {
	fv, err := m.field(rec, name)
	if err != nil {
		return err
	}
	if err := assign(fv, value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ValueOrDefault returns the column value of a field. When the field is
// unset and has a default, the default is resolved once, written back to the
// record and returned. A plain field is unset at its zero value; a pointer
// field only when nil, so a pointer to false, 0 or "" is stored as given.
func (m *Model[T]) ValueOrDefault(rec *T, name string) (any, error) {
	fv, err := m.field(rec, name)
	if err != nil {
		return nil, err
	}
	if !fv.IsZero() {
		return columnValue(fv), nil
	}

	f, _ := m.schema.Field(name)
	if !f.HasDefault() {
		return columnValue(fv), nil
	}

	def := f.DefaultValue()
	m.log.Debug("using default value", slog.String("field", name), slog.Any("value", def))
	if err := assign(fv, def); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return columnValue(fv), nil
}

// value returns the column value of a field without applying defaults.
func (m *Model[T]) value(rec *T, name string) (any, error) {
	fv, err := m.field(rec, name)
	if err != nil {
		return nil, err
	}
	return columnValue(fv), nil
}

// columnValue dereferences pointer fields; nil becomes NULL.
func columnValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}
		return fv.Elem().Interface()
	}
	return fv.Interface()
}

// Hydrate builds a record from a result row. Columns without a mapped field are ignored.
func (m *Model[T]) Hydrate(row db.Row) (*T, error) {
	rec := new(T)
	rv := reflect.ValueOf(rec).Elem()
	for i, col := range row.Columns {
		idx, ok := m.index[col]
		if !ok {
			continue
		}
		if err := assign(rv.FieldByIndex(idx), row.Values[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", col, err)
		}
	}
	return rec, nil
}

func (m *Model[T]) field(rec *T, name string) (reflect.Value, error) {
	idx, ok := m.index[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return reflect.ValueOf(rec).Elem().FieldByIndex(idx), nil
}

// structColumns maps column names to field indexes of exported fields.
func structColumns(typ reflect.Type) map[string][]int {
	columns := make(map[string][]int, typ.NumField())
	for _, sf := range reflect.VisibleFields(typ) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name := sf.Tag.Get("orm")
		if name == "-" {
			continue
		}
		if name == "" {
			name = CamelToSnake(sf.Name)
		} else {
			name, _, _ = strings.Cut(name, ",")
		}
		if _, dup := columns[name]; !dup {
			columns[name] = sf.Index
		}
	}
	return columns
}

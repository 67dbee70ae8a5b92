package orm

import (
	"errors"
	"fmt"
	"strings"
)

// Schema is the immutable description of a table: its fields, primary key
// and the four SQL templates derived from them.
type Schema struct {
	table      string
	primaryKey Field
	fields     []Field
	byName     map[string]Field
	selectSQL  string
	insertSQL  string
	updateSQL  string
	deleteSQL  string
}

// NewSchema validates fields and builds the SQL templates.
// Exactly one field must be marked as primary key.
func NewSchema(table string, fields ...Field) (*Schema, error) {
	if table == "" {
		return nil, errors.Join(ErrSchema, ErrEmptyTable)
	}

	s := &Schema{table: table, byName: make(map[string]Field, len(fields))}
	var hasPK bool
	for _, f := range fields {
		if _, ok := s.byName[f.Name]; ok {
			return nil, errors.Join(ErrSchema, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name))
		}
		s.byName[f.Name] = f

		if f.PrimaryKey {
			if hasPK {
				return nil, errors.Join(ErrSchema, fmt.Errorf("%w for field %s", ErrDuplicatePrimaryKey, f.Name))
			}
			hasPK = true
			s.primaryKey = f
			continue
		}
		s.fields = append(s.fields, f)
	}
	if !hasPK {
		return nil, errors.Join(ErrSchema, ErrMissingPrimaryKey)
	}

	s.buildTemplates()
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(table string, fields ...Field) *Schema {
	s, err := NewSchema(table, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) buildTemplates() {
	cols := make([]string, len(s.fields))
	assigns := make([]string, len(s.fields))
	for i, f := range s.fields {
		cols[i] = quote(f.Name)
		assigns[i] = quote(f.Name) + "=?"
	}
	pk := quote(s.primaryKey.Name)
	table := quote(s.table)

	s.selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(append([]string{pk}, cols...), ", "), table)
	s.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(append(cols, pk), ", "),
		placeholders(len(cols)+1))
	s.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s=?", table, strings.Join(assigns, ", "), pk)
	s.deleteSQL = fmt.Sprintf("DELETE FROM %s WHERE %s=?", table, pk)
}

func (s *Schema) Table() string     { return s.table }
func (s *Schema) PrimaryKey() Field { return s.primaryKey }
func (s *Schema) SelectSQL() string { return s.selectSQL }
func (s *Schema) InsertSQL() string { return s.insertSQL }
func (s *Schema) UpdateSQL() string { return s.updateSQL }
func (s *Schema) DeleteSQL() string { return s.deleteSQL }

// Fields returns the non-key fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field, primary key included, by name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// CreateTableSQL renders a CREATE TABLE statement from the column types.
func (s *Schema) CreateTableSQL() string {
	defs := make([]string, 0, len(s.fields)+1)
	defs = append(defs, fmt.Sprintf("%s %s NOT NULL PRIMARY KEY", quote(s.primaryKey.Name), s.primaryKey.ColumnType))
	for _, f := range s.fields {
		defs = append(defs, fmt.Sprintf("%s %s", quote(f.Name), f.ColumnType))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(s.table), strings.Join(defs, ", "))
}

func quote(ident string) string {
	return "`" + ident + "`"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

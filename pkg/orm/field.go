package orm

// Field describes one column of a table.
type Field struct {
	// Name is the column name and the key used by Get/Set.
	Name string
	// ColumnType is the DDL token, e.g. "varchar(100)".
	ColumnType string
	PrimaryKey bool
	// Default is a static value or a func() any factory evaluated on each use.
	// A nil Default means the field has none.
	Default any
}

// FieldOption customizes a field built by one of the constructors.
type FieldOption func(*Field)

// PrimaryKey marks the field as the table's primary key.
func PrimaryKey() FieldOption {
	return func(f *Field) { f.PrimaryKey = true }
}

// Default sets a static default or, when v is a func() any, a default factory.
func Default(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

// DDL overrides the column type token.
func DDL(columnType string) FieldOption {
	return func(f *Field) { f.ColumnType = columnType }
}

func newField(name, columnType string, def any, opts []FieldOption) Field {
	f := Field{Name: name, ColumnType: columnType, Default: def}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// StringField is a varchar(100) column without a default.
func StringField(name string, opts ...FieldOption) Field {
	return newField(name, "varchar(100)", nil, opts)
}

// BooleanField is a boolean column defaulting to false.
func BooleanField(name string, opts ...FieldOption) Field {
	return newField(name, "boolean", false, opts)
}

// IntegerField is a bigint column defaulting to 0.
func IntegerField(name string, opts ...FieldOption) Field {
	return newField(name, "bigint", int64(0), opts)
}

// FloatField is a real column defaulting to 0.0.
func FloatField(name string, opts ...FieldOption) Field {
	return newField(name, "real", 0.0, opts)
}

// TextField is a text column without a default.
func TextField(name string, opts ...FieldOption) Field {
	return newField(name, "text", nil, opts)
}

// HasDefault reports whether the field declares a default.
func (f Field) HasDefault() bool { return f.Default != nil }

// DefaultValue resolves the default, calling the factory if there is one.
func (f Field) DefaultValue() any {
	if fn, ok := f.Default.(func() any); ok {
		return fn()
	}
	return f.Default
}

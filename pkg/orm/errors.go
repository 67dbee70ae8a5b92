package orm

import "errors"

var (
	ErrSchema              = errors.New("orm: invalid schema")
	ErrEmptyTable          = errors.New("orm: table name is empty")
	ErrMissingPrimaryKey   = errors.New("orm: primary key not found")
	ErrDuplicatePrimaryKey = errors.New("orm: duplicate primary key")
	ErrDuplicateField      = errors.New("orm: duplicate field")
	ErrNotStruct           = errors.New("orm: model type must be a struct")
	ErrUnknownField        = errors.New("orm: unknown field")
	ErrConvert             = errors.New("orm: cannot convert value")
	ErrInvalidLimit        = errors.New("orm: invalid limit value")
	ErrNotFound            = errors.New("orm: record not found")
)

package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Args holds the bound arguments of an endpoint call.
type Args map[string]any

// Has reports whether name was bound.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the argument in string form, or "" when absent.
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Request returns the request Context injected by WithRequest, or nil.
func (a Args) Request() Context {
	c, _ := a[RequestKey].(Context)
	return c
}

// Arg converts a bound argument to T. Strings and JSON numbers are parsed.
// Returns the zero value and false when absent or not convertible.
func Arg[T ~string | ~int | ~int64 | ~float64 | ~bool](a Args, name string) (T, bool) {
	var zero T
	switch v := a[name].(type) {
	case nil:
		return zero, false
	case T:
		return v, true
	case string:
		return convertParam[T](v)
	case json.Number:
		return convertParam[T](v.String())
	default:
		return convertParam[T](fmt.Sprint(v))
	}
}

// ArgDefault is like Arg but returns defaultValue on failure.
func ArgDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](a Args, name string, defaultValue T) T {
	if v, ok := Arg[T](a, name); ok {
		return v
	}
	return defaultValue
}

// ContextValue returns the value stored under key, or the zero value of T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// PathParam converts a path parameter to T, or returns the zero value.
func PathParam[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := convertParam[T](c.Param(name))
	return v
}

// QueryParam converts a query parameter to T, or returns the zero value.
func QueryParam[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := convertParam[T](c.Query(name))
	return v
}

// convertParam converts a raw string to the target type T.
// Returns the converted value and true on success, or the zero value and false on failure.
func convertParam[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		*p = v
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		*p = v
	default:
		return zero, false
	}
	return zero, true
}

package orm

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var timeType = reflect.TypeFor[time.Time]()

// timeLayouts are tried in order when a driver returns a timestamp as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// assign stores v into fv, converting the loose types drivers return
// (int64 for booleans, []byte for text, text for timestamps).
func assign(fv reflect.Value, v any) error {
	if v == nil {
		fv.SetZero()
		return nil
	}

	if fv.Kind() == reflect.Pointer {
		elem := reflect.New(fv.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			fv.SetZero()
			return nil
		}
		rv = rv.Elem()
	}
	if b, ok := rv.Interface().([]byte); ok && fv.Kind() != reflect.Slice {
		rv = reflect.ValueOf(string(b))
	}

	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}

	if fv.Type() == timeType {
		return assignTime(fv, rv)
	}

	switch fv.Kind() {
	case reflect.Bool:
		return assignBool(fv, rv)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return assignInt(fv, rv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return assignUint(fv, rv)
	case reflect.Float32, reflect.Float64:
		return assignFloat(fv, rv)
	case reflect.String:
		if rv.Kind() == reflect.String {
			fv.SetString(rv.String())
			return nil
		}
		fv.SetString(fmt.Sprint(rv.Interface()))
		return nil
	}

	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return nil
	}
	return mismatch(rv, fv)
}

func assignBool(fv, rv reflect.Value) error {
	switch {
	case rv.Kind() == reflect.Bool:
		fv.SetBool(rv.Bool())
	case rv.CanInt():
		fv.SetBool(rv.Int() != 0)
	case rv.CanUint():
		fv.SetBool(rv.Uint() != 0)
	case rv.Kind() == reflect.String:
		b, err := strconv.ParseBool(rv.String())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
		fv.SetBool(b)
	default:
		return mismatch(rv, fv)
	}
	return nil
}

func assignInt(fv, rv reflect.Value) error {
	switch {
	case rv.CanInt():
		fv.SetInt(rv.Int())
	case rv.CanUint():
		fv.SetInt(int64(rv.Uint()))
	case rv.CanFloat():
		fv.SetInt(int64(rv.Float()))
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			fv.SetInt(1)
		} else {
			fv.SetInt(0)
		}
	case rv.Kind() == reflect.String:
		n, err := strconv.ParseInt(rv.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
		fv.SetInt(n)
	default:
		return mismatch(rv, fv)
	}
	return nil
}

func assignUint(fv, rv reflect.Value) error {
	switch {
	case rv.CanUint():
		fv.SetUint(rv.Uint())
	case rv.CanInt():
		fv.SetUint(uint64(rv.Int()))
	case rv.Kind() == reflect.String:
		n, err := strconv.ParseUint(rv.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
		fv.SetUint(n)
	default:
		return mismatch(rv, fv)
	}
	return nil
}

func assignFloat(fv, rv reflect.Value) error {
	switch {
	case rv.CanFloat():
		fv.SetFloat(rv.Float())
	case rv.CanInt():
		fv.SetFloat(float64(rv.Int()))
	case rv.CanUint():
		fv.SetFloat(float64(rv.Uint()))
	case rv.Kind() == reflect.String:
		f, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
		fv.SetFloat(f)
	default:
		return mismatch(rv, fv)
	}
	return nil
}

func assignTime(fv, rv reflect.Value) error {
	switch {
	case rv.Kind() == reflect.String:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, rv.String()); err == nil {
				fv.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return fmt.Errorf("%w: unrecognized time %q", ErrConvert, rv.String())
	case rv.CanInt():
		fv.Set(reflect.ValueOf(time.Unix(rv.Int(), 0).UTC()))
	case rv.CanFloat():
		sec := rv.Float()
		fv.Set(reflect.ValueOf(time.Unix(int64(sec), int64((sec-float64(int64(sec)))*1e9)).UTC()))
	default:
		return mismatch(rv, fv)
	}
	return nil
}

func mismatch(rv, fv reflect.Value) error {
	return fmt.Errorf("%w: %s to %s", ErrConvert, rv.Type(), fv.Type())
}

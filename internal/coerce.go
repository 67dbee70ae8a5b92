package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"reflect"
	"strings"
)

// Reserved markers recognized by Coerce.
const (
	RedirectPrefix = "redirect:"
	TemplateKey    = "__template__"
	UserKey        = "__user__"
)

// Renderer renders a named template with a data map.
type Renderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}

// Response is a fully formed response produced by Coerce.
// Endpoints may also return one directly.
type Response struct {
	Header      http.Header
	ContentType string
	Location    string
	Body        []byte
	Status      int
}

// ServeHTTP writes the response.
func (r *Response) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for k, values := range r.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	if r.Location != "" {
		http.Redirect(w, req, r.Location, r.Status)
		return
	}
	if r.ContentType != "" {
		w.Header().Set("Content-Type", r.ContentType)
	}
	w.WriteHeader(r.Status)
	if len(r.Body) > 0 && req.Method != http.MethodHead {
		_, _ = w.Write(r.Body)
	}
}

// Coerce maps an endpoint result to a response. Rules apply in order:
//
//  1. *Response and other http.Handler values pass through
//  2. []byte is sent as application/octet-stream
//  3. a string starting with "redirect:" redirects to the rest of the string
//  4. any other string is sent as HTML
//  5. a map holding TemplateKey is rendered through rnd as HTML
//  6. any other map, or a struct, is encoded as JSON
//  7. an integer in [100, 600) is a bare status code
//  8. a two element slice or array starting with such an integer is status plus body text
//  9. anything else is sent as its string form in plain text
//
// A nil result is 204 No Content.
func Coerce(v any, rnd Renderer) (http.Handler, error) {
	switch r := v.(type) {
	case nil:
		return &Response{Status: http.StatusNoContent}, nil
	case http.Handler:
		return r, nil
	case []byte:
		return &Response{Status: http.StatusOK, ContentType: ContentTypeBinary, Body: r}, nil
	case string:
		if target, ok := strings.CutPrefix(r, RedirectPrefix); ok {
			return &Response{Status: http.StatusFound, Location: target}, nil
		}
		return &Response{Status: http.StatusOK, ContentType: ContentTypeHTML, Body: []byte(r)}, nil
	case map[string]any:
		if name, ok := r[TemplateKey]; ok {
			return renderTemplate(rnd, fmt.Sprint(name), r)
		}
		return jsonResponse(http.StatusOK, r)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &Response{Status: http.StatusNoContent}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return jsonResponse(http.StatusOK, v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if code, ok := statusCode(rv); ok {
			return &Response{Status: code}, nil
		}
	case reflect.Slice, reflect.Array:
		if rv.Len() == 2 {
			if code, ok := statusCode(rv.Index(0)); ok {
				body := fmt.Sprint(rv.Index(1).Interface())
				return &Response{Status: code, ContentType: ContentTypeText, Body: []byte(body)}, nil
			}
		}
	}

	return &Response{Status: http.StatusOK, ContentType: ContentTypeText, Body: []byte(fmt.Sprint(v))}, nil
}

// statusCode reports whether rv holds an integer in the HTTP status range.
func statusCode(rv reflect.Value) (int, bool) {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	var n int64
	switch {
	case rv.CanInt():
		n = rv.Int()
	case rv.CanUint():
		if rv.Uint() >= 600 {
			return 0, false
		}
		n = int64(rv.Uint())
	default:
		return 0, false
	}
	if n < 100 || n >= 600 {
		return 0, false
	}
	return int(n), true
}

func renderTemplate(rnd Renderer, name string, data map[string]any) (http.Handler, error) {
	if rnd == nil {
		return nil, ErrNoRenderer
	}
	var buf bytes.Buffer
	if err := rnd.Render(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return &Response{Status: http.StatusOK, ContentType: ContentTypeHTML, Body: buf.Bytes()}, nil
}

func jsonResponse(status int, v any) (http.Handler, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return &Response{
		Status:      status,
		ContentType: ContentTypeJSON,
		Body:        bytes.TrimSuffix(buf.Bytes(), []byte("\n")),
	}, nil
}

// withUser returns a copy of a template map carrying the current identity.
func withUser(data map[string]any, c Context) map[string]any {
	out := maps.Clone(data)
	if u := c.User(); u != nil {
		out[UserKey] = u
	} else {
		out[UserKey] = nil
	}
	return out
}

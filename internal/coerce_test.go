package internal_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/internal"
)

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(w io.Writer, name string, data map[string]any) error {
	if r.err != nil {
		return r.err
	}
	_, err := fmt.Fprintf(w, "<%s title=%v>", name, data["title"])
	return err
}

func serve(t *testing.T, h http.Handler, method string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
	return rec
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	type blog struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	tests := []struct {
		name        string
		value       any
		status      int
		contentType string
		body        string
		location    string
	}{
		{name: "nil", value: nil, status: http.StatusNoContent},
		{name: "nil pointer", value: (*blog)(nil), status: http.StatusNoContent},
		{name: "bytes", value: []byte{1, 2}, status: http.StatusOK, contentType: internal.ContentTypeBinary, body: "\x01\x02"},
		{name: "redirect", value: "redirect:/signin", status: http.StatusFound, location: "/signin"},
		{name: "html", value: "<p>hi</p>", status: http.StatusOK, contentType: internal.ContentTypeHTML, body: "<p>hi</p>"},
		{name: "map", value: map[string]any{"a": 1}, status: http.StatusOK, contentType: internal.ContentTypeJSON, body: `{"a":1}`},
		{name: "typed map", value: map[string]int{"b": 2}, status: http.StatusOK, contentType: internal.ContentTypeJSON, body: `{"b":2}`},
		{name: "struct", value: blog{ID: "1", Name: "go & web"}, status: http.StatusOK, contentType: internal.ContentTypeJSON, body: `{"id":"1","name":"go & web"}`},
		{name: "struct pointer", value: &blog{ID: "2"}, status: http.StatusOK, contentType: internal.ContentTypeJSON, body: `{"id":"2","name":""}`},
		{name: "status code", value: 201, status: http.StatusCreated},
		{name: "unsigned status code", value: uint16(404), status: http.StatusNotFound},
		{name: "status and body", value: []any{403, "nope"}, status: http.StatusForbidden, contentType: internal.ContentTypeText, body: "nope"},
		{name: "status and body array", value: [2]any{418, 1}, status: http.StatusTeapot, contentType: internal.ContentTypeText, body: "1"},
		{name: "int out of range", value: 42, status: http.StatusOK, contentType: internal.ContentTypeText, body: "42"},
		{name: "long slice", value: []int{200, 1, 2}, status: http.StatusOK, contentType: internal.ContentTypeText, body: "[200 1 2]"},
		{name: "float", value: 1.5, status: http.StatusOK, contentType: internal.ContentTypeText, body: "1.5"},
		{name: "bool", value: true, status: http.StatusOK, contentType: internal.ContentTypeText, body: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := internal.Coerce(tt.value, nil)
			require.NoError(t, err)

			rec := serve(t, h, http.MethodGet)
			require.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				require.Equal(t, tt.location, rec.Header().Get("Location"))
				return
			}
			require.Equal(t, tt.body, rec.Body.String())
			if tt.contentType != "" {
				require.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
		})
	}

	t.Run("handler passes through", func(t *testing.T) {
		t.Parallel()
		resp := &internal.Response{Status: http.StatusAccepted, Header: http.Header{"X-Test": {"1"}}}
		h, err := internal.Coerce(resp, nil)
		require.NoError(t, err)
		require.Same(t, resp, h)

		rec := serve(t, h, http.MethodGet)
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, "1", rec.Header().Get("X-Test"))
	})

	t.Run("head omits body", func(t *testing.T) {
		t.Parallel()
		h, err := internal.Coerce("body", nil)
		require.NoError(t, err)
		rec := serve(t, h, http.MethodHead)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Body.String())
	})

	t.Run("template", func(t *testing.T) {
		t.Parallel()
		h, err := internal.Coerce(map[string]any{internal.TemplateKey: "index.html", "title": "Home"}, stubRenderer{})
		require.NoError(t, err)
		rec := serve(t, h, http.MethodGet)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, internal.ContentTypeHTML, rec.Header().Get("Content-Type"))
		require.Equal(t, "<index.html title=Home>", rec.Body.String())
	})

	t.Run("template without renderer", func(t *testing.T) {
		t.Parallel()
		_, err := internal.Coerce(map[string]any{internal.TemplateKey: "index.html"}, nil)
		require.ErrorIs(t, err, internal.ErrNoRenderer)
	})

	t.Run("template render error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := internal.Coerce(map[string]any{internal.TemplateKey: "x.html"}, stubRenderer{err: boom})
		require.ErrorIs(t, err, boom)
	})

	t.Run("unencodable json", func(t *testing.T) {
		t.Parallel()
		_, err := internal.Coerce(map[string]any{"ch": make(chan int)}, nil)
		require.Error(t, err)
	})
}

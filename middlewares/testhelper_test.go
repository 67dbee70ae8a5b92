package middlewares_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/awesome/internal"
	"github.com/dmitrymomot/awesome/pkg/logger"
	"github.com/dmitrymomot/awesome/pkg/session"
)

type testContext struct {
	response *internal.ResponseWriter
	request  *http.Request
	values   map[any]any
	user     *session.Principal
	log      *slog.Logger
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: internal.NewResponseWriter(w),
		request:  r,
		values:   make(map[any]any),
		log:      logger.NewNope(),
	}
}

func (c *testContext) Request() *http.Request                   { return c.request }
func (c *testContext) Response() http.ResponseWriter            { return c.response }
func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context                 { return c.request.Context() }
func (c *testContext) Param(name string) string                 { return chi.URLParam(c.request, name) }
func (c *testContext) Params() map[string]string                { return map[string]string{} }
func (c *testContext) Query(name string) string                 { return c.request.URL.Query().Get(name) }
func (c *testContext) Header(name string) string                { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)             { c.response.Header().Set(name, value) }
func (c *testContext) Body() (map[string]any, error)            { return internal.ParseBody(c.request, 1<<20) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", internal.ContentTypeJSON)
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) HTML(code int, s string) error { return c.String(code, s) }
func (c *testContext) NoContent(code int) error      { c.response.WriteHeader(code); return nil }

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Render(code int, name string, data map[string]any) error {
	return internal.ErrNoRenderer
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func (c *testContext) Written() bool                     { return c.response.Written() }
func (c *testContext) Logger() *slog.Logger              { return c.log }
func (c *testContext) LogDebug(msg string, attrs ...any) { c.log.Debug(msg, attrs...) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.log.Info(msg, attrs...) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.log.Warn(msg, attrs...) }
func (c *testContext) LogError(msg string, attrs ...any) { c.log.Error(msg, attrs...) }

func (c *testContext) Set(key, value any) {
	c.values[key] = value
	// Also store in request context for context extractors
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any {
	return c.values[key]
}

func (c *testContext) Cookie(name string) (string, error) {
	cookie, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c *testContext) SetCookie(name, value string, maxAge int) {
	http.SetCookie(c.response, &http.Cookie{Name: name, Value: value, MaxAge: maxAge})
}

func (c *testContext) DeleteCookie(name string) {
	http.SetCookie(c.response, &http.Cookie{Name: name, MaxAge: -1})
}

func (c *testContext) User() *session.Principal     { return c.user }
func (c *testContext) SetUser(p *session.Principal) { c.user = p }
func (c *testContext) IsAuthenticated() bool        { return c.user != nil }
func (c *testContext) IsAdmin() bool                { return c.user != nil && c.user.Admin }
func (c *testContext) Deadline() (time.Time, bool)  { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}        { return c.request.Context().Done() }
func (c *testContext) Err() error                   { return c.request.Context().Err() }
func (c *testContext) Value(key any) any            { return c.request.Context().Value(key) }

var _ internal.Context = (*testContext)(nil)

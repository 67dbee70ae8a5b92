package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/awesome/pkg/cookie"
	"github.com/dmitrymomot/awesome/pkg/session"
)

// Context provides request-scoped data and response helpers.
// It is passed to every HandlerFunc and Middleware, and to endpoints as
// their context.Context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// ResponseWriter returns the tracking response wrapper.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a matched path parameter.
	Param(name string) string

	// Params returns every matched path parameter.
	Params() map[string]string

	// Query returns the first value of a query parameter.
	Query(name string) string

	// QueryDefault returns a query parameter or the default when empty.
	QueryDefault(name, defaultValue string) string

	// Header returns a request header value.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Body parses the request body once and returns it as a flat map.
	// See ParseBody for the accepted content types.
	Body() (map[string]any, error)

	// JSON writes v as JSON with the given status code.
	JSON(code int, v any) error

	// String writes plain text with the given status code.
	String(code int, s string) error

	// HTML writes an HTML string with the given status code.
	HTML(code int, s string) error

	// NoContent writes only the status code.
	NoContent(code int) error

	// Redirect sends a redirect to url.
	Redirect(code int, url string) error

	// Render executes a named template through the app renderer.
	Render(code int, name string, data map[string]any) error

	// Error creates an HTTPError for returning from handlers.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written reports whether the response has been started.
	Written() bool

	// Logger returns the app logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a request-scoped value visible to later middleware and handlers.
	Set(key, value any)

	// Get retrieves a request-scoped value.
	Get(key any) any

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)

	// User returns the identity resolved by the session stage, or nil.
	User() *session.Principal

	// SetUser records the identity for the rest of the request.
	SetUser(p *session.Principal)

	// IsAuthenticated reports whether a user identity is present.
	IsAuthenticated() bool

	// IsAdmin reports whether the identity has admin rights.
	IsAdmin() bool
}

type stateKey struct{}

// requestState is shared by every Context created for the same request.
type requestState struct {
	mu         sync.Mutex
	bodyParsed bool
	body       map[string]any
	bodyErr    error
	user       *session.Principal
}

// requestContext implements the Context interface.
type requestContext struct {
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	state          *requestState
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	renderer       Renderer
	maxBodySize    int64
}

// newContext creates a context for the request, reusing the response wrapper
// and request state installed by an outer middleware.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	st, ok := r.Context().Value(stateKey{}).(*requestState)
	if !ok {
		st = &requestState{}
		r = r.WithContext(context.WithValue(r.Context(), stateKey{}, st))
	}

	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}

	return &requestContext{
		request:        r,
		response:       rw,
		responseWriter: rw,
		state:          st,
		logger:         app.logger,
		cookieManager:  app.cookieManager,
		renderer:       app.renderer,
		maxBodySize:    app.maxBodySize,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Params() map[string]string {
	rctx := chi.RouteContext(c.request.Context())
	if rctx == nil {
		return map[string]string{}
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		// Mounted sub-routers add a "*" wildcard key.
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) Body() (map[string]any, error) {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.bodyParsed {
		st.body, st.bodyErr = ParseBody(c.request, c.maxBodySize)
		st.bodyParsed = true
	}
	return st.body, st.bodyErr
}

func (c *requestContext) JSON(code int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	c.response.Header().Set("Content-Type", ContentTypeJSON)
	c.response.WriteHeader(code)
	_, err := c.response.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", ContentTypeText)
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) HTML(code int, s string) error {
	c.response.Header().Set("Content-Type", ContentTypeHTML)
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Render(code int, name string, data map[string]any) error {
	if c.renderer == nil {
		return ErrNoRenderer
	}
	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, name, data); err != nil {
		return err
	}
	return c.HTML(code, buf.String())
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookieManager.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookieManager.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookieManager.Delete(c.response, name)
}

func (c *requestContext) User() *session.Principal {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.user
}

func (c *requestContext) SetUser(p *session.Principal) {
	c.state.mu.Lock()
	c.state.user = p
	c.state.mu.Unlock()

	if p != nil {
		// Expose the id to logger context extractors.
		c.Set(userIDKey{}, p.ID)
	}
}

func (c *requestContext) IsAuthenticated() bool {
	return c.User() != nil
}

func (c *requestContext) IsAdmin() bool {
	u := c.User()
	return u != nil && u.Admin
}

type userIDKey struct{}

// UserIDFromContext returns the signed-in user id stored by SetUser.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

package awesome

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/awesome/internal"
	"github.com/dmitrymomot/awesome/pkg/cookie"
	"github.com/dmitrymomot/awesome/pkg/logger"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// Endpoint is the signature of a routed function: bound arguments in,
	// a result to coerce into a response out.
	Endpoint = internal.Endpoint

	// Args holds the bound arguments of an endpoint call.
	Args = internal.Args

	// Param is one entry of an endpoint's parameter specification.
	Param = internal.Param

	// ParamOption customizes a keyword parameter.
	ParamOption = internal.ParamOption

	// HandlerFunc is the signature for low-level handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CheckFunc is a readiness probe.
	CheckFunc = internal.CheckFunc

	// Renderer renders named templates for results carrying "__template__".
	Renderer = internal.Renderer

	// Response is a fully formed response. Endpoints may return one directly.
	Response = internal.Response

	// ResponseWriter wraps http.ResponseWriter with write tracking and hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is a transport error with a status code and message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// APIError is a domain error rendered as the JSON error envelope.
	APIError = internal.APIError

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option
)

// Reserved names understood by the dispatcher.
const (
	// RequestKey is the argument name the request Context is bound to.
	RequestKey = internal.RequestKey

	// TemplateKey selects the template of a map result.
	TemplateKey = internal.TemplateKey

	// UserKey carries the signed-in user into template data.
	UserKey = internal.UserKey

	// RedirectPrefix marks a string result as a redirect.
	RedirectPrefix = internal.RedirectPrefix
)

// APIError kinds.
const (
	KindValueInvalid        = internal.KindValueInvalid
	KindValueNotFound       = internal.KindValueNotFound
	KindValueConflict       = internal.KindValueConflict
	KindPermissionForbidden = internal.KindPermissionForbidden
)

// Route declaration errors.
var (
	ErrNilEndpoint     = internal.ErrNilEndpoint
	ErrPositionalParam = internal.ErrPositionalParam
	ErrRequestNotLast  = internal.ErrRequestNotLast
	ErrDuplicateParam  = internal.ErrDuplicateParam
	ErrReservedParam   = internal.ErrReservedParam
	ErrNoRenderer      = internal.ErrNoRenderer
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := awesome.New(
//	    awesome.WithMiddleware(middlewares.Logger()),
//	    awesome.WithRenderer(templates),
//	    awesome.WithHandlers(blog.NewHandler(pool, codec)),
//	)
//
//	err := app.Run(":9000", awesome.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Parameter specification

// Required declares a keyword parameter that must be present.
// A request without it is answered with 400 "missing argument <name>".
func Required(name string, opts ...ParamOption) Param {
	return internal.Required(name, opts...)
}

// Optional declares a keyword parameter that falls back to def when absent.
func Optional(name string, def any, opts ...ParamOption) Param {
	return internal.Optional(name, def, opts...)
}

// Extra keeps every request key, not only the declared ones.
func Extra() Param {
	return internal.Extra()
}

// WithRequest binds the request Context under RequestKey.
func WithRequest() Param {
	return internal.WithRequest()
}

// Positional declares a positional parameter. Routes reject it at registration.
func Positional(name string) Param {
	return internal.Positional(name)
}

// InPath accepts the parameter only from the matched path.
func InPath() ParamOption { return internal.InPath() }

// InQuery accepts the parameter only from the query string.
func InQuery() ParamOption { return internal.InQuery() }

// InBody accepts the parameter only from the request body.
func InBody() ParamOption { return internal.InBody() }

// Arg converts a bound argument to T.
//
// Example:
//
//	page := awesome.ArgDefault(args, "page", 1)
//	id, ok := awesome.Arg[string](args, "id")
func Arg[T ~string | ~int | ~int64 | ~float64 | ~bool](a Args, name string) (T, bool) {
	return internal.Arg[T](a, name)
}

// ArgDefault is like Arg but returns defaultValue when the argument is
// absent or not convertible.
func ArgDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](a Args, name string, defaultValue T) T {
	return internal.ArgDefault(a, name, defaultValue)
}

// Coerce maps an endpoint result to an http.Handler.
func Coerce(v any, rnd Renderer) (http.Handler, error) {
	return internal.Coerce(v, rnd)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRenderer sets the renderer for template results.
func WithRenderer(r Renderer) Option {
	return internal.WithRenderer(r)
}

// WithMaxBodySize limits how many bytes of a request body are parsed.
func WithMaxBodySize(n int64) Option {
	return internal.WithMaxBodySize(n)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed static
//	var assets embed.FS
//
//	awesome.New(
//	    awesome.WithStaticFiles("/static/", assets, "static"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	awesome.WithHealthChecks(
//	    awesome.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
func WithLogger(component string, cfg logger.Config, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, cfg, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	awesome.WithCookieOptions(cookie.WithSecure(true))
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address, overriding the one passed to Run.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run during server startup.
// Hooks are called in the order they were registered, after the port is bound.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
//
// Example:
//
//	awesome.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// UserIDFromContext returns the id of the signed-in user, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	return internal.UserIDFromContext(ctx)
}

// Errors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain, or returns nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// NewAPIError creates an APIError of an arbitrary kind.
func NewAPIError(kind, data, message string) *APIError {
	return internal.NewAPIError(kind, data, message)
}

// ValueError reports invalid input for field (400).
func ValueError(field, message string) *APIError {
	return internal.ValueError(field, message)
}

// NotFoundError reports a missing resource (404).
func NotFoundError(field, message string) *APIError {
	return internal.NotFoundError(field, message)
}

// ConflictError reports a uniqueness or state conflict (409).
func ConflictError(field, message string) *APIError {
	return internal.ConflictError(field, message)
}

// PermissionError reports a forbidden action (403).
func PermissionError(message string) *APIError {
	return internal.PermissionError(message)
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	return internal.AsAPIError(err)
}

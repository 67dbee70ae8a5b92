package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router is the interface handlers use to declare routes.
// It provides HTTP method routing and grouping capabilities.
//
// Endpoint registration panics when the parameter specification is invalid,
// so a bad declaration fails at startup rather than at request time.
type Router interface {
	// GET registers an endpoint for GET requests.
	GET(path string, e Endpoint, params ...Param)

	// POST registers an endpoint for POST requests.
	POST(path string, e Endpoint, params ...Param)

	// PUT registers an endpoint for PUT requests.
	PUT(path string, e Endpoint, params ...Param)

	// PATCH registers an endpoint for PATCH requests.
	PATCH(path string, e Endpoint, params ...Param)

	// DELETE registers an endpoint for DELETE requests.
	DELETE(path string, e Endpoint, params ...Param)

	// Handle registers a low-level handler with optional route middleware.
	Handle(method, path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline route group.
	// All routes defined inside fn share no common pattern prefix.
	Group(fn func(r Router))

	// Route creates a route group with a pattern prefix.
	// All routes defined inside fn share the pattern prefix.
	Route(pattern string, fn func(r Router))

	// Use appends middleware to the router's middleware stack.
	Use(mw ...Middleware)

	// Mount attaches an http.Handler at the given pattern.
	Mount(pattern string, h http.Handler)
}

// routerAdapter wraps chi.Router to implement the Router interface.
type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, e Endpoint, params ...Param) {
	r.endpoint(http.MethodGet, path, e, params)
}

func (r *routerAdapter) POST(path string, e Endpoint, params ...Param) {
	r.endpoint(http.MethodPost, path, e, params)
}

func (r *routerAdapter) PUT(path string, e Endpoint, params ...Param) {
	r.endpoint(http.MethodPut, path, e, params)
}

func (r *routerAdapter) PATCH(path string, e Endpoint, params ...Param) {
	r.endpoint(http.MethodPatch, path, e, params)
}

func (r *routerAdapter) DELETE(path string, e Endpoint, params ...Param) {
	r.endpoint(http.MethodDelete, path, e, params)
}

func (r *routerAdapter) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	r.router.Method(method, path, r.wrap(h, mw...))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) endpoint(method, path string, e Endpoint, params []Param) {
	rt, err := NewRoute(method, path, e, params...)
	if err != nil {
		panic(err)
	}
	r.app.logger.Debug("add route", "method", rt.Method, "path", rt.Pattern)
	r.router.Method(rt.Method, rt.Pattern, r.adaptHandler(r.app.dispatch(rt)))
}

func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	// Apply route-specific middleware in reverse order (last registered = first executed)
	mw = slices.Clone(mw)
	slices.Reverse(mw)
	for _, m := range mw {
		h = m(h)
	}
	return r.adaptHandler(h)
}

func (r *routerAdapter) adaptHandler(h HandlerFunc) http.HandlerFunc {
	return r.app.wrapHandler(h)
}

// dispatch binds arguments, invokes the endpoint and writes the coerced result.
// APIErrors become the JSON error envelope here; other errors go to the error handler.
func (a *App) dispatch(rt *Route) HandlerFunc {
	return func(c Context) error {
		args, err := rt.Bind(c)
		if err != nil {
			return err
		}

		result, err := rt.endpoint(c, args)
		if err != nil {
			apiErr, ok := AsAPIError(err)
			if !ok {
				return err
			}
			c.LogInfo("api error", "kind", apiErr.Kind, "data", apiErr.Data)
			return c.JSON(apiErr.Status(), ErrorEnvelope(apiErr))
		}

		if m, ok := result.(map[string]any); ok {
			if _, tmpl := m[TemplateKey]; tmpl {
				result = withUser(m, c)
			}
		}

		resp, err := Coerce(result, a.renderer)
		if err != nil {
			return err
		}
		resp.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// adaptMiddleware converts a Middleware to chi middleware.
// The Context built for the middleware shares request state with the one
// built later for the handler, so values set by middleware stay visible.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextFunc := func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			}
			wrapped := mw(nextFunc)
			c := newContext(w, r, a)
			if err := wrapped(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}

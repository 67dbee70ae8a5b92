package internal

import "context"

// Handler declares routes on a router.
//
// Example:
//
//	type BlogHandler struct {
//	    pool *db.Pool
//	}
//
//	func (h *BlogHandler) Routes(r awesome.Router) {
//	    r.GET("/blog/{id}", h.get, awesome.Required("id"))
//	    r.POST("/api/blogs", h.create, awesome.Required("name"), awesome.Required("content"), awesome.WithRequest())
//	}
type Handler interface {
	Routes(r Router)
}

// Endpoint is the signature for route endpoints.
// It receives the request context and the bound arguments and returns a value
// that is turned into a response by Coerce. Returning an *APIError produces the
// JSON error envelope; any other error is passed to the app's error handler.
type Endpoint func(ctx context.Context, args Args) (any, error)

// HandlerFunc is the signature for low-level handlers and middleware targets.
// It receives a Context and returns an error.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func Auth(next awesome.HandlerFunc) awesome.HandlerFunc {
//	    return func(c awesome.Context) error {
//	        if !c.IsAuthenticated() {
//	            return c.Redirect(302, "/signin")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error

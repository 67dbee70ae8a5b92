// Package internal provides the core web layer of awesome: the App, its
// router, the request Context, the argument binder and response coercion.
//
// Import "github.com/dmitrymomot/awesome" instead, which re-exports the
// public API.
//
// # Endpoints
//
// An Endpoint is a plain function of a context and bound arguments. The
// route declares which arguments it takes and where they may come from:
//
//	r.GET("/blog/{id}", h.show, internal.Required("id", internal.InPath()))
//	r.POST("/blog", h.create,
//	    internal.Required("title"),
//	    internal.Optional("public", false),
//	    internal.WithRequest(),
//	)
//
// Arguments are collected from path parameters, then the query string (GET,
// HEAD, DELETE) or the parsed body (POST, PUT, PATCH). Missing required
// arguments answer 400 before the endpoint runs.
//
// # Results
//
// The endpoint result is turned into a response by Coerce: strings are HTML,
// "redirect:/path" redirects, maps and structs are JSON, a map holding
// "__template__" is rendered through the configured Renderer, and an integer
// status or a [status, body] pair is sent as is. Returning an *APIError
// produces a JSON error envelope:
//
//	{"error": "value:invalid", "data": "title", "message": "required"}
//
// # Handlers
//
// Handlers group related routes and receive dependencies by constructor:
//
//	type BlogHandler struct{ db *db.Pool }
//
//	func (h *BlogHandler) Routes(r internal.Router) {
//	    r.GET("/blogs", h.list)
//	}
//
// Raw HandlerFunc routes are available through Router.Handle for cases where
// an endpoint needs full control over the response.
//
// # Middleware
//
// Middleware wraps HandlerFunc values and runs in registration order. Every
// Context built for the same request shares the parsed body and the signed-in
// user, so a middleware that calls SetUser is visible to the endpoint.
//
// # Health
//
// WithHealthChecks mounts /health/live and /health/ready. Readiness checks run
// in parallel and answer 503 if any of them fails.
package internal

// Package awesome provides a small web framework that routes HTTP requests
// to plain functions and a record layer over SQL databases.
//
// Endpoints do not touch the request. They declare which arguments they
// take, receive them already bound, and return a value that the dispatcher
// turns into a response.
//
// # Quick Start
//
//	app := awesome.New(
//	    awesome.WithMiddleware(middlewares.Logger(), middlewares.Body()),
//	    awesome.WithRenderer(templates),
//	    awesome.WithHandlers(blog.NewHandler(pool, codec)),
//	)
//
//	if err := app.Run(":9000", awesome.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes. Each route
// names its parameters once, at registration:
//
//	func (h *BlogHandler) Routes(r awesome.Router) {
//	    r.GET("/api/blogs/{id}", h.get, awesome.Required("id"))
//	    r.GET("/api/blogs", h.list, awesome.Optional("page", 1))
//	    r.POST("/api/blogs", h.create,
//	        awesome.Required("name"),
//	        awesome.Required("content"),
//	        awesome.WithRequest(),
//	    )
//	}
//
// GET, HEAD and DELETE read arguments from the query string. POST, PUT and
// PATCH read them from a JSON, urlencoded or multipart body. Path parameters
// are always bound and win over the other sources.
//
// # Results
//
// An endpoint returns any value:
//
//   - a string is HTML, unless it starts with "redirect:"
//   - a map with "__template__" renders that template with the map as data
//   - any other map or struct is JSON
//   - an integer in [100, 600) is a bare status code
//   - []any{code, text} is a status code with a plain text body
//   - []byte is a binary download
//
// Returning an [*APIError] produces {"error": kind, "data": field, "message": text}.
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns. The middlewares
// package holds the stock stages: request id, panic recovery, logging,
// metrics, session, admin guard and body parsing.
//
// # Shutdown
//
// The application handles SIGINT/SIGTERM for graceful shutdown.
// Register cleanup functions with ShutdownHook:
//
//	app.Run(":9000", awesome.ShutdownHook(db.Shutdown(pool)))
package awesome

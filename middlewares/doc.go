// Package middlewares provides the request pipeline stages for awesome
// applications.
//
// The blog server installs them in this order:
//
//	app := awesome.New(
//	    awesome.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.Logger(),
//	        metrics.Middleware(),
//	        middlewares.Session(codec),
//	        middlewares.Guard("/manage/", "/signin"),
//	        middlewares.Body(),
//	    ),
//	)
//
// # Logger
//
// Logger writes one record when a request starts and one when it ends,
// with status, size and duration. Pair it with RequestIDExtractor and
// UserIDExtractor on the app logger to tag every record.
//
// # Session and Guard
//
// Session reads the session cookie and resolves it through a
// session.Codec. Requests without a valid token continue anonymously.
// Guard sends anyone who is not an admin from an admin prefix to the
// sign-in page.
//
// # Body
//
// Body parses POST bodies up front. A body with a missing or unsupported
// content type, or JSON that is not an object, is answered with 400.
//
// # Recover and Timeout
//
// Recover converts panics to *PanicError and Timeout returns *TimeoutError.
// Both report a status code that the app error handler uses (500 and 503).
// The handler goroutine keeps running after a timeout. Use
// TimeoutContext(ctx).Done() for early termination.
//
// # Metrics
//
// NewMetrics registers Prometheus collectors and Handler exposes them:
//
//	metrics, err := middlewares.NewMetrics(prometheus.DefaultRegisterer, "awesome")
//	r.Mount("/metrics", middlewares.Handler(prometheus.DefaultGatherer))
package middlewares

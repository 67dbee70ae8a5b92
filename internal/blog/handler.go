package blog

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/pkg/db"
	"github.com/dmitrymomot/awesome/pkg/logger"
	"github.com/dmitrymomot/awesome/pkg/session"
)

const defaultPageSize = 10

// Handler serves the blog pages and its JSON API.
type Handler struct {
	pool     *db.Pool
	codec    *session.Codec
	now      func() time.Time
	log      *slog.Logger
	pageSize int
}

// Option configures the Handler.
type Option func(*Handler)

// WithClock overrides the time source used for created_at values.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithPageSize sets the number of items per page. Default: 10.
func WithPageSize(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.pageSize = n
		}
	}
}

// NewHandler creates the blog handler. codec issues the session cookie on
// sign-in and registration.
func NewHandler(pool *db.Pool, codec *session.Codec, opts ...Option) *Handler {
	h := &Handler{
		pool:     pool,
		codec:    codec,
		now:      time.Now,
		log:      logger.NewNope(),
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes declares all routes for the blog handler.
// Implements the awesome.Handler interface.
func (h *Handler) Routes(r awesome.Router) {
	r.GET("/", h.index, awesome.Optional("page", 1))
	r.GET("/blog/{id}", h.blogPage, awesome.Required("id"))
	r.GET("/register", h.page("register.html"))
	r.GET("/signin", h.page("signin.html"))
	r.GET("/signout", h.signout, awesome.WithRequest())

	r.GET("/manage/", h.manage)
	r.GET("/manage/blogs", h.manageBlogs, awesome.Optional("page", 1))
	r.GET("/manage/blogs/create", h.manageBlogCreate)
	r.GET("/manage/blogs/edit", h.manageBlogEdit, awesome.Required("id", awesome.InQuery()))
	r.GET("/manage/comments", h.manageComments, awesome.Optional("page", 1))
	r.GET("/manage/users", h.manageUsers, awesome.Optional("page", 1))

	r.Route("/api", func(r awesome.Router) {
		r.POST("/authenticate", h.authenticate,
			awesome.Required("email"),
			awesome.Required("passwd"),
			awesome.WithRequest(),
		)

		r.GET("/users", h.listUsers, awesome.Optional("page", 1))
		r.POST("/users", h.register,
			awesome.Required("email"),
			awesome.Required("name"),
			awesome.Required("passwd"),
			awesome.WithRequest(),
		)

		r.GET("/blogs", h.listBlogs, awesome.Optional("page", 1))
		r.GET("/blogs/{id}", h.getBlog, awesome.Required("id"))
		r.POST("/blogs", h.createBlog,
			awesome.Required("name"),
			awesome.Required("summary"),
			awesome.Required("content"),
			awesome.WithRequest(),
		)
		r.PUT("/blogs/{id}", h.updateBlog,
			awesome.Required("id"),
			awesome.Required("name"),
			awesome.Required("summary"),
			awesome.Required("content"),
			awesome.WithRequest(),
		)
		r.DELETE("/blogs/{id}", h.deleteBlog, awesome.Required("id"), awesome.WithRequest())

		r.GET("/comments", h.listComments, awesome.Optional("page", 1))
		r.POST("/blogs/{id}/comments", h.createComment,
			awesome.Required("id"),
			awesome.Required("content"),
			awesome.WithRequest(),
		)
		r.DELETE("/comments/{id}", h.deleteComment, awesome.Required("id"), awesome.WithRequest())
	})
}

func (h *Handler) timestamp() float64 {
	return unixSeconds(h.now())
}

// requireAdmin fails with a permission error unless the caller is an admin.
func requireAdmin(args awesome.Args) error {
	c := args.Request()
	if c == nil || !c.IsAdmin() {
		return awesome.PermissionError("")
	}
	return nil
}

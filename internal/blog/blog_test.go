package blog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/internal/blog"
	"github.com/dmitrymomot/awesome/middlewares"
	"github.com/dmitrymomot/awesome/pkg/db"
	"github.com/dmitrymomot/awesome/pkg/id"
	"github.com/dmitrymomot/awesome/pkg/logger"
	"github.com/dmitrymomot/awesome/pkg/render"
	"github.com/dmitrymomot/awesome/pkg/session"
)

// clientPasswd is what a browser would send: sha1(email:password) in hex.
var clientPasswd = strings.Repeat("ab", 20)

type env struct {
	pool  *db.Pool
	codec *session.Codec
	app   *awesome.App
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	cfg := db.DefaultConfig()
	cfg.Driver = db.DriverSQLite
	cfg.Database = filepath.Join(t.TempDir(), "blog.db")
	cfg.RetryAttempts = 1

	pool, err := db.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool, blog.Migrations(), cfg.MigrationsTable, logger.NewNope()))

	codec := session.NewCodec("test-key", blog.LookupUser(pool))
	tmpl, err := blog.Templates()
	require.NoError(t, err)

	app := awesome.New(
		awesome.WithMiddleware(
			middlewares.Session(codec),
			middlewares.Guard("/manage/", "/signin"),
			middlewares.Body(),
		),
		awesome.WithRenderer(render.Chain{tmpl, blog.Components()}),
		awesome.WithHandlers(blog.NewHandler(pool, codec, blog.WithPageSize(2))),
		awesome.WithNotFoundHandler(blog.NotFound),
	)
	return &env{pool: pool, codec: codec, app: app}
}

func (e *env) createUser(t *testing.T, email string, admin bool) *blog.User {
	t.Helper()
	u := &blog.User{
		ID:        id.NextID(),
		Email:     email,
		Name:      strings.Split(email, "@")[0],
		Admin:     admin,
		CreatedAt: float64(time.Now().Unix()),
	}
	u.Passwd = blog.PasswordHash(u.ID, clientPasswd)
	require.NoError(t, blog.Users.Save(context.Background(), e.pool, u))
	return u
}

func (e *env) do(t *testing.T, method, target, body string, u *blog.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if u != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: e.codec.Encode(u.Principal())})
	}
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Parallel()
	e := setup(t)

	body := `{"name":"Alice","email":"Alice@Example.com","passwd":"` + clientPasswd + `"}`
	rec := e.do(t, http.MethodPost, "/api/users", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	require.Equal(t, "alice@example.com", out["email"])
	require.Equal(t, "******", out["passwd"])
	require.Equal(t, false, out["admin"])
	require.Len(t, out["id"], id.Len)

	c := sessionCookie(rec)
	require.NotNil(t, c)
	p, err := e.codec.Decode(context.Background(), c.Value)
	require.NoError(t, err)
	require.Equal(t, out["id"], p.ID)

	t.Run("duplicate email", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/users", body, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.JSONEq(t, `{"error":"value:conflict","data":"email","message":"Email is already in use."}`, rec.Body.String())
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			body  string
			field string
		}{
			{`{"name":" ","email":"bob@example.com","passwd":"` + clientPasswd + `"}`, "name"},
			{`{"name":"Bob","email":"bob","passwd":"` + clientPasswd + `"}`, "email"},
			{`{"name":"Bob","email":"bob@example.com","passwd":"plain"}`, "passwd"},
		}
		for _, tt := range tests {
			rec := e.do(t, http.MethodPost, "/api/users", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			out := decode(t, rec)
			require.Equal(t, "value:invalid", out["error"])
			require.Equal(t, tt.field, out["data"])
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/users", `{"name":"Bob"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Bad Request: missing argument email", rec.Body.String())
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	e := setup(t)
	u := e.createUser(t, "bob@example.com", false)

	rec := e.do(t, http.MethodPost, "/api/authenticate", `{"email":"bob@example.com","passwd":"`+clientPasswd+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, u.ID, decode(t, rec)["id"])
	require.NotNil(t, sessionCookie(rec))

	rec = e.do(t, http.MethodPost, "/api/authenticate", `{"email":"bob@example.com","passwd":"`+strings.Repeat("0", 40)+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "passwd", decode(t, rec)["data"])

	rec = e.do(t, http.MethodPost, "/api/authenticate", `{"email":"nobody@example.com","passwd":"`+clientPasswd+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "email", decode(t, rec)["data"])
}

func TestSignout(t *testing.T) {
	t.Parallel()
	e := setup(t)
	u := e.createUser(t, "carol@example.com", false)

	req := httptest.NewRequest(http.MethodGet, "/signout", nil)
	req.Header.Set("Referer", "/blog/1")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: e.codec.Encode(u.Principal())})
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/blog/1", rec.Header().Get("Location"))
	c := sessionCookie(rec)
	require.NotNil(t, c)
	require.Negative(t, c.MaxAge)
}

func TestBlogLifecycle(t *testing.T) {
	t.Parallel()
	e := setup(t)
	admin := e.createUser(t, "admin@example.com", true)
	reader := e.createUser(t, "reader@example.com", false)

	post := `{"name":"Hello","summary":"First post","content":"# Title\n\n**bold** text"}`

	rec := e.do(t, http.MethodPost, "/api/blogs", post, reader)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "permission:forbidden", decode(t, rec)["error"])

	rec = e.do(t, http.MethodPost, "/api/blogs", `{"name":"Hello","summary":"","content":"x"}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "summary", decode(t, rec)["data"])

	rec = e.do(t, http.MethodPost, "/api/blogs", post, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode(t, rec)
	blogID := created["id"].(string)
	require.Equal(t, admin.ID, created["user_id"])
	require.Equal(t, "admin", created["user_name"])

	rec = e.do(t, http.MethodGet, "/api/blogs/"+blogID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello", decode(t, rec)["name"])

	rec = e.do(t, http.MethodPut, "/api/blogs/"+blogID, `{"name":"Hello again","summary":"s","content":"c"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Hello again", decode(t, rec)["name"])

	rec = e.do(t, http.MethodPost, "/api/blogs/"+blogID+"/comments", `{"content":"nice"}`, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/blogs/"+blogID+"/comments", `{"content":"nice **post**"}`, reader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, reader.ID, decode(t, rec)["user_id"])

	rec = e.do(t, http.MethodGet, "/blog/"+blogID, "", reader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	html := rec.Body.String()
	require.Contains(t, html, "<h1>Hello again</h1>")
	require.Contains(t, html, "<strong>post</strong>")
	require.Contains(t, html, "Comment as reader")

	rec = e.do(t, http.MethodGet, "/api/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["comments"], 1)

	rec = e.do(t, http.MethodDelete, "/api/blogs/"+blogID, "", reader)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/blogs/"+blogID, "", admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/blogs/"+blogID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"value:notfound","data":"blog","message":"Blog not found."}`, rec.Body.String())

	n, err := blog.Comments.Count(context.Background(), e.pool)
	require.NoError(t, err)
	require.Zero(t, n)

	rec = e.do(t, http.MethodGet, "/blog/"+blogID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBlogsPaging(t *testing.T) {
	t.Parallel()
	e := setup(t)
	ctx := context.Background()

	for i, name := range []string{"one", "two", "three"} {
		b := &blog.Blog{UserID: "u", UserName: "u", Name: name, Summary: name, Content: name, CreatedAt: float64(1000 + i)}
		require.NoError(t, blog.Blogs.Save(ctx, e.pool, b))
		require.Len(t, b.ID, id.Len)
	}

	rec := e.do(t, http.MethodGet, "/api/blogs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	page := out["page"].(map[string]any)
	require.EqualValues(t, 3, page["item_count"])
	require.EqualValues(t, 2, page["page_count"])
	require.Equal(t, true, page["has_next"])

	blogs := out["blogs"].([]any)
	require.Len(t, blogs, 2)
	require.Equal(t, "three", blogs[0].(map[string]any)["name"])

	rec = e.do(t, http.MethodGet, "/api/blogs?page=2", "", nil)
	out = decode(t, rec)
	require.Len(t, out["blogs"], 1)
	require.Equal(t, "one", out["blogs"].([]any)[0].(map[string]any)["name"])

	rec = e.do(t, http.MethodGet, "/api/blogs?page=9", "", nil)
	out = decode(t, rec)
	require.Empty(t, out["blogs"])
	require.EqualValues(t, 1, out["page"].(map[string]any)["page_index"])
}

func TestPages(t *testing.T) {
	t.Parallel()
	e := setup(t)
	admin := e.createUser(t, "root@example.com", true)
	reader := e.createUser(t, "guest@example.com", false)

	t.Run("index lists users", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "root (root@example.com)")
		require.Contains(t, rec.Body.String(), `href="/signin"`)
	})

	t.Run("index shows signed in user", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/", "", reader)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `href="/signout"`)
		require.NotContains(t, rec.Body.String(), `href="/manage/"`)
	})

	t.Run("manage requires admin", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/manage/blogs", "", reader)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/signin", rec.Header().Get("Location"))

		rec = e.do(t, http.MethodGet, "/manage/blogs", "", admin)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "/manage/blogs/create")
	})

	t.Run("manage root redirects", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/manage/", "", admin)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/manage/comments", rec.Header().Get("Location"))
	})

	t.Run("static pages", func(t *testing.T) {
		for _, path := range []string{"/signin", "/register", "/manage/blogs/create", "/manage/users", "/manage/comments"} {
			rec := e.do(t, http.MethodGet, path, "", admin)
			require.Equal(t, http.StatusOK, rec.Code, path)
		}
	})

	t.Run("not found page", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/nope/%3Cb%3E", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "was not found.")
		require.NotContains(t, rec.Body.String(), "<b>")
	})
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		index int
		want  blog.Page
	}{
		{"empty", 0, 1, blog.Page{Index: 1, Size: 10}},
		{"first of three", 25, 1, blog.Page{ItemCount: 25, Index: 1, Size: 10, Count: 3, Limit: 10, HasNext: true}},
		{"last", 25, 3, blog.Page{ItemCount: 25, Index: 3, Size: 10, Count: 3, Offset: 20, Limit: 10, HasPrevious: true}},
		{"past the end", 25, 4, blog.Page{ItemCount: 25, Index: 1, Size: 10, Count: 3, HasNext: true}},
		{"zero index", 5, 0, blog.Page{ItemCount: 5, Index: 1, Size: 10, Count: 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, blog.NewPage(tt.total, tt.index, 10))
		})
	}
}

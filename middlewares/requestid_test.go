package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/internal"
	"github.com/dmitrymomot/awesome/middlewares"
	"github.com/dmitrymomot/awesome/pkg/session"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, req)

		var captured string
		handler := middlewares.RequestID()(func(c internal.Context) error {
			captured = middlewares.GetRequestID(c)
			return nil
		})

		require.NoError(t, handler(ctx))
		_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
		require.NoError(t, err)
		require.Equal(t, rec.Header().Get("X-Request-ID"), captured)
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-123")
		rec := httptest.NewRecorder()

		handler := middlewares.RequestID()(func(c internal.Context) error { return nil })

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "upstream-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom header and generator", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler := middlewares.RequestID(
			middlewares.WithRequestIDHeader("X-Trace"),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
		)(func(c internal.Context) error { return nil })

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "fixed", rec.Header().Get("X-Trace"))
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, middlewares.GetRequestID(context.Background()))
	})
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	t.Run("request id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)

		var attrValue string
		handler := middlewares.RequestID()(func(c internal.Context) error {
			attr, ok := middlewares.RequestIDExtractor()(c.Context())
			require.True(t, ok)
			require.Equal(t, "request_id", attr.Key)
			attrValue = attr.Value.String()
			return nil
		})
		require.NoError(t, handler(ctx))
		require.NotEmpty(t, attrValue)

		_, ok := middlewares.RequestIDExtractor()(context.Background())
		require.False(t, ok)
	})

	t.Run("user id", func(t *testing.T) {
		t.Parallel()

		_, ok := middlewares.UserIDExtractor()(context.Background())
		require.False(t, ok)

		var got string
		app := internal.New(
			internal.WithMiddleware(func(next internal.HandlerFunc) internal.HandlerFunc {
				return func(c internal.Context) error {
					c.SetUser(&session.Principal{ID: "u1"})
					return next(c)
				}
			}),
			internal.WithHandlers(handlerFunc(func(r internal.Router) {
				r.Handle(http.MethodGet, "/", func(c internal.Context) error {
					attr, ok := middlewares.UserIDExtractor()(c)
					require.True(t, ok)
					got = attr.Value.String()
					return c.NoContent(http.StatusNoContent)
				})
			})),
		)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "u1", got)
	})
}

package middlewares_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/middlewares"
)

func TestPanicError(t *testing.T) {
	t.Parallel()

	t.Run("formats panic value", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "panic: boom", (&middlewares.PanicError{Value: "boom"}).Error())
		require.Equal(t, "panic: 42", (&middlewares.PanicError{Value: 42}).Error())
		require.Equal(t, "panic: <nil>", (&middlewares.PanicError{}).Error())
	})

	t.Run("status code", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, http.StatusInternalServerError, (&middlewares.PanicError{}).StatusCode())
	})

	t.Run("extracts wrapped PanicError", func(t *testing.T) {
		t.Parallel()
		pe := &middlewares.PanicError{Value: "x"}
		got, ok := middlewares.AsPanicError(fmt.Errorf("wrapped: %w", pe))
		require.True(t, ok)
		require.Same(t, pe, got)
	})

	t.Run("returns false for other errors", func(t *testing.T) {
		t.Parallel()
		_, ok := middlewares.AsPanicError(errors.New("x"))
		require.False(t, ok)
		_, ok = middlewares.AsPanicError(nil)
		require.False(t, ok)
	})
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	t.Run("formats duration", func(t *testing.T) {
		t.Parallel()
		te := &middlewares.TimeoutError{Duration: 30 * time.Second}
		require.Equal(t, "request timeout after 30s", te.Error())
		require.Equal(t, http.StatusServiceUnavailable, te.StatusCode())
	})

	t.Run("extracts wrapped TimeoutError", func(t *testing.T) {
		t.Parallel()
		te := &middlewares.TimeoutError{Duration: time.Second}
		got, ok := middlewares.AsTimeoutError(fmt.Errorf("wrapped: %w", te))
		require.True(t, ok)
		require.Same(t, te, got)
	})

	t.Run("returns false for other errors", func(t *testing.T) {
		t.Parallel()
		_, ok := middlewares.AsTimeoutError(http.ErrNoCookie)
		require.False(t, ok)
	})
}

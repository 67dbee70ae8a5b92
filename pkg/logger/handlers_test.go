package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingHandler struct{ err error }

func (h failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h failingHandler) WithGroup(string) slog.Handler             { return h }

func TestWithExtractors(t *testing.T) {
	t.Parallel()

	userID := func(context.Context) (slog.Attr, bool) { return slog.String("user_id", "from-ctx"), true }

	t.Run("call site attribute wins", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(WithExtractors(slog.NewJSONHandler(&buf, nil), userID))
		log.Info("signin", "user_id", "explicit")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "explicit", rec["user_id"])
	})

	t.Run("extracted attribute added", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(WithExtractors(slog.NewJSONHandler(&buf, nil), userID)).With("component", "blog")
		log.Info("listed")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "from-ctx", rec["user_id"])
		require.Equal(t, "blog", rec["component"])
	})

	t.Run("no extractors returns next", func(t *testing.T) {
		t.Parallel()

		next := slog.NewTextHandler(&bytes.Buffer{}, nil)
		require.Same(t, next, WithExtractors(next, nil))
	})
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	boom := errors.New("sentry down")
	h := fanout{failingHandler{err: boom}, slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})}

	err := slog.New(h).Handler().Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelError, "failed", 0))
	require.ErrorIs(t, err, boom)
	require.Contains(t, buf.String(), "msg=failed")

	buf.Reset()
	require.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	slog.New(h).Info("info only reaches enabled handlers")
	require.Empty(t, buf.String())
}

package id_test

import (
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/id"
)

func TestNextID(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()
		v := id.NextID()
		require.Len(t, v, id.Len)
		require.Regexp(t, regexp.MustCompile(`^[0-9]{15}[0-9a-f]{32}000$`), v)
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			v := id.NextID()
			_, dup := seen[v]
			require.False(t, dup)
			seen[v] = struct{}{}
		}
	})

	t.Run("sorted by time", func(t *testing.T) {
		t.Parallel()
		base := time.UnixMilli(1_700_000_000_000)
		ids := []string{
			id.NextIDAt(base.Add(2 * time.Millisecond)),
			id.NextIDAt(base),
			id.NextIDAt(base.Add(time.Millisecond)),
		}
		sort.Strings(ids)

		for i, v := range ids {
			ts, ok := id.Time(v)
			require.True(t, ok)
			require.Equal(t, base.Add(time.Duration(i)*time.Millisecond), ts)
		}
	})

	t.Run("time rejects foreign ids", func(t *testing.T) {
		t.Parallel()
		_, ok := id.Time("abc")
		require.False(t, ok)
	})
}

func TestRequest(t *testing.T) {
	t.Parallel()

	_, err := uuid.Parse(id.Request())
	require.NoError(t, err)
	require.NotEqual(t, id.Request(), id.Request())
}

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := WithLogger(context.Background(), logger)

		got := FromContext(ctx)
		require.Same(t, logger, got)

		got.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("falls back to a discarding logger", func(t *testing.T) {
		got := FromContext(context.Background())
		require.NotNil(t, got)
		assert.False(t, got.Enabled(context.Background(), slog.LevelError))
	})
}

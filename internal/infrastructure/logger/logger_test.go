package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/store/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	t.Run("creates json logger", func(t *testing.T) {
		l, err := New(&config.LogConfig{Level: "info", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("creates console logger at debug level", func(t *testing.T) {
		l, err := New(&config.LogConfig{Level: "debug", Format: "console", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		l, err := New(&config.LogConfig{Level: "verbose", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "testing"} {
		l, err := NewForEnvironment(env)
		require.NoError(t, err, env)
		require.NotNil(t, l, env)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), tt.input)
	}
}

func TestContext(t *testing.T) {
	t.Run("round trips logger through context", func(t *testing.T) {
		l := zap.NewNop()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns nop logger when context is empty", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request ID round trip", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-42")
		assert.NotNil(t, enriched)
		assert.Equal(t, "req-42", GetRequestID(ctx))
	})

	t.Run("user ID round trip", func(t *testing.T) {
		ctx, _ := WithUserID(context.Background(), zap.NewNop(), "user-7")
		assert.Equal(t, "user-7", GetUserID(ctx))
	})

	t.Run("missing IDs return empty strings", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
		assert.Equal(t, "", GetUserID(context.Background()))
	})
}

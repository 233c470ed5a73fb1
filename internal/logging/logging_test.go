package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/shouni/gemini-promptcraft/pkg/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("JSON 形式で出力し、レベル未満は捨てるのだ", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("warn", "json", &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "key", credential.Secret("sk-123"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "shown", rec["msg"])
		assert.Equal(t, "[REDACTED]", rec["key"])
		assert.NotContains(t, buf.String(), "hidden")
		assert.NotContains(t, buf.String(), "sk-123")
	})

	t.Run("text 形式なのだ", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("debug", "text", &buf)
		require.NoError(t, err)
		logger.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("未知の形式はエラーなのだ", func(t *testing.T) {
		_, err := New("info", "xml", &bytes.Buffer{})
		assert.Error(t, err)
	})
}

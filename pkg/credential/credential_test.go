package credential

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolder(t *testing.T) {
	t.Run("トリムした値を保存する", func(t *testing.T) {
		h := NewHolder()
		assert.True(t, h.Set("  AIza-key \n"))

		got, ok := h.Get()
		assert.True(t, ok)
		assert.Equal(t, "AIza-key", got)
	})

	t.Run("空白のみの入力は無視する", func(t *testing.T) {
		h := NewHolder()
		h.Set("first")
		assert.False(t, h.Set("   "))

		got, _ := h.Get()
		assert.Equal(t, "first", got, "既存の値は残るのだ")
	})

	t.Run("Clear 後は取得できない", func(t *testing.T) {
		h := NewHolder()
		h.Set("secret")
		h.Clear()

		_, ok := h.Get()
		assert.False(t, ok)
	})
}

func TestSecret_NeverPrinted(t *testing.T) {
	s := Secret("AIza-super-secret")

	assert.NotContains(t, fmt.Sprintf("%v %s %#v", s, s, s), "super-secret")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("key set", "key", s, "static", Static("AIza-super-secret"))
	assert.NotContains(t, buf.String(), "super-secret")
	assert.Contains(t, buf.String(), redacted)
}

func TestStatic(t *testing.T) {
	_, ok := Static("  ").Get()
	assert.False(t, ok)

	v, ok := Static(" k ").Get()
	assert.True(t, ok)
	assert.Equal(t, "k", v)
}

// Package credential は、セッション中だけ保持する API キーを扱います。
// キーはメモリ上にのみ置かれ、永続化もログ出力もされません。
package credential

import (
	"log/slog"
	"strings"
	"sync"
)

const redacted = "[REDACTED]"

// Source は、API キーを取り出すためのインターフェースです。
type Source interface {
	Get() (string, bool)
}

// Secret は、fmt や slog に渡しても値が出力されない文字列型です。
type Secret string

// String は常に伏せ字を返します。
func (s Secret) String() string { return redacted }

// GoString は %#v でも値が漏れないようにします。
func (s Secret) GoString() string { return redacted }

// LogValue は slog.LogValuer を実装します。
func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

// Reveal は実際の値を返します。API 呼び出しの直前でのみ使います。
func (s Secret) Reveal() string { return string(s) }

// Holder は、セッションの間だけ 1 つの API キーを保持します。
type Holder struct {
	mu     sync.RWMutex
	secret Secret
}

// NewHolder は空の Holder を生成します。
func NewHolder() *Holder {
	return &Holder{}
}

// Set はトリムした値を保存します。空白のみの入力は無視して false を返します。
func (h *Holder) Set(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	h.mu.Lock()
	h.secret = Secret(value)
	h.mu.Unlock()
	return true
}

// Get は保存済みのキーを返します。
func (h *Holder) Get() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.secret == "" {
		return "", false
	}
	return h.secret.Reveal(), true
}

// Clear はキーを破棄します。確認は呼び出し側で行います。
func (h *Holder) Clear() {
	h.mu.Lock()
	h.secret = ""
	h.mu.Unlock()
}

// Static は、サーバー設定など固定値から API キーを供給する Source です。
type Static Secret

// Get は値が空でなければそれを返します。
func (s Static) Get() (string, bool) {
	v := strings.TrimSpace(string(s))
	return v, v != ""
}

func (s Static) String() string { return redacted }

func (s Static) LogValue() slog.Value { return slog.StringValue(redacted) }

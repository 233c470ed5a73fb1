package generator

import (
	"net/http"
	"strings"
)

// invalidKeySignals は Gemini が API キーを拒否したときにメッセージへ含める文字列です。
var invalidKeySignals = []string{
	"api key not valid",
	"api_key_invalid",
	"invalid api key",
	"api key expired",
}

// isInvalidKey は、ステータスとメッセージから API キーの拒否かどうかを判定します。
// 403 はキー以外の権限不足でも返るため、メッセージにキーへの言及がある場合に限ります。
func isInvalidKey(status int, message string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	lower := strings.ToLower(message)
	if status == http.StatusForbidden && strings.Contains(lower, "api key") {
		return true
	}
	for _, s := range invalidKeySignals {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

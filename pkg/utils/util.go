package utils

import "strings"

// Truncate は、ログ出力用に文字列を maxRunes 文字までに切り詰めます。
// 切り詰めた場合は末尾に "..." を付加します。
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}

// IsBlank は、空白のみで構成される文字列かどうかを返します。
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

package domain

import "strings"

// Style は画像生成のプロンプトに付加する画風です。
type Style string

const (
	StylePhotorealistic Style = "Photorealistic"
	StyleIllustration   Style = "Illustration"
	StyleAnime          Style = "Anime"
	StyleOilPainting    Style = "Oil Painting"
	StylePixelArt       Style = "Pixel Art"
	StyleNone           Style = "None"
)

// DefaultStyle はプロンプト生成直後に選択される画風です。
const DefaultStyle = StylePhotorealistic

var styles = []Style{
	StylePhotorealistic,
	StyleIllustration,
	StyleAnime,
	StyleOilPainting,
	StylePixelArt,
	StyleNone,
}

// Styles は選択可能な画風を表示順で返します。
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// ParseStyle は大文字小文字を区別せずに画風名を解釈します。
func ParseStyle(name string) (Style, bool) {
	name = strings.TrimSpace(name)
	for _, s := range styles {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}

// StyleSuffix は画風に対応するプロンプト末尾の句を返します。
// "None" と空文字は空の句になります。
func StyleSuffix(style string) string {
	if style == "" || style == string(StyleNone) {
		return ""
	}
	return ", in the style of " + strings.ToLower(style)
}

// ApplyStyle は text の末尾に旧画風の句が残っていればそれを取り除き、新しい画風の句を付加します。
// 手動編集で旧画風の句が消えている場合は、そのまま新しい句を付け足すだけです。
func ApplyStyle(text string, oldStyle, newStyle Style) string {
	if oldSuffix := StyleSuffix(string(oldStyle)); oldSuffix != "" {
		text = strings.TrimSuffix(text, oldSuffix)
	}
	return text + StyleSuffix(string(newStyle))
}

package domain

import "time"

// MaxHistoryEntries は保持する履歴の最大件数です。
const MaxHistoryEntries = 20

// HistoryRecord は「画像 → プロンプト」生成が1回完了したときのスナップショットです。
// 作成後に変更されることはありません。
type HistoryRecord struct {
	ID            int64  `json:"id"` // 作成時刻 (Unix ミリ秒)
	UploadedImage *Image `json:"uploadedImage,omitempty"`
	BasePrompt    string `json:"basePrompt"`
	SelectedStyle string `json:"selectedStyle"`
}

// NewHistoryRecord は現在時刻を ID とする履歴レコードを生成します。
func NewHistoryRecord(img *Image, basePrompt string, style Style, now time.Time) HistoryRecord {
	var uploaded *Image
	if img != nil {
		cp := *img
		uploaded = &cp
	}
	return HistoryRecord{
		ID:            now.UnixMilli(),
		UploadedImage: uploaded,
		BasePrompt:    basePrompt,
		SelectedStyle: string(style),
	}
}

// CreatedAt は ID から作成時刻を復元します。
func (r HistoryRecord) CreatedAt() time.Time {
	return time.UnixMilli(r.ID)
}

// Style は SelectedStyle を Style 型として返します。
// 未知の値が保存されていた場合は StyleNone として扱います。
func (r HistoryRecord) Style() Style {
	if s, ok := ParseStyle(r.SelectedStyle); ok {
		return s
	}
	return StyleNone
}

// PromptText は履歴から復元したときの編集用プロンプトを返します。
func (r HistoryRecord) PromptText() string {
	return r.BasePrompt + StyleSuffix(r.SelectedStyle)
}

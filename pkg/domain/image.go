package domain

import (
	"encoding/base64"
	"strings"
)

// Image はエンコード済みの画像バイト列と MIME タイプの組です。
// JSON では data が base64 文字列として表現されます。
type Image struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

// NewImageFromBase64 は base64 文字列から Image を生成します。
// data URL 形式 (data:image/png;base64,....) のプレフィックスは取り除かれます。
func NewImageFromBase64(encoded, mimeType string) (Image, error) {
	if i := strings.Index(encoded, ","); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Image{}, err
	}
	return Image{Data: data, MimeType: mimeType}, nil
}

// IsZero は画像データが空かどうかを返します。
func (i Image) IsZero() bool {
	return len(i.Data) == 0
}

// Base64 は Data を標準 base64 でエンコードした文字列を返します。
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL はブラウザでそのまま表示できる data URL を返します。
func (i Image) DataURL() string {
	return "data:" + i.MimeType + ";base64," + i.Base64()
}

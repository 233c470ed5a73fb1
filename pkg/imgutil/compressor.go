package imgutil

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG, WebP）をJPEG形式に圧縮します。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToWebP は画像を非可逆 WebP に変換します。生成画像の保存サイズを抑えるために使います。
func ConvertToWebP(src domain.Image, quality float32) (domain.Image, error) {
	img, _, err := Decode(src.Data)
	if err != nil {
		return domain.Image{}, err
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return domain.Image{}, fmt.Errorf("WebPエンコーダ設定の作成に失敗しました: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return domain.Image{}, fmt.Errorf("WebPエンコードに失敗しました: %w", err)
	}
	return domain.Image{Data: buf.Bytes(), MimeType: MimeWebP}, nil
}

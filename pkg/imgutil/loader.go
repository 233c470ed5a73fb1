package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeWebP = "image/webp"
)

// ErrUnsupportedFormat はアップロード対象外の形式が渡されたときに返されます。
var ErrUnsupportedFormat = errors.New("unsupported image format: only PNG, JPEG and WEBP are accepted")

// Decode は画像をデコードし、フォーマット名とともに返します。
// WebP は標準ライブラリに含まれないため go-webp で処理します。
func Decode(data []byte) (image.Image, string, error) {
	if http.DetectContentType(data) == MimeWebP {
		img, err := webp.Decode(bytes.NewReader(data), &decoder.Options{})
		if err != nil {
			return nil, "", fmt.Errorf("WebPのデコードに失敗しました: %w", err)
		}
		return img, "webp", nil
	}
	return image.Decode(bytes.NewReader(data))
}

// LoadImage はアップロードされたバイト列を検証し、domain.Image に変換します。
// MIME タイプは拡張子ではなく内容から判定します。
func LoadImage(data []byte) (domain.Image, error) {
	mimeType := http.DetectContentType(data)
	switch mimeType {
	case MimePNG, MimeJPEG, MimeWebP:
	default:
		return domain.Image{}, fmt.Errorf("%w (detected %s)", ErrUnsupportedFormat, mimeType)
	}

	if _, _, err := Decode(data); err != nil {
		return domain.Image{}, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return domain.Image{Data: data, MimeType: mimeType}, nil
}

// ReadImageFile はファイルを読み込んで LoadImage を適用します。
func ReadImageFile(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, err
	}
	return LoadImage(data)
}

// ExtensionFor は MIME タイプに対応するファイル拡張子を返します。
func ExtensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case MimeJPEG:
		return ".jpg"
	case MimeWebP:
		return ".webp"
	default:
		return ".png"
	}
}

// WriteImageFile は画像をファイルに書き出します。拡張子がなければ MIME タイプから補います。
func WriteImageFile(path string, img domain.Image) (string, error) {
	if filepath.Ext(path) == "" {
		path += ExtensionFor(img.MimeType)
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

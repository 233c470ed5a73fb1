package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"github.com/shouni/gemini-promptcraft/pkg/imgutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewGeminiCore(t *testing.T) {
	_, err := NewGeminiCore(nil)
	assert.Error(t, err)
}

func TestGeminiCore_ExecuteRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("API キーごとにクライアントを作って 1 回だけ呼ぶのだ", func(t *testing.T) {
		var gotKey, gotModel string
		calls := 0
		core, err := NewGeminiCore(func(ctx context.Context, apiKey string) (ContentGenerator, error) {
			gotKey = apiKey
			return &mockContentGenerator{
				generateFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					calls++
					gotModel = model
					return textResponse("ok"), nil
				},
			}, nil
		})
		require.NoError(t, err)

		resp, err := core.ExecuteRequest(ctx, "key-a", "model-x", nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, "key-a", gotKey)
		assert.Equal(t, "model-x", gotModel)
		assert.Equal(t, 1, calls)
	})

	t.Run("クライアント生成の失敗を包んで返すのだ", func(t *testing.T) {
		cause := errors.New("boom")
		core, _ := NewGeminiCore(func(ctx context.Context, apiKey string) (ContentGenerator, error) {
			return nil, cause
		})
		_, err := core.ExecuteRequest(ctx, "key", "model", nil, nil)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("リトライしないのだ", func(t *testing.T) {
		calls := 0
		core, _ := NewGeminiCore(func(ctx context.Context, apiKey string) (ContentGenerator, error) {
			return &mockContentGenerator{
				generateFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					calls++
					return nil, errors.New("unavailable")
				},
			}, nil
		})
		_, err := core.ExecuteRequest(ctx, "key", "model", nil, nil)
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestGeminiCore_PrepareImagePart(t *testing.T) {
	ctx := context.Background()
	core := &GeminiCore{}

	t.Run("小さい画像はそのまま InlineData にするのだ", func(t *testing.T) {
		part := core.PrepareImagePart(ctx, domain.Image{Data: []byte("abc"), MimeType: "image/webp"})
		require.NotNil(t, part.InlineData)
		assert.Equal(t, []byte("abc"), part.InlineData.Data)
		assert.Equal(t, "image/webp", part.InlineData.MIMEType)
	})

	t.Run("MIME が空なら中身から判定するのだ", func(t *testing.T) {
		data := encodePNG(t, 4, 4, nil)
		part := core.PrepareImagePart(ctx, domain.Image{Data: data})
		assert.Equal(t, imgutil.MimePNG, part.InlineData.MIMEType)
	})

	t.Run("大きな画像は JPEG に再圧縮するのだ", func(t *testing.T) {
		// ノイズ画像は PNG でほとんど縮まないため閾値を確実に超える
		data := encodePNG(t, 1400, 1400, rand.New(rand.NewSource(1)))
		require.Greater(t, len(data), MaxInlineImageBytes)

		part := core.PrepareImagePart(ctx, domain.Image{Data: data, MimeType: imgutil.MimePNG})
		assert.Equal(t, imgutil.MimeJPEG, part.InlineData.MIMEType)
		assert.Less(t, len(part.InlineData.Data), len(data))
	})
}

func encodePNG(t *testing.T, w, h int, rnd *rand.Rand) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255}
			if rnd != nil {
				c = color.RGBA{R: uint8(rnd.Intn(256)), G: uint8(rnd.Intn(256)), B: uint8(rnd.Intn(256)), A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

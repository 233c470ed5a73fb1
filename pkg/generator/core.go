package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"github.com/shouni/gemini-promptcraft/pkg/imgutil"
	"google.golang.org/genai"
)

// NewGenAIClientFactory は Gemini API バックエンドの genai.Client を生成する ClientFactory を返します。
// httpClient が nil の場合は SDK の既定値を使います。
func NewGenAIClientFactory(httpClient *http.Client) ClientFactory {
	return func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return client.Models, nil
	}
}

// GeminiCore は RequestExecutor の標準実装です。
type GeminiCore struct {
	factory ClientFactory
}

// NewGeminiCore は依存関係を注入して GeminiCore を初期化します。
func NewGeminiCore(factory ClientFactory) (*GeminiCore, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory is required")
	}
	return &GeminiCore{factory: factory}, nil
}

// ExecuteRequest はクライアントを生成し、GenerateContent を 1 回だけ呼び出します。
func (c *GeminiCore) ExecuteRequest(ctx context.Context, apiKey, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := c.factory(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗しました: %w", err)
	}

	start := time.Now()
	resp, err := client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		slog.WarnContext(ctx, "Gemini API 呼び出しに失敗しました", "model", model, "elapsed", time.Since(start), "error", err)
		return nil, err
	}
	slog.DebugContext(ctx, "Gemini API 呼び出しが完了しました", "model", model, "elapsed", time.Since(start))
	return resp, nil
}

// PrepareImagePart は画像を InlineData パーツに変換します。
// 大きすぎる画像は JPEG に再圧縮し、失敗した場合は元のデータのまま送ります。
func (c *GeminiCore) PrepareImagePart(ctx context.Context, img domain.Image) *genai.Part {
	data, mimeType := img.Data, img.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	if UseImageCompression && len(data) > MaxInlineImageBytes {
		compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "画像の圧縮に失敗したため元データで送信します", "bytes", len(data), "error", err)
		case len(compressed) < len(data):
			slog.InfoContext(ctx, "画像を圧縮しました", "before", len(data), "after", len(compressed))
			data, mimeType = compressed, imgutil.MimeJPEG
		}
	}

	return genai.NewPartFromBytes(data, mimeType)
}

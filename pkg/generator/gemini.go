package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"github.com/shouni/gemini-promptcraft/pkg/utils"
	"google.golang.org/genai"
)

// GeminiGenerator は、画像からのプロンプト生成(DescribeImage)と
// プロンプトからの画像生成(RenderImage)の両方を担当するジェネレーターです。
type GeminiGenerator struct {
	executor   RequestExecutor
	textModel  string
	imageModel string
}

// NewGeminiGenerator は GeminiGenerator を初期化します。モデル名が空なら既定値を使います。
func NewGeminiGenerator(executor RequestExecutor, textModel, imageModel string) (*GeminiGenerator, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor (RequestExecutor) is required")
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	return &GeminiGenerator{
		executor:   executor,
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

// New は genai クライアントを使う GeminiGenerator を組み立てるショートカットです。
func New(textModel, imageModel string) (*GeminiGenerator, error) {
	core, err := NewGeminiCore(NewGenAIClientFactory(nil))
	if err != nil {
		return nil, err
	}
	return NewGeminiGenerator(core, textModel, imageModel)
}

// DescribeImage は画像と固定の指示文を送り、テキスト生成用のプロンプトを得ます。
func (g *GeminiGenerator) DescribeImage(ctx context.Context, img domain.Image, apiKey string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", missingKeyError(OpDescribe)
	}
	if img.IsZero() {
		return "", invalidInputError("image data is required")
	}

	slog.InfoContext(ctx, "画像からプロンプトを生成します", "model", g.textModel, "mime_type", img.MimeType, "bytes", len(img.Data))

	parts := []*genai.Part{
		g.executor.PrepareImagePart(ctx, img),
		genai.NewPartFromText(describeInstruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(DescribeTemperature),
	}

	resp, err := g.executor.ExecuteRequest(ctx, strings.TrimSpace(apiKey), g.textModel, contents, config)
	if err != nil {
		return "", normalizeError(OpDescribe, err)
	}

	text, err := parseText(resp)
	if err != nil {
		return "", normalizeError(OpDescribe, err)
	}
	return text, nil
}

// RenderImage はプロンプトを送り、画像のみを返すよう要求します。
func (g *GeminiGenerator) RenderImage(ctx context.Context, prompt string, apiKey string) (*domain.Image, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, missingKeyError(OpRender)
	}
	if utils.IsBlank(prompt) {
		return nil, invalidInputError("a text prompt is required")
	}

	slog.InfoContext(ctx, "プロンプトから画像を生成します", "model", g.imageModel, "prompt", utils.Truncate(prompt, 50))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{responseModalityImage},
	}

	resp, err := g.executor.ExecuteRequest(ctx, strings.TrimSpace(apiKey), g.imageModel, contents, config)
	if err != nil {
		return nil, normalizeError(OpRender, err)
	}

	img, err := parseImage(resp)
	if err != nil {
		return nil, normalizeError(OpRender, err)
	}
	slog.InfoContext(ctx, "画像を生成しました", "mime_type", img.MimeType, "bytes", len(img.Data))
	return img, nil
}

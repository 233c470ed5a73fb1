package generator

import (
	"context"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"google.golang.org/genai"
)

// PromptImageGenerator はワークフローとリレーが利用する統合窓口です。
// どちらの操作も単発のリモート呼び出しで、リトライは行いません。
type PromptImageGenerator interface {
	// DescribeImage は画像を説明するテキストプロンプトを生成します。
	DescribeImage(ctx context.Context, img domain.Image, apiKey string) (string, error)
	// RenderImage はプロンプトから画像を生成します。
	RenderImage(ctx context.Context, prompt string, apiKey string) (*domain.Image, error)
}

// RequestExecutor は、Gemini へのリクエスト送信と画像パーツの準備を担当します。
type RequestExecutor interface {
	// ExecuteRequest は、指定した API キーとモデルで GenerateContent を 1 回だけ実行します。
	ExecuteRequest(ctx context.Context, apiKey, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	// PrepareImagePart は、画像を InlineData パーツに変換します。
	PrepareImagePart(ctx context.Context, img domain.Image) *genai.Part
}

// ContentGenerator は genai.Models のうち本パッケージが使う部分です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory は API キーごとに ContentGenerator を生成します。
// API キーは呼び出しごとに明示的に渡されるため、クライアントもその都度作ります。
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

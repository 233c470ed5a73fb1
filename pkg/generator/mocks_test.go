package generator

import (
	"context"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

type executeCall struct {
	apiKey   string
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type mockExecutor struct {
	executeFunc func(ctx context.Context, apiKey, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	calls       []executeCall
}

func (m *mockExecutor) ExecuteRequest(ctx context.Context, apiKey, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls = append(m.calls, executeCall{apiKey: apiKey, model: model, contents: contents, config: config})
	if m.executeFunc != nil {
		return m.executeFunc(ctx, apiKey, model, contents, config)
	}
	return nil, nil
}

func (m *mockExecutor) PrepareImagePart(ctx context.Context, img domain.Image) *genai.Part {
	return genai.NewPartFromBytes(img.Data, img.MimeType)
}

type mockContentGenerator struct {
	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents, config)
	}
	return nil, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func imageResponse(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

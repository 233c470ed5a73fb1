package relay

import (
	"context"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
)

type mockGenerator struct {
	describeFunc func(ctx context.Context, img domain.Image, apiKey string) (string, error)
	renderFunc   func(ctx context.Context, prompt string, apiKey string) (*domain.Image, error)
	calls        int
}

func (m *mockGenerator) DescribeImage(ctx context.Context, img domain.Image, apiKey string) (string, error) {
	m.calls++
	if m.describeFunc != nil {
		return m.describeFunc(ctx, img, apiKey)
	}
	return "", nil
}

func (m *mockGenerator) RenderImage(ctx context.Context, prompt string, apiKey string) (*domain.Image, error) {
	m.calls++
	if m.renderFunc != nil {
		return m.renderFunc(ctx, prompt, apiKey)
	}
	return nil, nil
}

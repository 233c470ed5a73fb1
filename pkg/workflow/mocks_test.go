package workflow

import (
	"context"
	"sync"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
)

// mockGenerator は PromptImageGenerator のテスト用モックなのだ。
type mockGenerator struct {
	describeFunc func(ctx context.Context, img domain.Image, apiKey string) (string, error)
	renderFunc   func(ctx context.Context, prompt string, apiKey string) (*domain.Image, error)

	mu            sync.Mutex
	describeCalls int
	renderCalls   int
	lastKey       string
	lastPrompt    string
}

func (m *mockGenerator) DescribeImage(ctx context.Context, img domain.Image, apiKey string) (string, error) {
	m.mu.Lock()
	m.describeCalls++
	m.lastKey = apiKey
	m.mu.Unlock()
	if m.describeFunc != nil {
		return m.describeFunc(ctx, img, apiKey)
	}
	return "", nil
}

func (m *mockGenerator) RenderImage(ctx context.Context, prompt string, apiKey string) (*domain.Image, error) {
	m.mu.Lock()
	m.renderCalls++
	m.lastKey = apiKey
	m.lastPrompt = prompt
	m.mu.Unlock()
	if m.renderFunc != nil {
		return m.renderFunc(ctx, prompt, apiKey)
	}
	return nil, nil
}

func (m *mockGenerator) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.describeCalls, m.renderCalls
}

// mockStore は HistoryStore のテスト用モックなのだ。
type mockStore struct {
	loadFunc func(ctx context.Context) []domain.HistoryRecord
	saveFunc func(ctx context.Context, records []domain.HistoryRecord) error

	mu    sync.Mutex
	saved [][]domain.HistoryRecord
}

func (m *mockStore) Load(ctx context.Context) []domain.HistoryRecord {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return []domain.HistoryRecord{}
}

func (m *mockStore) Save(ctx context.Context, records []domain.HistoryRecord) error {
	m.mu.Lock()
	m.saved = append(m.saved, records)
	m.mu.Unlock()
	if m.saveFunc != nil {
		return m.saveFunc(ctx, records)
	}
	return nil
}

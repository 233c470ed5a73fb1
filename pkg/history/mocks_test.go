package history

import (
	"context"
)

// mockBackend は Backend のテスト用モックなのだ。
type mockBackend struct {
	getFunc func(ctx context.Context, key string) ([]byte, error)
	setFunc func(ctx context.Context, key string, value []byte) error
}

func (m *mockBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, ErrNotFound
}

func (m *mockBackend) Set(ctx context.Context, key string, value []byte) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value)
	}
	return nil
}

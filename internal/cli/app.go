package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-promptcraft/internal/config"
	"github.com/shouni/gemini-promptcraft/pkg/generator"
	"github.com/shouni/gemini-promptcraft/pkg/history"
)

// newGenerator は設定のモデル名で Gemini ジェネレーターを組み立てます。
func newGenerator(c *config.Config) (*generator.GeminiGenerator, error) {
	return generator.New(c.TextModel, c.ImageModel)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openHistory は設定されたバックエンドで履歴ストアを開きます。
// 返される io.Closer は Redis 接続など後片付けが必要なリソースを閉じます。
func openHistory(ctx context.Context, c *config.Config) (*history.Store, io.Closer, error) {
	var (
		backend history.Backend
		closer  io.Closer = nopCloser{}
	)

	switch c.History.Backend {
	case config.HistoryFile:
		fb, err := history.NewFileBackend(c.History.Dir)
		if err != nil {
			return nil, nil, err
		}
		backend = fb
	case config.HistoryRedis:
		client, err := history.NewRedisClient(ctx, history.RedisOptions{
			Addr:     c.Redis.Addr,
			Username: c.Redis.Username,
			Password: c.Redis.Password.Reveal(),
			DB:       c.Redis.DB,
			UseTLS:   c.Redis.UseTLS,
		})
		if err != nil {
			return nil, nil, err
		}
		rb, err := history.NewRedisBackend(client, c.Redis.KeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		backend, closer = rb, client
	case config.HistoryMemory:
		backend = history.NewMemoryBackend()
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", c.History.Backend)
	}

	store, err := history.NewStore(backend, history.DefaultKey)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	slog.DebugContext(ctx, "履歴ストアを開きました", "backend", c.History.Backend)
	return store, closer, nil
}

package history

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions は Redis 接続の設定です。
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	UseTLS   bool
}

// NewRedisClient は Redis に接続し、PING で疎通を確認してからクライアントを返します。
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if opts.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		TLSConfig:    tlsConfig,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redisへの接続に失敗しました (%s): %w", opts.Addr, err)
	}

	slog.InfoContext(ctx, "Redisに接続しました", "addr", opts.Addr, "db", opts.DB, "tls", opts.UseTLS)
	return rdb, nil
}

// RedisBackend は Redis の文字列値として履歴を保存する Backend です。
type RedisBackend struct {
	client redis.Cmdable
	prefix string
}

// NewRedisBackend は RedisBackend を生成します。prefix はすべてのキーの先頭に付きます。
func NewRedisBackend(client redis.Cmdable, prefix string) (*RedisBackend, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

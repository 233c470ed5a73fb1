// Package config は、既定値、YAML ファイル、.env、環境変数の順に設定を重ねて読み込みます。
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/shouni/gemini-promptcraft/pkg/credential"
)

const (
	HistoryFile   = "file"
	HistoryRedis  = "redis"
	HistoryMemory = "memory"

	DefaultAddr = ":8080"
)

// Config はアプリケーション全体の設定です。
// 環境変数は YAML の値より優先されます。
type Config struct {
	APIKey credential.Secret `yaml:"api_key" env:"GEMINI_API_KEY, overwrite"`
	// LegacyAPIKey は GEMINI_API_KEY が無いときに使う API_KEY です。
	LegacyAPIKey credential.Secret `yaml:"-" env:"API_KEY, overwrite"`

	TextModel  string `yaml:"text_model" env:"PROMPTCRAFT_TEXT_MODEL, overwrite"`
	ImageModel string `yaml:"image_model" env:"PROMPTCRAFT_IMAGE_MODEL, overwrite"`
	Addr       string `yaml:"addr" env:"PROMPTCRAFT_ADDR, overwrite"`

	History HistoryConfig `yaml:"history"`
	Redis   RedisConfig   `yaml:"redis"`
	Log     LogConfig     `yaml:"log"`
}

type HistoryConfig struct {
	Backend string `yaml:"backend" env:"PROMPTCRAFT_HISTORY, overwrite"`
	Dir     string `yaml:"dir" env:"PROMPTCRAFT_HISTORY_DIR, overwrite"`
}

type RedisConfig struct {
	Addr      string            `yaml:"addr" env:"REDIS_ADDR, overwrite"`
	Username  string            `yaml:"username" env:"REDIS_USERNAME, overwrite"`
	Password  credential.Secret `yaml:"password" env:"REDIS_PASSWORD, overwrite"`
	DB        int               `yaml:"db" env:"REDIS_DB, overwrite"`
	UseTLS    bool              `yaml:"use_tls" env:"REDIS_USE_TLS, overwrite"`
	KeyPrefix string            `yaml:"key_prefix" env:"REDIS_KEY_PREFIX, overwrite"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL, overwrite"`
	Format string `yaml:"format" env:"LOG_FORMAT, overwrite"`
}

// Options は Load の入力です。
type Options struct {
	// ConfigFile は YAML 設定ファイルのパスです。空なら読み込みません。
	ConfigFile string
	// EnvFile は .env ファイルのパスです。存在しなければ無視します。
	EnvFile string
	// Lookuper は環境変数の参照先です。nil ならプロセスの環境変数を使います。
	Lookuper envconfig.Lookuper
}

// Default は既定値だけを設定した Config を返します。
func Default() *Config {
	return &Config{
		Addr: DefaultAddr,
		History: HistoryConfig{
			Backend: HistoryFile,
			Dir:     defaultHistoryDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は設定を読み込み、検証済みの Config を返します。
func Load(ctx context.Context, opts Options) (*Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		raw, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", opts.ConfigFile, err)
		}
	}

	lookuper := opts.Lookuper
	if lookuper == nil {
		if err := loadEnvFile(opts.EnvFile); err != nil {
			return nil, err
		}
		lookuper = envconfig.OsLookuper()
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("環境変数の処理に失敗しました: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = cfg.LegacyAPIKey
	}
	cfg.History.Backend = strings.ToLower(strings.TrimSpace(cfg.History.Backend))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は組み合わせとして不正な設定を検出します。
func (c *Config) Validate() error {
	switch c.History.Backend {
	case HistoryFile:
		if c.History.Dir == "" {
			return errors.New("history dir is required for the file backend (PROMPTCRAFT_HISTORY_DIR)")
		}
	case HistoryMemory:
	case HistoryRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis history backend")
		}
	default:
		return fmt.Errorf("unknown history backend %q (want file, redis or memory)", c.History.Backend)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// Credential はサーバー側で使う API キーを credential.Source として返します。
func (c *Config) Credential() credential.Static {
	return credential.Static(c.APIKey.Reveal())
}

func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(".env ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return nil
}

func defaultHistoryDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "promptcraft", "history")
	}
	return filepath.Join(".promptcraft", "history")
}

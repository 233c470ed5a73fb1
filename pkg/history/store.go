// Package history は、生成したプロンプトの履歴を永続化します。
// 永続化はベストエフォートであり、失敗してもワークフローを止めません。
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
)

// DefaultKey は履歴を保存する固定キーです。
const DefaultKey = "promptcraft-history"

// Store は Backend 上の固定キーに履歴リストを丸ごと読み書きします。
type Store struct {
	backend Backend
	key     string
}

// NewStore は Store を生成します。key が空なら DefaultKey を使います。
func NewStore(backend Backend, key string) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if key == "" {
		key = DefaultKey
	}
	return &Store{backend: backend, key: key}, nil
}

// Load は保存済みの履歴を返します。
// 値が存在しない場合や JSON として解釈できない場合は、ログを残して空のリストを返します。
func (s *Store) Load(ctx context.Context) []domain.HistoryRecord {
	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.WarnContext(ctx, "履歴の読み込みに失敗しました", "key", s.key, "error", err)
		}
		return []domain.HistoryRecord{}
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.WarnContext(ctx, "履歴のJSON解析に失敗したため空として扱います", "key", s.key, "error", err)
		return []domain.HistoryRecord{}
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return records
}

// Save はリスト全体で既存の値を上書きします。
func (s *Store) Save(ctx context.Context, records []domain.HistoryRecord) error {
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("履歴のシリアライズに失敗しました: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("履歴の保存に失敗しました: %w", err)
	}
	return nil
}

// Clear は空のリストを保存します。
func (s *Store) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}

// Prepend は record を先頭に追加し、MaxHistoryEntries 件に切り詰めた新しいスライスを返します。
// 引数のスライスは変更しません。
func Prepend(record domain.HistoryRecord, existing []domain.HistoryRecord) []domain.HistoryRecord {
	n := len(existing)
	if n > domain.MaxHistoryEntries-1 {
		n = domain.MaxHistoryEntries - 1
	}
	out := make([]domain.HistoryRecord, 0, n+1)
	out = append(out, record)
	return append(out, existing[:n]...)
}

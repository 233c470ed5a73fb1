package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
)

func record(id int64) domain.HistoryRecord {
	return domain.HistoryRecord{ID: id, BasePrompt: "prompt", SelectedStyle: string(domain.DefaultStyle)}
}

func TestPrepend(t *testing.T) {
	t.Run("何回追加しても20件を超えず、最新が先頭になる", func(t *testing.T) {
		var list []domain.HistoryRecord
		for i := int64(1); i <= 45; i++ {
			list = Prepend(record(i), list)
			require.LessOrEqual(t, len(list), domain.MaxHistoryEntries)
			assert.Equal(t, i, list[0].ID)
		}
		assert.Len(t, list, domain.MaxHistoryEntries)
		assert.Equal(t, int64(26), list[len(list)-1].ID)
	})

	t.Run("元のスライスは変更しない", func(t *testing.T) {
		existing := []domain.HistoryRecord{record(1), record(2)}
		out := Prepend(record(3), existing)

		assert.Equal(t, []int64{3, 1, 2}, []int64{out[0].ID, out[1].ID, out[2].ID})
		assert.Equal(t, int64(1), existing[0].ID)
	})
}

func TestStore_LoadSave(t *testing.T) {
	ctx := context.Background()

	t.Run("未保存なら空リスト", func(t *testing.T) {
		s, err := NewStore(NewMemoryBackend(), "")
		require.NoError(t, err)
		got := s.Load(ctx)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("保存した内容を読み戻せる", func(t *testing.T) {
		s, _ := NewStore(NewMemoryBackend(), "")
		img := &domain.Image{Data: []byte("png"), MimeType: "image/png"}
		want := []domain.HistoryRecord{{ID: 2, UploadedImage: img, BasePrompt: "b", SelectedStyle: "Anime"}, record(1)}

		require.NoError(t, s.Save(ctx, want))
		assert.Equal(t, want, s.Load(ctx))
	})

	t.Run("不正なJSONは空リストとして扱いエラーにしない", func(t *testing.T) {
		backend := NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, DefaultKey, []byte("{not json")))
		s, _ := NewStore(backend, "")

		assert.Empty(t, s.Load(ctx))
	})

	t.Run("読み込みエラーも空リスト", func(t *testing.T) {
		s, _ := NewStore(&mockBackend{getFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("disk on fire")
		}}, "")
		assert.Empty(t, s.Load(ctx))
	})

	t.Run("書き込みエラーは呼び出し元に返す", func(t *testing.T) {
		quota := errors.New("quota exceeded")
		s, _ := NewStore(&mockBackend{setFunc: func(ctx context.Context, key string, value []byte) error {
			return quota
		}}, "")
		assert.ErrorIs(t, s.Save(ctx, []domain.HistoryRecord{record(1)}), quota)
	})

	t.Run("Clear 後の Load は空", func(t *testing.T) {
		backend := NewMemoryBackend()
		s, _ := NewStore(backend, "")
		require.NoError(t, s.Save(ctx, []domain.HistoryRecord{record(1)}))
		require.NoError(t, s.Clear(ctx))

		assert.Empty(t, s.Load(ctx))
		raw, _ := backend.Get(ctx, DefaultKey)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("指定したキーに保存する", func(t *testing.T) {
		var gotKey string
		s, _ := NewStore(&mockBackend{setFunc: func(ctx context.Context, key string, value []byte) error {
			gotKey = key
			return nil
		}}, "custom")
		require.NoError(t, s.Save(ctx, nil))
		assert.Equal(t, "custom", gotKey)
	})
}

func TestNewStore_RequiresBackend(t *testing.T) {
	_, err := NewStore(nil, "")
	assert.Error(t, err)
}

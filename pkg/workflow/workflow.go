// Package workflow は、画像選択からプロンプト生成、画風の適用、画像生成までの
// 状態遷移を管理します。
//
// ガード違反は番兵エラーとして返し、リモート呼び出しの失敗は State.LastError に
// 格納して nil を返します。リモート呼び出しの間はロックを保持しません。
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/gemini-promptcraft/pkg/credential"
	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"github.com/shouni/gemini-promptcraft/pkg/generator"
	"github.com/shouni/gemini-promptcraft/pkg/history"
	"github.com/shouni/gemini-promptcraft/pkg/utils"
)

// HistoryStore は履歴の読み書きを担当します。*history.Store が実装します。
type HistoryStore interface {
	Load(ctx context.Context) []domain.HistoryRecord
	Save(ctx context.Context, records []domain.HistoryRecord) error
}

// Option は Workflow の任意設定です。
type Option func(*Workflow)

// WithChangeListener は状態が変わるたびに呼ばれる関数を登録します。
// 関数はロックの外で、変更後のスナップショットを引数に呼ばれます。
func WithChangeListener(fn func(State)) Option {
	return func(w *Workflow) {
		w.onChange = fn
	}
}

// WithClock は履歴 ID に使う現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// Workflow は 1 セッション分の状態を保持します。複数のゴルーチンから呼び出せます。
type Workflow struct {
	gen   generator.PromptImageGenerator
	store HistoryStore
	creds credential.Source

	mu      sync.Mutex
	state   State
	history []domain.HistoryRecord
	// epoch は画像が変わるたびに進み、古い説明結果の破棄に使います。
	epoch uint64

	saveMu   sync.Mutex
	onChange func(State)
	now      func() time.Time
}

// New は保存済みの履歴を読み込んで Workflow を初期化します。
func New(ctx context.Context, gen generator.PromptImageGenerator, store HistoryStore, creds credential.Source, opts ...Option) (*Workflow, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if store == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}

	w := &Workflow{
		gen:   gen,
		store: store,
		creds: creds,
		state: initialState(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.history = store.Load(ctx)
	slog.DebugContext(ctx, "履歴を読み込みました", "count", len(w.history))
	return w, nil
}

// State は現在の状態のスナップショットを返します。
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// History は履歴のコピーを新しい順で返します。
func (w *Workflow) History() []domain.HistoryRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.HistoryRecord(nil), w.history...)
}

// SelectImage は画像を設定し、プロンプトとエラーを消去して AwaitingImage に戻します。
// 画像のデコード検証は呼び出し側 (imgutil.LoadImage) の責務です。
func (w *Workflow) SelectImage(img domain.Image) error {
	if img.IsZero() {
		return ErrNoImage
	}
	w.update(func(s *State) {
		w.epoch++
		cp := img
		s.CurrentImage = &cp
		s.BasePrompt = ""
		s.EditablePrompt = ""
		s.LastError = ""
		s.Stage = AwaitingImage
	})
	return nil
}

// RemoveImage は画像とプロンプトとエラーを消去します。
func (w *Workflow) RemoveImage() {
	w.update(func(s *State) {
		w.epoch++
		s.CurrentImage = nil
		s.BasePrompt = ""
		s.EditablePrompt = ""
		s.LastError = ""
		s.Stage = AwaitingImage
	})
}

// CreatePrompt は現在の画像から基本プロンプトを生成し、履歴に追加します。
// 生成中に画像が差し替えられた場合、結果は破棄されます。
func (w *Workflow) CreatePrompt(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.state.PromptInFlight:
		w.mu.Unlock()
		return ErrBusy
	case w.state.Stage != AwaitingImage:
		w.mu.Unlock()
		return ErrStage
	case !w.state.HasImage():
		w.mu.Unlock()
		return ErrNoImage
	}
	img := *w.state.CurrentImage
	epoch := w.epoch
	w.state.PromptInFlight = true
	w.state.LastError = ""
	snapshot := w.state
	w.mu.Unlock()
	w.notify(snapshot)

	apiKey, _ := w.creds.Get()
	text, err := w.gen.DescribeImage(ctx, img, apiKey)

	w.mu.Lock()
	w.state.PromptInFlight = false
	switch {
	case epoch != w.epoch:
		slog.InfoContext(ctx, "画像が変更されたためプロンプト生成結果を破棄しました")
	case err != nil:
		slog.WarnContext(ctx, "プロンプト生成に失敗しました", "error", err)
		w.state.LastError = err.Error()
	default:
		w.state.BasePrompt = text
		w.state.SelectedStyle = domain.DefaultStyle
		w.state.EditablePrompt = text + domain.StyleSuffix(string(domain.DefaultStyle))
		w.state.Stage = EditingPrompt
		record := domain.NewHistoryRecord(&img, text, domain.DefaultStyle, w.now())
		w.history = history.Prepend(record, w.history)
	}
	persist := epoch == w.epoch && err == nil
	snapshot = w.state
	w.mu.Unlock()

	if persist {
		slog.InfoContext(ctx, "プロンプトを生成しました", "prompt", utils.Truncate(text, 50))
		w.persist(ctx)
	}
	w.notify(snapshot)
	return nil
}

// SelectStyle は旧画風の句が末尾に残っていれば取り除き、新しい画風の句を付加します。
func (w *Workflow) SelectStyle(style domain.Style) error {
	parsed, ok := domain.ParseStyle(string(style))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return w.updateIn(EditingPrompt, func(s *State) {
		s.EditablePrompt = domain.ApplyStyle(s.EditablePrompt, s.SelectedStyle, parsed)
		s.SelectedStyle = parsed
	})
}

// EditPrompt は編集用プロンプトをそのまま置き換えます。画風の句との整合は取りません。
func (w *Workflow) EditPrompt(text string) error {
	return w.updateIn(EditingPrompt, func(s *State) {
		s.EditablePrompt = text
	})
}

// PromptText はコピー用の編集済みプロンプトを返します。
func (w *Workflow) PromptText() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if utils.IsBlank(w.state.EditablePrompt) {
		return "", ErrEmptyPrompt
	}
	return w.state.EditablePrompt, nil
}

// GenerateImage は編集済みプロンプトから画像を生成し、結果ビューを開きます。
// 失敗しても編集中のプロンプトは保持されます。
func (w *Workflow) GenerateImage(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.state.ImageInFlight:
		w.mu.Unlock()
		return ErrBusy
	case w.state.Stage != EditingPrompt:
		w.mu.Unlock()
		return ErrStage
	case utils.IsBlank(w.state.EditablePrompt):
		w.mu.Unlock()
		return ErrEmptyPrompt
	}
	prompt := w.state.EditablePrompt
	w.state.ImageInFlight = true
	w.state.LastError = ""
	snapshot := w.state
	w.mu.Unlock()
	w.notify(snapshot)

	apiKey, _ := w.creds.Get()
	img, err := w.gen.RenderImage(ctx, prompt, apiKey)

	w.mu.Lock()
	w.state.ImageInFlight = false
	if err != nil {
		slog.WarnContext(ctx, "画像生成に失敗しました", "error", err)
		w.state.LastError = err.Error()
	} else {
		w.state.GeneratedImage = img
		w.state.ResultOpen = true
	}
	snapshot = w.state
	w.mu.Unlock()
	w.notify(snapshot)
	return nil
}

// CloseResult は結果ビューを閉じます。
func (w *Workflow) CloseResult() {
	w.update(func(s *State) {
		s.ResultOpen = false
	})
}

// StartOver は画像とプロンプトを消去し、画風を既定値に戻します。
func (w *Workflow) StartOver() {
	w.update(func(s *State) {
		w.epoch++
		s.CurrentImage = nil
		s.BasePrompt = ""
		s.EditablePrompt = ""
		s.SelectedStyle = domain.DefaultStyle
		s.LastError = ""
		s.GeneratedImage = nil
		s.ResultOpen = false
		s.Stage = AwaitingImage
	})
}

// LoadHistory は index 番目 (0 が最新) の履歴を復元して EditingPrompt に移ります。
func (w *Workflow) LoadHistory(index int) error {
	w.mu.Lock()
	if index < 0 || index >= len(w.history) {
		w.mu.Unlock()
		return fmt.Errorf("%w: index %d", ErrNoRecord, index)
	}
	record := w.history[index]
	w.epoch++
	style := record.Style()
	w.state.CurrentImage = record.UploadedImage
	w.state.BasePrompt = record.BasePrompt
	w.state.SelectedStyle = style
	w.state.EditablePrompt = record.BasePrompt + domain.StyleSuffix(string(style))
	w.state.LastError = ""
	w.state.Stage = EditingPrompt
	snapshot := w.state
	w.mu.Unlock()
	w.notify(snapshot)
	return nil
}

// ClearHistory は履歴を空にして保存します。確認は呼び出し側で行います。
func (w *Workflow) ClearHistory(ctx context.Context) {
	w.mu.Lock()
	w.history = []domain.HistoryRecord{}
	w.mu.Unlock()
	w.persist(ctx)
	slog.InfoContext(ctx, "履歴を消去しました")
}

// DismissError はエラー表示を消去します。
func (w *Workflow) DismissError() {
	w.update(func(s *State) {
		s.LastError = ""
	})
}

// persist は最新の履歴を保存します。失敗はログに残すだけで、呼び出し元には伝えません。
func (w *Workflow) persist(ctx context.Context) {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	records := append([]domain.HistoryRecord{}, w.history...)
	w.mu.Unlock()

	if err := w.store.Save(context.WithoutCancel(ctx), records); err != nil {
		slog.WarnContext(ctx, "履歴の保存に失敗しました", "count", len(records), "error", err)
	}
}

func (w *Workflow) update(fn func(s *State)) {
	w.mu.Lock()
	fn(&w.state)
	snapshot := w.state
	w.mu.Unlock()
	w.notify(snapshot)
}

func (w *Workflow) updateIn(stage Stage, fn func(s *State)) error {
	w.mu.Lock()
	if w.state.Stage != stage {
		w.mu.Unlock()
		return ErrStage
	}
	fn(&w.state)
	snapshot := w.state
	w.mu.Unlock()
	w.notify(snapshot)
	return nil
}

func (w *Workflow) notify(s State) {
	if w.onChange != nil {
		w.onChange(s)
	}
}

package workflow

import "github.com/shouni/gemini-promptcraft/pkg/domain"

// Stage はワークフローの段階です。終端はなく、StartOver で AwaitingImage に戻ります。
type Stage int

const (
	// AwaitingImage は画像の選択とプロンプト生成を待っている段階です。
	AwaitingImage Stage = iota
	// EditingPrompt はプロンプトを編集し、画像生成を行う段階です。
	EditingPrompt
)

func (s Stage) String() string {
	switch s {
	case AwaitingImage:
		return "AwaitingImage"
	case EditingPrompt:
		return "EditingPrompt"
	default:
		return "Unknown"
	}
}

// State は表示層に渡すワークフローのスナップショットです。
// Image は不変として扱うため、ポインタはそのまま共有します。
type State struct {
	Stage          Stage
	CurrentImage   *domain.Image
	BasePrompt     string
	SelectedStyle  domain.Style
	EditablePrompt string
	GeneratedImage *domain.Image
	ResultOpen     bool
	LastError      string
	PromptInFlight bool
	ImageInFlight  bool
}

// HasImage は画像が選択されているかどうかを返します。
func (s State) HasImage() bool {
	return s.CurrentImage != nil && !s.CurrentImage.IsZero()
}

func initialState() State {
	return State{
		Stage:         AwaitingImage,
		SelectedStyle: domain.DefaultStyle,
	}
}

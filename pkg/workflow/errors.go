package workflow

import "errors"

// ガード条件を満たさない操作はこれらのエラーを返し、状態を変更しません。
var (
	ErrNoImage      = errors.New("workflow: no image selected")
	ErrEmptyPrompt  = errors.New("workflow: prompt text is empty")
	ErrBusy         = errors.New("workflow: request already in progress")
	ErrStage        = errors.New("workflow: action not available in the current stage")
	ErrUnknownStyle = errors.New("workflow: unknown style")
	ErrNoRecord     = errors.New("workflow: history record not found")
)

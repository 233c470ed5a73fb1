package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	// MsgInvalidAPIKey はプロバイダが API キーを拒否したときの利用者向けメッセージです。
	MsgInvalidAPIKey = "Your API key is not valid. Please check it and try again."
	// MsgMissingAPIKey は API キーが未設定のときの利用者向けメッセージです。
	MsgMissingAPIKey = "API key is not configured. Please add your API key to continue."
)

var (
	// ErrCredential は API キーが未設定、または拒否されたことを示します。
	ErrCredential = errors.New("credential error")
	// ErrRemoteService はネットワーク障害や不正な応答などリモート側の失敗を示します。
	ErrRemoteService = errors.New("remote service error")
	// ErrInvalidInput は空の画像やプロンプトが渡されたことを示します。
	ErrInvalidInput = errors.New("invalid input")
)

// Op はどの操作で失敗したかを表します。
type Op string

const (
	OpDescribe Op = "describe"
	OpRender   Op = "render"
)

// Kind はエラーの分類です。
type Kind int

const (
	KindRemote Kind = iota
	KindCredential
)

func (k Kind) String() string {
	if k == KindCredential {
		return "credential"
	}
	return "remote"
}

// ServiceError は利用者にそのまま見せられるメッセージを持つエラーです。
// errors.Is で ErrCredential / ErrRemoteService と元のエラーの両方に一致します。
type ServiceError struct {
	Op      Op
	Kind    Kind
	Status  int // プロバイダの HTTP ステータス。不明なら 0
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() []error {
	sentinel := ErrRemoteService
	if e.Kind == KindCredential {
		sentinel = ErrCredential
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

func missingKeyError(op Op) error {
	return &ServiceError{Op: op, Kind: KindCredential, Message: MsgMissingAPIKey}
}

func invalidInputError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// normalizeError はプロバイダや通信のエラーを ServiceError に変換します。
// 生のエラー文字列は、人が読める形になっている場合にのみ利用者向けメッセージへ含めます。
func normalizeError(op Op, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}

	status, message := apiErrorDetails(err)
	if isInvalidKey(status, message) {
		return &ServiceError{Op: op, Kind: KindCredential, Status: status, Message: MsgInvalidAPIKey, Err: err}
	}

	switch {
	case errors.Is(err, context.Canceled):
		message = "the request was cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		message = "the request timed out"
	case message == "":
		message = "an unknown error occurred"
	}
	return &ServiceError{Op: op, Kind: KindRemote, Status: status, Message: opPrefix(op) + message, Err: err}
}

func opPrefix(op Op) string {
	if op == OpRender {
		return "Failed to generate image: "
	}
	return "Failed to generate prompt from image: "
}

// apiErrorDetails は genai.APIError から HTTP ステータスとメッセージを取り出します。
func apiErrorDetails(err error) (int, string) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, firstNonEmpty(apiErr.Message, http.StatusText(apiErr.Code))
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, firstNonEmpty(apiErrPtr.Message, http.StatusText(apiErrPtr.Code))
	}
	return 0, strings.TrimSpace(err.Error())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

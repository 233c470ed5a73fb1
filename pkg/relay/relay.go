// Package relay は、プロンプト生成と画像生成をサーバー側の API キーで中継する HTTP ハンドラーです。
// ブラウザなど同一オリジンのフロントエンドから呼び出されることを想定しています。
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shouni/gemini-promptcraft/pkg/credential"
	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"github.com/shouni/gemini-promptcraft/pkg/generator"
	"github.com/shouni/gemini-promptcraft/pkg/utils"
)

const (
	PathGeneratePrompt = "/api/generate-prompt"
	PathGenerateImage  = "/api/generate-image"
	PathHealth         = "/healthz"

	// MaxBodyBytes はリクエストボディの上限です。base64 化した画像を含むため大きめにしています。
	MaxBodyBytes = 32 << 20

	msgMethodNotAllowed = "Only POST requests allowed"
	msgKeyNotConfigured = "API key is not configured."
	msgPromptRequired   = "A text prompt is required."
	msgInvalidImage     = "Invalid image data provided."
	msgUnknownError     = "An unknown error occurred."
)

type wireImage struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type generatePromptRequest struct {
	Image *wireImage `json:"image"`
}

type generatePromptResponse struct {
	Prompt string `json:"prompt"`
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

type generateImageResponse struct {
	Image wireImage `json:"image"`
}

// Handler は 2 つの生成エンドポイントを提供します。
type Handler struct {
	gen   generator.PromptImageGenerator
	creds credential.Source
}

// NewHandler は Handler を生成します。creds には通常 credential.Static を渡します。
func NewHandler(gen generator.PromptImageGenerator, creds credential.Source) (*Handler, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}
	return &Handler{gen: gen, creds: creds}, nil
}

// RegisterRoutes はルーターにエンドポイントを登録します。
// POST 以外は 405 を本文付きで返すため、メソッドの判定はハンドラー側で行います。
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(PathGeneratePrompt, h.GeneratePrompt)
	r.HandleFunc(PathGenerateImage, h.GenerateImage)
	r.HandleFunc(PathHealth, h.Health).Methods(http.MethodGet, http.MethodHead)
}

// NewRouter はミドルウェアを組み込んだルーターを返します。
func NewRouter(h *Handler, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog(logger))
	h.RegisterRoutes(r)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

// GeneratePrompt は画像を受け取り、説明プロンプトを返します。
func (h *Handler) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req generatePromptRequest
	if err := decodeBody(w, r, &req); err != nil || req.Image == nil || req.Image.Data == "" || req.Image.MimeType == "" {
		writeError(w, http.StatusBadRequest, msgInvalidImage)
		return
	}
	img, err := domain.NewImageFromBase64(req.Image.Data, req.Image.MimeType)
	if err != nil || img.IsZero() {
		writeError(w, http.StatusBadRequest, msgInvalidImage)
		return
	}

	apiKey, ok := h.creds.Get()
	if !ok {
		writeError(w, http.StatusInternalServerError, msgKeyNotConfigured)
		return
	}

	prompt, err := h.gen.DescribeImage(r.Context(), img, apiKey)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, generatePromptResponse{Prompt: prompt})
}

// GenerateImage はプロンプトを受け取り、生成した画像を返します。
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req generateImageRequest
	if err := decodeBody(w, r, &req); err != nil || utils.IsBlank(req.Prompt) {
		writeError(w, http.StatusBadRequest, msgPromptRequired)
		return
	}

	apiKey, ok := h.creds.Get()
	if !ok {
		writeError(w, http.StatusInternalServerError, msgKeyNotConfigured)
		return
	}

	img, err := h.gen.RenderImage(r.Context(), req.Prompt, apiKey)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateImageResponse{
		Image: wireImage{Data: img.Base64(), MimeType: img.MimeType},
	})
}

// Health は稼働確認用です。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "生成リクエストの中継に失敗しました", "request_id", RequestIDFromContext(ctx), "error", err)
	if errors.Is(err, generator.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg := err.Error()
	if msg == "" {
		msg = msgUnknownError
	}
	writeError(w, http.StatusInternalServerError, msg)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": msgMethodNotAllowed})
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("レスポンスの書き込みに失敗しました", "error", err)
	}
}

package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"google.golang.org/genai"
)

// parseText は最初の候補からテキストパーツを連結し、前後の空白を除いて返します。
func parseText(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		if reason := abnormalFinish(candidate); reason != "" {
			return "", fmt.Errorf("prompt generation was blocked (finish reason: %s)", reason)
		}
		return "", fmt.Errorf("the model returned no description for this image")
	}
	return text, nil
}

// parseImage は最初の候補のパーツを順に調べ、最初に見つかった InlineData を返します。
func parseImage(resp *genai.GenerateContentResponse) (*domain.Image, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return nil, err
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.Image{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if reason := abnormalFinish(candidate); reason != "" {
		return nil, fmt.Errorf("image generation was blocked (finish reason: %s)", reason)
	}
	return nil, errors.New("Image generation failed. No image data received.")
}

func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("no valid response was received from Gemini")
	}
	// 現在の仕様では、最初の候補 (Candidate) のみを利用する。
	return resp.Candidates[0], nil
}

func abnormalFinish(c *genai.Candidate) genai.FinishReason {
	switch c.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return ""
	default:
		return c.FinishReason
	}
}

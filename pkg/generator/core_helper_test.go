package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestParseText(t *testing.T) {
	t.Run("思考パーツを除いてテキストを連結するのだ", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					{Text: " A quiet harbor "},
					{Text: "at dawn."},
				}},
			}},
		}
		got, err := parseText(resp)
		require.NoError(t, err)
		assert.Equal(t, "A quiet harbor at dawn.", got)
	})

	t.Run("候補が無ければエラーなのだ", func(t *testing.T) {
		_, err := parseText(&genai.GenerateContentResponse{})
		assert.Error(t, err)
		_, err = parseText(nil)
		assert.Error(t, err)
	})

	t.Run("ブロックされたら終了理由を含めるのだ", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}
		_, err := parseText(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), string(genai.FinishReasonSafety))
	})
}

func TestParseImage(t *testing.T) {
	t.Run("最初の画像パーツを返すのだ", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "caption"},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: nil}},
					{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("first")}},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("second")}},
				}},
			}},
		}
		img, err := parseImage(resp)
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), img.Data)
		assert.Equal(t, "image/jpeg", img.MimeType)
	})

	t.Run("画像が無ければ固定メッセージなのだ", func(t *testing.T) {
		_, err := parseImage(textResponse("only text"))
		require.Error(t, err)
		assert.Equal(t, "Image generation failed. No image data received.", err.Error())
	})

	t.Run("安全フィルターによるブロックを区別するのだ", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonProhibitedContent}},
		}
		_, err := parseImage(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})
}

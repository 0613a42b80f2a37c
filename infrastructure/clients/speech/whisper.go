package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// UploadLimit is the largest file the transcription endpoint accepts.
const UploadLimit = 25 << 20

type Whisper struct {
	client *openai.Client
	model  string
}

func NewWhisper(apiKey, baseURL, model string) *Whisper {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: openai.NewClientWithConfig(config), model: model}
}

func (w *Whisper) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

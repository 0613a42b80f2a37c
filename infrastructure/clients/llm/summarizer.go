package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
)

const temperature = 0.3

type Config struct {
	APIKey             string
	BaseURL            string
	Model              string
	MaxTranscriptChars int
}

// Summarizer issues exactly one chat completion per call and never retries.
type Summarizer struct {
	client   openai.Client
	model    string
	maxChars int
}

func NewSummarizer(config Config) repository.ISummarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &Summarizer{
		client:   openai.NewClient(opts...),
		model:    config.Model,
		maxChars: config.MaxTranscriptChars,
	}
}

func (s *Summarizer) Model() string { return s.model }

func (s *Summarizer) Summarize(ctx context.Context, transcript string, opts model.SummaryOptions) (string, error) {
	system, err := SystemPrompt(opts)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "failed to build prompt", err)
	}
	input := Truncate(transcript, s.maxChars)

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(input),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("model", s.model).Error("summarization request failed")
		return "", apperror.Wrap(apperror.KindSummarizationFailed, "the summarization service failed", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", apperror.New(apperror.KindSummarizationFailed, "the summarization service returned no text")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

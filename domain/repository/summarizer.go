package repository

import (
	"context"

	"video-digest/domain/model"
)

// ISummarizer turns transcript text into a summary with one model call.
type ISummarizer interface {
	Summarize(ctx context.Context, transcript string, opts model.SummaryOptions) (string, error)
	Model() string
}

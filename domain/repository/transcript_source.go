package repository

import (
	"context"

	"video-digest/domain/model"
)

// ITranscriptSource is one acquisition strategy. Failures are returned as
// *apperror.SourceError so callers can switch on the reason.
type ITranscriptSource interface {
	Name() string
	Fetch(ctx context.Context, req model.TranscriptRequest) (string, error)
}

// IMetadataProvider resolves title, channel and duration for a video id.
type IMetadataProvider interface {
	Name() string
	Metadata(ctx context.Context, videoID string) (*model.VideoMetadata, error)
}

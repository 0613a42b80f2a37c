package repository

import (
	"context"

	"video-digest/domain/model"
)

// IVideo persists videos and serves them back as a read-through cache.
type IVideo interface {
	// GetVideo returns ErrNotFound when the id was never stored.
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)
	// GetCachedSummary returns nil without error when no usable summary is stored.
	GetCachedSummary(ctx context.Context, videoID string) (*model.SummaryRecord, error)
	// UpsertVideo inserts or updates in one statement keyed by videoID; last write wins.
	UpsertVideo(ctx context.Context, videoID string, fields model.VideoFields) error
}

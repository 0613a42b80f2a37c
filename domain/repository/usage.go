package repository

import (
	"context"

	"video-digest/domain/model"
)

type IUsage interface {
	// AppendUsage records the log row and bumps users.minutes_used atomically.
	// It fails with a QuotaExceeded error, writing nothing, when the remaining
	// quota cannot cover the minutes.
	AppendUsage(ctx context.Context, entry model.UsageLog, freeMinutes int) error
	HasUsage(ctx context.Context, userID uint, videoID string) (bool, error)
	ListUsage(ctx context.Context, userID uint, limit int) ([]model.UsageLog, error)
}

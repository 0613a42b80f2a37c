package repository

import (
	"context"

	"video-digest/domain/model"
)

type ILibrary interface {
	List(ctx context.Context, q model.LibraryQuery) ([]model.LibraryEntry, int64, error)
	// Save is idempotent per (user, video).
	Save(ctx context.Context, userID uint, videoID string) (*model.LibraryEntry, error)
	// Delete returns ErrNotFound when the user never saved the video.
	Delete(ctx context.Context, userID uint, videoID string) error
}

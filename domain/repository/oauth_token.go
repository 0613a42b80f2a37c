package repository

import (
	"context"

	"video-digest/domain/model"
)

type IOAuthToken interface {
	UpsertToken(ctx context.Context, token *model.OAuthToken) error
	// GetToken returns ErrNotFound when the user has not connected the provider.
	GetToken(ctx context.Context, userID uint, provider string) (*model.OAuthToken, error)
}

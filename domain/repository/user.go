package repository

import (
	"context"

	"video-digest/domain/model"
)

type IUser interface {
	// EnsureUser creates the user on first sight and refreshes the email afterwards.
	EnsureUser(ctx context.Context, externalID, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	SetSubscriptionStatus(ctx context.Context, customerID, externalID, status string) error
}

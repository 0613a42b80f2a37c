package persistence

import (
	"context"
	"fmt"

	"video-digest/domain/model"
	"video-digest/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OAuthTokenRepository struct{ db *gorm.DB }

func NewOAuthTokenRepository(db *gorm.DB) repository.IOAuthToken {
	return &OAuthTokenRepository{db: db}
}

// UpsertToken keeps the previous refresh token when the provider omits it on re-consent.
func (r *OAuthTokenRepository) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	columns := []string{"access_token", "token_type", "expiry", "scopes", "updated_at"}
	if t.RefreshToken != "" {
		columns = append(columns, "refresh_token")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(t).Error
	if err != nil {
		return fmt.Errorf("upsert oauth token: %w", err)
	}
	return nil
}

func (r *OAuthTokenRepository) GetToken(ctx context.Context, userID uint, provider string) (*model.OAuthToken, error) {
	var tok model.OAuthToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Take(&tok).Error
	if err != nil {
		if notFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get oauth token: %w", err)
	}
	return &tok, nil
}

package persistence

import (
	"context"
	"fmt"

	"video-digest/domain/model"
	"video-digest/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) repository.IUser {
	return &UserRepository{db: db}
}

func (r *UserRepository) EnsureUser(ctx context.Context, externalID, email string) (*model.User, error) {
	user, err := r.GetByExternalID(ctx, externalID)
	if err == nil {
		if email != "" && user.Email != email {
			if err := r.db.WithContext(ctx).Model(user).Update("email", email).Error; err != nil {
				return nil, fmt.Errorf("update email: %w", err)
			}
			user.Email = email
		}
		return user, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	// Two first requests may race; the loser's insert is a no-op.
	fresh := model.User{ExternalID: externalID, Email: email, SubscriptionStatus: model.SubscriptionNone}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(&fresh).Error
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return r.GetByExternalID(ctx, externalID)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		if notFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).Take(&user).Error; err != nil {
		if notFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", externalID, err)
	}
	return &user, nil
}

// SetSubscriptionStatus matches on the external id when known, else on the
// payment customer id.
func (r *UserRepository) SetSubscriptionStatus(ctx context.Context, customerID, externalID, status string) error {
	updates := map[string]interface{}{"subscription_status": status}
	query := r.db.WithContext(ctx).Model(&model.User{})
	switch {
	case externalID != "":
		query = query.Where("external_id = ?", externalID)
		if customerID != "" {
			updates["payment_customer_id"] = customerID
		}
	case customerID != "":
		query = query.Where("payment_customer_id = ?", customerID)
	default:
		return repository.ErrNotFound
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("set subscription status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

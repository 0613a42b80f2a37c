package persistence

import (
	"context"
	"errors"
	"fmt"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errAlreadyCharged = errors.New("usage already recorded")

type UsageRepository struct{ db *gorm.DB }

func NewUsageRepository(db *gorm.DB) repository.IUsage {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) AppendUsage(ctx context.Context, entry model.UsageLog, freeMinutes int) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guard makes the check and the increment one statement.
		res := tx.Model(&model.User{}).
			Where("id = ? AND minutes_used + ? <= ? + minutes_purchased", entry.UserID, entry.Minutes, freeMinutes).
			UpdateColumn("minutes_used", gorm.Expr("minutes_used + ?", entry.Minutes))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.New(apperror.KindQuotaExceeded, "not enough minutes left for this video").
				WithDetails(map[string]interface{}{"requiredMinutes": entry.Minutes})
		}

		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent request already charged this video; undo our increment.
			return errAlreadyCharged
		}
		return nil
	})

	switch {
	case err == nil, errors.Is(err, errAlreadyCharged):
		return nil
	case apperror.Is(err, apperror.KindQuotaExceeded):
		return err
	default:
		return fmt.Errorf("append usage: %w", err)
	}
}

func (r *UsageRepository) HasUsage(ctx context.Context, userID uint, videoID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UsageLog{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count usage: %w", err)
	}
	return count > 0, nil
}

func (r *UsageRepository) ListUsage(ctx context.Context, userID uint, limit int) ([]model.UsageLog, error) {
	var logs []model.UsageLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return logs, nil
}

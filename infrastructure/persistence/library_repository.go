package persistence

import (
	"context"
	"fmt"
	"strings"

	"video-digest/domain/model"
	"video-digest/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LibraryRepository struct{ db *gorm.DB }

func NewLibraryRepository(db *gorm.DB) repository.ILibrary {
	return &LibraryRepository{db: db}
}

func (r *LibraryRepository) List(ctx context.Context, q model.LibraryQuery) ([]model.LibraryEntry, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&model.LibraryEntry{}).
			Joins("JOIN videos ON videos.video_id = library_entries.video_id").
			Where("library_entries.user_id = ?", q.UserID)
		if q.VideoID != "" {
			db = db.Where("library_entries.video_id = ?", q.VideoID)
		}
		if q.Search != "" {
			like := "%" + strings.ToLower(q.Search) + "%"
			db = db.Where("(LOWER(videos.title) LIKE ? OR LOWER(videos.channel_name) LIKE ?)", like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count library: %w", err)
	}

	var entries []model.LibraryEntry
	err := r.db.WithContext(ctx).Scopes(filter).
		Preload("Video").
		Order("library_entries.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list library: %w", err)
	}
	return entries, total, nil
}

func (r *LibraryRepository) Save(ctx context.Context, userID uint, videoID string) (*model.LibraryEntry, error) {
	entry := model.LibraryEntry{UserID: userID, VideoID: videoID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoNothing: true,
	}).Omit("Video").Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("save library entry: %w", err)
	}

	var saved model.LibraryEntry
	err = r.db.WithContext(ctx).Preload("Video").
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Take(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("reload library entry: %w", err)
	}
	return &saved, nil
}

func (r *LibraryRepository) Delete(ctx context.Context, userID uint, videoID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&model.LibraryEntry{})
	if res.Error != nil {
		return fmt.Errorf("delete library entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

package persistence

import (
	"fmt"

	"video-digest/domain/model"
	"video-digest/infrastructure/logger"

	"gorm.io/gorm"
)

// EnsureSchema migrates every table the service owns. Safe to call at startup.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.UsageLog{},
		&model.LibraryEntry{},
		&model.PaymentEvent{},
		&model.OAuthToken{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Search lowercases title/channel; only postgres gets expression indexes.
	if db.Dialector.Name() == "postgres" {
		for _, ddl := range []string{
			`CREATE INDEX IF NOT EXISTS idx_videos_title_lower ON videos (LOWER(title))`,
			`CREATE INDEX IF NOT EXISTS idx_videos_channel_lower ON videos (LOWER(channel_name))`,
		} {
			if err := db.Exec(ddl).Error; err != nil {
				logger.GetLogger().WithField("error", err).Warn("failed creating search index")
			}
		}
	}
	return nil
}

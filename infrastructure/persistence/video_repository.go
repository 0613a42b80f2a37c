package persistence

import (
	"context"
	"fmt"

	"video-digest/domain/model"
	"video-digest/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository struct{ db *gorm.DB }

func NewVideoRepository(db *gorm.DB) repository.IVideo {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Take(&video).Error
	if err != nil {
		if notFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}
	return &video, nil
}

func (r *VideoRepository) GetCachedSummary(ctx context.Context, videoID string) (*model.SummaryRecord, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Select("video_id", "summary").Where("video_id = ?", videoID).Take(&video).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached summary %s: %w", videoID, err)
	}
	rec, ok := video.CachedSummary()
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// UpsertVideo writes the row with a single INSERT .. ON CONFLICT statement.
// Only supplied fields are overwritten on conflict.
func (r *VideoRepository) UpsertVideo(ctx context.Context, videoID string, fields model.VideoFields) error {
	video := model.Video{VideoID: videoID}
	columns := []string{"updated_at"}

	if fields.Title != nil {
		video.Title = *fields.Title
		columns = append(columns, "title")
	}
	if fields.ChannelName != nil {
		video.ChannelName = *fields.ChannelName
		columns = append(columns, "channel_name")
	}
	if fields.DurationSeconds != nil {
		video.DurationSeconds = *fields.DurationSeconds
		columns = append(columns, "duration_seconds")
	}
	if fields.MetadataSource != nil {
		video.MetadataSource = *fields.MetadataSource
		columns = append(columns, "metadata_source")
	}
	if fields.Transcript != nil {
		video.Transcript = fields.Transcript
		columns = append(columns, "transcript")
	}
	if fields.TranscriptSource != nil {
		video.TranscriptSource = *fields.TranscriptSource
		columns = append(columns, "transcript_source")
	}
	if fields.Summary != nil {
		encoded, err := fields.Summary.Encode()
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		video.Summary = &encoded
		columns = append(columns, "summary")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&video).Error
	if err != nil {
		return fmt.Errorf("upsert video %s: %w", videoID, err)
	}
	return nil
}

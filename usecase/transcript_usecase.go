package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/events"
	"video-digest/infrastructure/logger"
)

type TranscribeRequest struct {
	VideoID         string
	Language        string
	UserAccessToken string
}

type TranscribeResult struct {
	VideoID          string `json:"videoId"`
	Title            string `json:"title"`
	ChannelName      string `json:"channelName"`
	DurationSeconds  int    `json:"durationSeconds"`
	Transcript       string `json:"transcript"`
	Source           string `json:"source"`
	Cached           bool   `json:"cached"`
	MinutesCharged   int    `json:"minutesCharged"`
	RemainingMinutes int    `json:"remainingMinutes"`
}

type QuotaPolicy struct {
	FreeMinutes     int
	MaxVideoMinutes int
}

type ITranscriptUsecase interface {
	Transcribe(ctx context.Context, user *model.User, req TranscribeRequest) (*TranscribeResult, error)
}

type TranscriptUsecase struct {
	videos      repository.IVideo
	usage       repository.IUsage
	metadata    IMetadataResolver
	coordinator ITranscriptCoordinator
	notifier    *events.Notifier
	policy      QuotaPolicy
}

func NewTranscriptUsecase(
	videos repository.IVideo,
	usage repository.IUsage,
	metadata IMetadataResolver,
	coordinator ITranscriptCoordinator,
	notifier *events.Notifier,
	policy QuotaPolicy,
) ITranscriptUsecase {
	return &TranscriptUsecase{
		videos:      videos,
		usage:       usage,
		metadata:    metadata,
		coordinator: coordinator,
		notifier:    notifier,
		policy:      policy,
	}
}

// Transcribe serves a stored transcript when one exists and otherwise runs
// the source chain and stores the result. Each user pays once per video.
func (u *TranscriptUsecase) Transcribe(ctx context.Context, user *model.User, req TranscribeRequest) (*TranscribeResult, error) {
	if user == nil {
		return nil, apperror.New(apperror.KindUnauthorized, "sign in to analyse videos")
	}

	stored, err := u.videos.GetVideo(ctx, req.VideoID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load video", err)
	}

	meta, err := u.resolveMetadata(ctx, req.VideoID, stored)
	if err != nil {
		return nil, err
	}

	if limit := u.policy.MaxVideoMinutes; limit > 0 && meta.DurationSeconds > limit*60 {
		return nil, apperror.New(apperror.KindVideoTooLong, fmt.Sprintf("videos longer than %d minutes are not supported", limit)).
			WithDetails(details{"durationSeconds": meta.DurationSeconds, "maxMinutes": limit})
	}

	charged, err := u.usage.HasUsage(ctx, user.ID, req.VideoID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to read usage", err)
	}
	minutes := model.BillableMinutes(meta.DurationSeconds)
	remaining := user.RemainingMinutes(u.policy.FreeMinutes)
	if !charged && remaining < minutes {
		return nil, quotaExceeded(remaining, minutes)
	}

	result := &TranscribeResult{
		VideoID:         req.VideoID,
		Title:           meta.Title,
		ChannelName:     meta.ChannelName,
		DurationSeconds: meta.DurationSeconds,
	}

	if stored.HasFetchedTranscript() {
		result.Transcript = *stored.Transcript
		result.Source = stored.TranscriptSource
		result.Cached = true
	} else {
		transcript, _, err := u.coordinator.Fetch(ctx, model.TranscriptRequest{
			VideoID:         req.VideoID,
			UserID:          user.ID,
			UserAccessToken: req.UserAccessToken,
			Language:        req.Language,
		})
		if err != nil {
			return nil, err
		}
		result.Transcript = transcript.Text
		result.Source = transcript.Source

		fields := meta.Fields()
		fields.Transcript = &transcript.Text
		fields.TranscriptSource = &transcript.Source
		if err := u.videos.UpsertVideo(ctx, req.VideoID, fields); err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to store transcript", err)
		}
	}

	if !charged {
		err := u.usage.AppendUsage(ctx, model.UsageLog{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			VideoID: req.VideoID,
			Minutes: minutes,
			Source:  result.Source,
		}, u.policy.FreeMinutes)
		if err != nil {
			if apperror.Is(err, apperror.KindQuotaExceeded) {
				return nil, err
			}
			return nil, apperror.Wrap(apperror.KindInternal, "failed to record usage", err)
		}
		result.MinutesCharged = minutes
		remaining -= minutes
	}
	result.RemainingMinutes = remaining

	u.notifier.Notify(ctx, model.EventAnalysisCompleted, details{
		"userId":         user.ExternalID,
		"videoId":        req.VideoID,
		"source":         result.Source,
		"cached":         result.Cached,
		"minutesCharged": result.MinutesCharged,
	})
	logger.GetLogger().WithField("videoId", req.VideoID).WithField("cached", result.Cached).WithField("minutes", result.MinutesCharged).Info("transcript served")
	return result, nil
}

// resolveMetadata trusts a stored duration only when a provider wrote it.
func (u *TranscriptUsecase) resolveMetadata(ctx context.Context, videoID string, stored *model.Video) (*model.VideoMetadata, error) {
	if stored.HasResolvedMetadata() {
		return &model.VideoMetadata{
			VideoID:         videoID,
			Title:           stored.Title,
			ChannelName:     stored.ChannelName,
			DurationSeconds: stored.DurationSeconds,
			Source:          stored.MetadataSource,
		}, nil
	}
	return u.metadata.Resolve(ctx, videoID)
}

func quotaExceeded(remaining, required int) *apperror.Error {
	return apperror.New(apperror.KindQuotaExceeded, "not enough processing minutes left").
		WithDetails(details{"remainingMinutes": remaining, "requiredMinutes": required})
}

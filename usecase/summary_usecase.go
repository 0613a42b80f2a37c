package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/events"
	"video-digest/infrastructure/metrics"
	"video-digest/infrastructure/utils"
)

const (
	DefaultMaxLength = 250
	MinMaxLength     = 50
	MaxMaxLength     = 2000
	DefaultLanguage  = "English"
)

type SummarizeRequest struct {
	Transcript string
	Style      model.SummaryStyle
	MaxLength  int
	Language   string
	VideoID    string
}

// Normalize fills defaults and rejects out-of-range options.
func (r *SummarizeRequest) Normalize() error {
	r.Transcript = strings.TrimSpace(r.Transcript)
	r.Language = strings.TrimSpace(r.Language)
	if r.Style == "" {
		r.Style = model.StyleBrief
	}
	if !r.Style.Valid() {
		return apperror.New(apperror.KindValidation, fmt.Sprintf("unknown style %q", r.Style))
	}
	if r.MaxLength == 0 {
		r.MaxLength = DefaultMaxLength
	}
	if r.MaxLength < MinMaxLength || r.MaxLength > MaxMaxLength {
		return apperror.New(apperror.KindValidation, fmt.Sprintf("maxLength must be between %d and %d", MinMaxLength, MaxMaxLength))
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.VideoID != "" && !utils.IsValidVideoID(r.VideoID) {
		return apperror.New(apperror.KindValidation, "videoId is not a valid video id")
	}
	if r.Transcript == "" && r.VideoID == "" {
		return apperror.New(apperror.KindValidation, "transcript or videoId is required")
	}
	return nil
}

type SummaryResult struct {
	Summary     string             `json:"summary"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Cached      bool               `json:"cached"`
	Style       model.SummaryStyle `json:"style"`
	MaxLength   int                `json:"maxLength"`
	Language    string             `json:"language"`
}

type ISummaryUsecase interface {
	Summarize(ctx context.Context, user *model.User, req SummarizeRequest) (*SummaryResult, error)
}

type SummaryUsecase struct {
	videos     repository.IVideo
	summarizer repository.ISummarizer
	notifier   *events.Notifier
	metrics    *metrics.Metrics
	timeout    time.Duration
}

func NewSummaryUsecase(videos repository.IVideo, summarizer repository.ISummarizer, notifier *events.Notifier, m *metrics.Metrics, timeout time.Duration) ISummaryUsecase {
	return &SummaryUsecase{videos: videos, summarizer: summarizer, notifier: notifier, metrics: m, timeout: timeout}
}

// Summarize returns the stored summary for a video when there is one; the
// summarization client is only called on a miss. Concurrent misses for the
// same video both call it and the later write wins.
func (u *SummaryUsecase) Summarize(ctx context.Context, user *model.User, req SummarizeRequest) (*SummaryResult, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	if req.VideoID != "" {
		cached, err := u.videos.GetCachedSummary(ctx, req.VideoID)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to read cached summary", err)
		}
		if cached != nil {
			u.metrics.Summary(true)
			return resultFromRecord(cached, true), nil
		}
		if req.Transcript == "" {
			transcript, err := u.storedTranscript(ctx, req.VideoID)
			if err != nil {
				return nil, err
			}
			req.Transcript = transcript
		}
	}

	if u.summarizer == nil {
		return nil, apperror.New(apperror.KindSummarizationFailed, "summaries are not configured")
	}

	callCtx := ctx
	if u.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}
	opts := model.SummaryOptions{Style: req.Style, MaxLength: req.MaxLength, Language: req.Language}
	text, err := u.summarizer.Summarize(callCtx, req.Transcript, opts)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			return nil, apperror.Wrap(apperror.KindSummarizationFailed, "the summarization service failed", err)
		}
		return nil, err
	}

	record := model.SummaryRecord{
		Text:        text,
		GeneratedAt: time.Now().UTC(),
		Style:       req.Style,
		MaxLength:   req.MaxLength,
		Language:    req.Language,
		Model:       u.summarizer.Model(),
	}
	if req.VideoID != "" {
		if err := u.videos.UpsertVideo(ctx, req.VideoID, model.VideoFields{Summary: &record}); err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to store summary", err)
		}
	}

	u.metrics.Summary(false)
	data := details{"videoId": req.VideoID, "style": string(req.Style), "language": req.Language}
	if user != nil {
		data["userId"] = user.ExternalID
	}
	u.notifier.Notify(ctx, model.EventSummaryGenerated, data)
	return resultFromRecord(&record, false), nil
}

func (u *SummaryUsecase) storedTranscript(ctx context.Context, videoID string) (string, error) {
	video, err := u.videos.GetVideo(ctx, videoID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", apperror.Wrap(apperror.KindInternal, "failed to load video", err)
	}
	if !video.HasTranscript() {
		return "", apperror.New(apperror.KindValidation, "transcript is required for a video that has not been transcribed")
	}
	return *video.Transcript, nil
}

func resultFromRecord(rec *model.SummaryRecord, cached bool) *SummaryResult {
	return &SummaryResult{
		Summary:     rec.Text,
		GeneratedAt: rec.GeneratedAt,
		Cached:      cached,
		Style:       rec.Style,
		MaxLength:   rec.MaxLength,
		Language:    rec.Language,
	}
}

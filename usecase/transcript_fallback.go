package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/metrics"
)

// TimedSource bounds one transcript source with its own deadline.
type TimedSource struct {
	Source  repository.ITranscriptSource
	Timeout time.Duration
}

type ITranscriptCoordinator interface {
	Fetch(ctx context.Context, req model.TranscriptRequest) (*model.Transcript, []model.TranscriptAttempt, error)
}

// TranscriptCoordinator tries sources in order and returns the first
// non-empty transcript. Source failures never escape on their own; only the
// aggregated failure does.
type TranscriptCoordinator struct {
	sources []TimedSource
	metrics *metrics.Metrics
}

func NewTranscriptCoordinator(m *metrics.Metrics, sources ...TimedSource) ITranscriptCoordinator {
	return &TranscriptCoordinator{sources: sources, metrics: m}
}

func (c *TranscriptCoordinator) Fetch(ctx context.Context, req model.TranscriptRequest) (*model.Transcript, []model.TranscriptAttempt, error) {
	attempts := make([]model.TranscriptAttempt, 0, len(c.sources))
	for _, ts := range c.sources {
		name := ts.Source.Name()
		text, err := c.call(ctx, ts, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = apperror.NewSourceError(name, apperror.ReasonEmpty, nil)
		}
		if err == nil {
			c.metrics.SourceAttempt(name, "success")
			logger.GetLogger().WithField("videoId", req.VideoID).WithField("source", name).Info("transcript acquired")
			return &model.Transcript{Text: text, Source: name}, attempts, nil
		}

		attempt := attemptFromError(name, err)
		attempts = append(attempts, attempt)
		c.metrics.SourceAttempt(name, attempt.Reason)
		if attempt.Reason != string(apperror.ReasonDisabled) {
			logger.GetLogger().WithField("videoId", req.VideoID).WithField("source", name).WithField("reason", attempt.Reason).Warn("transcript source failed")
		}
	}
	return nil, attempts, aggregate(attempts)
}

func (c *TranscriptCoordinator) call(ctx context.Context, ts TimedSource, req model.TranscriptRequest) (string, error) {
	if ts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ts.Timeout)
		defer cancel()
	}
	return ts.Source.Fetch(ctx, req)
}

// aggregate prefers a video-level reason over the generic kind, in the order
// private, age restricted, unavailable.
func aggregate(attempts []model.TranscriptAttempt) error {
	kind := apperror.KindNoTranscriptAvailable
	message := "no transcript available"
	for _, reason := range []apperror.Reason{apperror.ReasonPrivate, apperror.ReasonAgeRestricted, apperror.ReasonUnavailable} {
		if hasReason(attempts, reason) {
			kind = reason.Kind()
			message = videoMessage(reason)
			break
		}
	}

	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Source, a.Reason))
	}
	if len(parts) > 0 {
		message = fmt.Sprintf("%s (%s)", message, strings.Join(parts, "; "))
	}
	return apperror.New(kind, message).WithDetails(details{"attempts": attempts})
}

func hasReason(attempts []model.TranscriptAttempt, reason apperror.Reason) bool {
	for _, a := range attempts {
		if a.Reason == string(reason) {
			return true
		}
	}
	return false
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
)

type IMetadataResolver interface {
	Resolve(ctx context.Context, videoID string) (*model.VideoMetadata, error)
}

// MetadataResolver asks each provider in turn. A provider that sees the
// video as private, removed or age restricted ends the search.
type MetadataResolver struct {
	providers []repository.IMetadataProvider
	timeout   time.Duration
}

func NewMetadataResolver(timeout time.Duration, providers ...repository.IMetadataProvider) IMetadataResolver {
	return &MetadataResolver{providers: providers, timeout: timeout}
}

func (r *MetadataResolver) Resolve(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	var attempts []model.TranscriptAttempt
	for _, provider := range r.providers {
		meta, err := r.call(ctx, provider, videoID)
		if err == nil {
			if meta.Source == "" {
				meta.Source = provider.Name()
			}
			return meta, nil
		}

		attempt := attemptFromError(provider.Name(), err)
		attempts = append(attempts, attempt)

		reason := apperror.Reason(attempt.Reason)
		if reason.Definitive() {
			return nil, apperror.Wrap(reason.Kind(), videoMessage(reason), err).
				WithDetails(details{"attempts": attempts})
		}
		if reason != apperror.ReasonDisabled {
			logger.GetLogger().WithField("provider", provider.Name()).WithField("error", err).Warn("metadata provider failed")
		}
	}
	return nil, apperror.New(apperror.KindUpstream, "could not resolve video metadata").
		WithDetails(details{"attempts": attempts})
}

func (r *MetadataResolver) call(ctx context.Context, provider repository.IMetadataProvider, videoID string) (*model.VideoMetadata, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return provider.Metadata(ctx, videoID)
}

type details = map[string]interface{}

func attemptFromError(source string, err error) model.TranscriptAttempt {
	var srcErr *apperror.SourceError
	if errors.As(err, &srcErr) {
		msg := ""
		if srcErr.Err != nil {
			msg = firstLine(srcErr.Err.Error())
		}
		return model.TranscriptAttempt{Source: source, Reason: string(srcErr.Reason), Message: msg}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.TranscriptAttempt{Source: source, Reason: string(apperror.ReasonTimeout), Message: err.Error()}
	}
	return model.TranscriptAttempt{Source: source, Reason: string(apperror.ReasonUpstream), Message: firstLine(err.Error())}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func videoMessage(reason apperror.Reason) string {
	switch reason {
	case apperror.ReasonPrivate:
		return "this video is private"
	case apperror.ReasonAgeRestricted:
		return "this video is age restricted"
	default:
		return "this video is unavailable"
	}
}

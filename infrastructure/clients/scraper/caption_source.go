package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/clients/captions"
)

const SourceCaptionScrape = "caption-scrape"

// CaptionSource reads the caption tracks advertised on the public watch page.
type CaptionSource struct {
	client *Client
}

func NewCaptionSource(client *Client) repository.ITranscriptSource {
	return &CaptionSource{client: client}
}

func (s *CaptionSource) Name() string { return SourceCaptionScrape }

func (s *CaptionSource) Fetch(ctx context.Context, req model.TranscriptRequest) (string, error) {
	player, err := s.client.FetchPlayer(ctx, req.VideoID)
	if err != nil {
		return "", classify(SourceCaptionScrape, err)
	}
	if reason := player.PlayabilityReason(); reason != "" {
		return "", apperror.NewSourceError(SourceCaptionScrape, reason, errors.New(player.PlayabilityStatus.Reason))
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	track, ok := PickTrack(player.Tracks(), language)
	if !ok {
		return "", apperror.NewSourceError(SourceCaptionScrape, apperror.ReasonNoCaptions, nil)
	}

	trackURL, err := TimedTextURL(track, language)
	if err != nil {
		return "", apperror.NewSourceError(SourceCaptionScrape, apperror.ReasonUpstream, err)
	}
	body, err := s.client.Get(ctx, trackURL)
	if err != nil {
		return "", classify(SourceCaptionScrape, err)
	}

	text, err := captions.ParseTimedText(bytes.NewReader(body))
	if err != nil {
		return "", apperror.NewSourceError(SourceCaptionScrape, apperror.ReasonUpstream, fmt.Errorf("parse timed text: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return "", apperror.NewSourceError(SourceCaptionScrape, apperror.ReasonEmpty, nil)
	}
	return text, nil
}

// classify turns transport failures into source reasons.
func classify(source string, err error) error {
	var statusErr *StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.NewSourceError(source, apperror.ReasonTimeout, err)
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return apperror.NewSourceError(source, apperror.ReasonUnavailable, err)
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusForbidden:
		return apperror.NewSourceError(source, apperror.ReasonForbidden, err)
	default:
		return apperror.NewSourceError(source, apperror.ReasonUpstream, err)
	}
}

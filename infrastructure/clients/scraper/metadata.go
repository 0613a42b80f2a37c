package scraper

import (
	"context"
	"errors"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
)

const SourceWatchPage = "watch-page"

type WatchPageMetadata struct {
	client *Client
}

func NewWatchPageMetadata(client *Client) repository.IMetadataProvider {
	return &WatchPageMetadata{client: client}
}

func (m *WatchPageMetadata) Name() string { return SourceWatchPage }

func (m *WatchPageMetadata) Metadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	player, err := m.client.FetchPlayer(ctx, videoID)
	if err != nil {
		return nil, classify(SourceWatchPage, err)
	}
	if reason := player.PlayabilityReason(); reason != "" {
		return nil, apperror.NewSourceError(SourceWatchPage, reason, errors.New(player.PlayabilityStatus.Reason))
	}
	if player.DurationSeconds() == 0 {
		return nil, apperror.NewSourceError(SourceWatchPage, apperror.ReasonUpstream, errors.New("watch page has no length"))
	}

	return &model.VideoMetadata{
		VideoID:         videoID,
		Title:           player.VideoDetails.Title,
		ChannelName:     player.VideoDetails.Author,
		DurationSeconds: player.DurationSeconds(),
		HasCaptions:     len(player.Tracks()) > 0,
		Source:          SourceWatchPage,
	}, nil
}

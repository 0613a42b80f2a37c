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
	"video-digest/infrastructure/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxExportItems  = 5000
)

type SaveLibraryRequest struct {
	VideoID     string
	Title       string
	ChannelName string
	Transcript  string
	Summary     string
}

type LibraryPage struct {
	Items []model.LibraryEntry `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type ILibraryUsecase interface {
	List(ctx context.Context, user *model.User, q model.LibraryQuery) (*LibraryPage, error)
	Save(ctx context.Context, user *model.User, req SaveLibraryRequest) (*model.LibraryEntry, error)
	Delete(ctx context.Context, user *model.User, videoID string) error
	Export(ctx context.Context, user *model.User) ([]model.LibraryEntry, error)
}

type LibraryUsecase struct {
	library  repository.ILibrary
	videos   repository.IVideo
	metadata IMetadataResolver
}

func NewLibraryUsecase(library repository.ILibrary, videos repository.IVideo, metadata IMetadataResolver) ILibraryUsecase {
	return &LibraryUsecase{library: library, videos: videos, metadata: metadata}
}

func (u *LibraryUsecase) List(ctx context.Context, user *model.User, q model.LibraryQuery) (*LibraryPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if q.VideoID != "" && !utils.IsValidVideoID(q.VideoID) {
		return nil, apperror.New(apperror.KindValidation, "videoId is not a valid video id")
	}
	q.UserID = user.ID
	q.Search = strings.TrimSpace(q.Search)

	items, total, err := u.library.List(ctx, q)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to list library", err)
	}
	if items == nil {
		items = []model.LibraryEntry{}
	}
	return &LibraryPage{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Save links the video to the user. Metadata always comes from the resolver;
// the client's title is only a fallback when no provider answers. Client text
// fills the shared row only where it has nothing yet.
func (u *LibraryUsecase) Save(ctx context.Context, user *model.User, req SaveLibraryRequest) (*model.LibraryEntry, error) {
	if !utils.IsValidVideoID(req.VideoID) {
		return nil, apperror.New(apperror.KindValidation, "videoId is not a valid video id")
	}

	stored, err := u.videos.GetVideo(ctx, req.VideoID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to load video", err)
		}
		stored = nil
	}

	fields := model.VideoFields{}
	if !stored.HasResolvedMetadata() {
		meta, err := u.metadata.Resolve(ctx, req.VideoID)
		switch {
		case err == nil:
			fields = meta.Fields()
		case req.Title != "" && stored == nil:
			logger.GetLogger().WithField("error", err).WithField("videoId", req.VideoID).Warn("metadata unavailable, keeping client title")
			fields.Title = &req.Title
			fields.ChannelName = &req.ChannelName
		case stored == nil:
			return nil, err
		}
	}
	if t := strings.TrimSpace(req.Transcript); t != "" && !stored.HasTranscript() {
		source := model.TranscriptSourceLibrary
		fields.Transcript = &t
		fields.TranscriptSource = &source
	}
	if s := strings.TrimSpace(req.Summary); s != "" {
		if _, ok := stored.CachedSummary(); !ok {
			fields.Summary = &model.SummaryRecord{Text: s, GeneratedAt: time.Now().UTC()}
		}
	}

	if err := u.videos.UpsertVideo(ctx, req.VideoID, fields); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to store video", err)
	}
	entry, err := u.library.Save(ctx, user.ID, req.VideoID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to save to library", err)
	}
	return entry, nil
}

// Delete unlinks the video from the user; the shared video row stays.
func (u *LibraryUsecase) Delete(ctx context.Context, user *model.User, videoID string) error {
	if !utils.IsValidVideoID(videoID) {
		return apperror.New(apperror.KindValidation, "videoId is not a valid video id")
	}
	if err := u.library.Delete(ctx, user.ID, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.New(apperror.KindNotFound, "video is not in your library")
		}
		return apperror.Wrap(apperror.KindInternal, "failed to delete from library", err)
	}
	return nil
}

// Export reads the whole library page by page, newest first.
func (u *LibraryUsecase) Export(ctx context.Context, user *model.User) ([]model.LibraryEntry, error) {
	all := []model.LibraryEntry{}
	for page := 1; len(all) < maxExportItems; page++ {
		items, total, err := u.library.List(ctx, model.LibraryQuery{UserID: user.ID, Page: page, Limit: maxPageSize})
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to export library", err)
		}
		all = append(all, items...)
		if len(items) < maxPageSize || int64(len(all)) >= total {
			break
		}
	}
	return all, nil
}

package youtube

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
)

const (
	SourceOfficialUser = "official-user"
	SourceOfficialKey  = "official-key"
	SourceOfficialMeta = "official-api"
)

func language(req model.TranscriptRequest) string {
	if req.Language != "" {
		return req.Language
	}
	return "en"
}

// KeySource downloads captions with the service API key. Most videos refuse
// caption downloads without OAuth, which surfaces as a forbidden reason.
type KeySource struct {
	client *Client
}

func NewKeySource(client *Client) repository.ITranscriptSource {
	return &KeySource{client: client}
}

func (s *KeySource) Name() string { return SourceOfficialKey }

func (s *KeySource) Fetch(ctx context.Context, req model.TranscriptRequest) (string, error) {
	if s.client == nil || !s.client.HasAPIKey() {
		return "", apperror.NewSourceError(SourceOfficialKey, apperror.ReasonDisabled, errors.New("no API key configured"))
	}
	return downloadTranscript(ctx, s.client.keyService, req.VideoID, language(req), SourceOfficialKey)
}

// UserSource downloads captions with the caller's own Google grant.
type UserSource struct {
	client *Client
	tokens repository.IOAuthToken
}

func NewUserSource(client *Client, tokens repository.IOAuthToken) repository.ITranscriptSource {
	return &UserSource{client: client, tokens: tokens}
}

func (s *UserSource) Name() string { return SourceOfficialUser }

func (s *UserSource) Fetch(ctx context.Context, req model.TranscriptRequest) (string, error) {
	if s.client == nil {
		return "", apperror.NewSourceError(SourceOfficialUser, apperror.ReasonDisabled, errors.New("YouTube client not configured"))
	}

	token, stored, err := s.token(ctx, req)
	if err != nil {
		return "", err
	}

	service, ts, err := s.client.userService(ctx, token)
	if err != nil {
		return "", apperror.NewSourceError(SourceOfficialUser, apperror.ReasonUpstream, err)
	}
	text, err := downloadTranscript(ctx, service, req.VideoID, language(req), SourceOfficialUser)

	if stored != nil {
		s.persistRefreshed(ctx, stored, ts)
	}
	return text, err
}

func (s *UserSource) token(ctx context.Context, req model.TranscriptRequest) (*oauth2.Token, *model.OAuthToken, error) {
	if req.UserAccessToken != "" {
		return &oauth2.Token{AccessToken: req.UserAccessToken, TokenType: "Bearer"}, nil, nil
	}
	if s.tokens == nil || req.UserID == 0 {
		return nil, nil, apperror.NewSourceError(SourceOfficialUser, apperror.ReasonDisabled, errors.New("no user grant"))
	}

	stored, err := s.tokens.GetToken(ctx, req.UserID, model.ProviderYouTube)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperror.NewSourceError(SourceOfficialUser, apperror.ReasonDisabled, errors.New("user has not connected YouTube"))
		}
		return nil, nil, apperror.NewSourceError(SourceOfficialUser, apperror.ReasonUpstream, err)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
	}
	if stored.Expiry != nil {
		token.Expiry = *stored.Expiry
	}
	return token, stored, nil
}

func (s *UserSource) persistRefreshed(ctx context.Context, stored *model.OAuthToken, ts oauth2.TokenSource) {
	current, err := ts.Token()
	if err != nil || current.AccessToken == stored.AccessToken {
		return
	}
	updated := *stored
	updated.AccessToken = current.AccessToken
	updated.TokenType = current.TokenType
	if current.RefreshToken != "" {
		updated.RefreshToken = current.RefreshToken
	}
	if !current.Expiry.IsZero() {
		expiry := current.Expiry.UTC()
		updated.Expiry = &expiry
	}
	updated.UpdatedAt = time.Now().UTC()
	if err := s.tokens.UpsertToken(ctx, &updated); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to persist refreshed YouTube token")
	}
}

// KeyMetadata resolves metadata with the service API key.
type KeyMetadata struct {
	client *Client
}

func NewKeyMetadata(client *Client) repository.IMetadataProvider {
	return &KeyMetadata{client: client}
}

func (m *KeyMetadata) Name() string { return SourceOfficialMeta }

func (m *KeyMetadata) Metadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	if m.client == nil || !m.client.HasAPIKey() {
		return nil, apperror.NewSourceError(SourceOfficialMeta, apperror.ReasonDisabled, errors.New("no API key configured"))
	}
	return videoMetadata(ctx, m.client.keyService, videoID, SourceOfficialMeta)
}

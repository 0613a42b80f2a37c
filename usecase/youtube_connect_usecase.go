package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/oauth2"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/utils"
)

const (
	stateAudience = "youtube-connect"
	stateTTL      = 10 * time.Minute
)

// IOAuthClient is the part of the video API client the connect flow needs.
type IOAuthClient interface {
	HasOAuth() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

type IYouTubeConnectUsecase interface {
	AuthURL(user *model.User) (string, error)
	Callback(ctx context.Context, state, code string) (uint, error)
}

// YouTubeConnectUsecase links a user's Google account so captions can be
// downloaded with their own grant. The OAuth state is a short-lived signed
// token naming the user, so no server-side session is needed.
type YouTubeConnectUsecase struct {
	client IOAuthClient
	tokens repository.IOAuthToken
	secret string
	scopes []string
}

func NewYouTubeConnectUsecase(client IOAuthClient, tokens repository.IOAuthToken, secret string, scopes []string) IYouTubeConnectUsecase {
	return &YouTubeConnectUsecase{client: client, tokens: tokens, secret: secret, scopes: scopes}
}

func (u *YouTubeConnectUsecase) AuthURL(user *model.User) (string, error) {
	if u.client == nil || !u.client.HasOAuth() {
		return "", apperror.New(apperror.KindNotFound, "YouTube connect is not configured")
	}
	now := time.Now()
	state, err := utils.GenerateToken(jwt.StandardClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Audience:  stateAudience,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(stateTTL).Unix(),
	}, u.secret)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "failed to sign state", err)
	}
	return u.client.AuthCodeURL(state), nil
}

func (u *YouTubeConnectUsecase) Callback(ctx context.Context, state, code string) (uint, error) {
	if u.client == nil || !u.client.HasOAuth() {
		return 0, apperror.New(apperror.KindNotFound, "YouTube connect is not configured")
	}
	if state == "" || code == "" {
		return 0, apperror.New(apperror.KindValidation, "state and code are required")
	}

	var claims jwt.StandardClaims
	if err := utils.ParseToken(state, u.secret, &claims); err != nil || !claims.VerifyAudience(stateAudience, true) {
		return 0, apperror.New(apperror.KindUnauthorized, "invalid or expired state")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperror.New(apperror.KindUnauthorized, "invalid state subject")
	}

	token, err := u.client.Exchange(ctx, code)
	if err != nil {
		return 0, apperror.Wrap(apperror.KindUpstream, "failed to exchange authorization code", err)
	}

	record := &model.OAuthToken{
		UserID:       uint(userID),
		Provider:     model.ProviderYouTube,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scopes:       strings.Join(u.scopes, " "),
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		record.Expiry = &expiry
	}
	if err := u.tokens.UpsertToken(ctx, record); err != nil {
		return 0, apperror.Wrap(apperror.KindInternal, "failed to store YouTube grant", err)
	}
	return uint(userID), nil
}

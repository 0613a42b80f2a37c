package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/infrastructure/clients/captions"
)

// Client talks to the YouTube Data API, either with the service API key or
// on behalf of a user who connected their Google account.
type Client struct {
	keyService  *youtube.Service
	oauthConfig *oauth2.Config
	endpoint    string
}

type Config struct {
	APIKey       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Endpoint and HTTPClient override the API host, mostly for tests.
	Endpoint   string
	HTTPClient *http.Client
}

func NewYouTubeClient(ctx context.Context, config Config) (*Client, error) {
	c := &Client{endpoint: config.Endpoint}

	if config.APIKey != "" {
		opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
		if config.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(config.Endpoint))
		}
		if config.HTTPClient != nil {
			opts = append(opts, option.WithHTTPClient(config.HTTPClient))
		}
		service, err := youtube.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		c.keyService = service
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		scopes := config.Scopes
		if len(scopes) == 0 {
			scopes = []string{youtube.YoutubeForceSslScope}
		}
		c.oauthConfig = &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		}
	}
	return c, nil
}

func (c *Client) HasAPIKey() bool { return c.keyService != nil }

func (c *Client) HasOAuth() bool { return c.oauthConfig != nil }

// AuthCodeURL asks for offline access so the grant survives the session.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.oauthConfig.Exchange(ctx, code)
}

// userService builds a per-call service; the returned source yields the
// possibly refreshed token after the call.
func (c *Client) userService(ctx context.Context, token *oauth2.Token) (*youtube.Service, oauth2.TokenSource, error) {
	var ts oauth2.TokenSource
	if c.oauthConfig != nil && token.RefreshToken != "" {
		ts = c.oauthConfig.TokenSource(ctx, token)
	} else {
		ts = oauth2.StaticTokenSource(token)
	}
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}
	return service, ts, nil
}

// videoMetadata reads snippet and contentDetails for one video.
func videoMetadata(ctx context.Context, service *youtube.Service, videoID, source string) (*model.VideoMetadata, error) {
	resp, err := service.Videos.List([]string{"snippet", "contentDetails", "status"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(source, err)
	}
	if len(resp.Items) == 0 {
		// The API hides private and deleted videos alike.
		return nil, apperror.NewSourceError(source, apperror.ReasonUnavailable, errors.New("video not returned by videos.list"))
	}

	video := resp.Items[0]
	if video.Status != nil && video.Status.PrivacyStatus == "private" {
		return nil, apperror.NewSourceError(source, apperror.ReasonPrivate, nil)
	}

	meta := &model.VideoMetadata{VideoID: videoID, Source: source}
	if video.Snippet != nil {
		meta.Title = video.Snippet.Title
		meta.ChannelName = video.Snippet.ChannelTitle
	}
	if video.ContentDetails != nil {
		seconds, err := ParseISODuration(video.ContentDetails.Duration)
		if err != nil {
			return nil, apperror.NewSourceError(source, apperror.ReasonUpstream, err)
		}
		meta.DurationSeconds = seconds
		meta.HasCaptions = video.ContentDetails.Caption == "true"
	}
	return meta, nil
}

// downloadTranscript lists the caption tracks and downloads the best one as SRT.
func downloadTranscript(ctx context.Context, service *youtube.Service, videoID, language, source string) (string, error) {
	list, err := service.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return "", classify(source, err)
	}
	track := pickCaption(list.Items, language)
	if track == nil {
		return "", apperror.NewSourceError(source, apperror.ReasonNoCaptions, nil)
	}

	resp, err := service.Captions.Download(track.Id).Tfmt("srt").Context(ctx).Download()
	if err != nil {
		return "", classify(source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.NewSourceError(source, apperror.ReasonUpstream, err)
	}
	text := captions.ParseSubtitles(string(body))
	if strings.TrimSpace(text) == "" {
		return "", apperror.NewSourceError(source, apperror.ReasonEmpty, nil)
	}
	return text, nil
}

// pickCaption prefers a standard track in the language over an ASR one.
func pickCaption(items []*youtube.Caption, language string) *youtube.Caption {
	var fallback *youtube.Caption
	for _, item := range items {
		if item.Snippet == nil {
			continue
		}
		if strings.HasPrefix(item.Snippet.Language, language) {
			if item.Snippet.TrackKind != "asr" {
				return item
			}
			if fallback == nil {
				fallback = item
			}
		}
	}
	if fallback != nil {
		return fallback
	}
	for _, item := range items {
		if item.Snippet != nil {
			return item
		}
	}
	return nil
}

func classify(source string, err error) error {
	var apiErr *googleapi.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.NewSourceError(source, apperror.ReasonTimeout, err)
	case errors.As(err, &apiErr) && (apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusUnauthorized):
		return apperror.NewSourceError(source, apperror.ReasonForbidden, err)
	case errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound:
		return apperror.NewSourceError(source, apperror.ReasonNoCaptions, err)
	default:
		return apperror.NewSourceError(source, apperror.ReasonUpstream, err)
	}
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts values like PT3M33S into seconds.
func ParseISODuration(value string) (int, error) {
	m := isoDuration.FindStringSubmatch(value)
	if m == nil || value == "P" || value == "PT" {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", value)
	}
	units := []int{86400, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		total += n * unit
	}
	return total, nil
}

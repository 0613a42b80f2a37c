package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"

	"video-digest/domain/apperror"
)

var playerMarkers = [][]byte{
	[]byte("var ytInitialPlayerResponse = "),
	[]byte("ytInitialPlayerResponse = "),
}

var errNoPlayerResponse = errors.New("player response not found in watch page")

type PlayerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
		IsPrivate     bool   `json:"isPrivate"`
	} `json:"videoDetails"`
	Captions struct {
		Renderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

func (t CaptionTrack) Generated() bool { return t.Kind == "asr" }

func (p *PlayerResponse) Tracks() []CaptionTrack {
	return p.Captions.Renderer.CaptionTracks
}

func (p *PlayerResponse) DurationSeconds() int {
	n, _ := strconv.Atoi(p.VideoDetails.LengthSeconds)
	return n
}

// PlayabilityReason maps the page's playability status onto a source reason.
// An empty reason means the video plays.
func (p *PlayerResponse) PlayabilityReason() apperror.Reason {
	switch p.PlayabilityStatus.Status {
	case "", "OK":
		return ""
	case "ERROR":
		return apperror.ReasonUnavailable
	case "AGE_CHECK_REQUIRED", "AGE_VERIFICATION_REQUIRED", "CONTENT_CHECK_REQUIRED":
		return apperror.ReasonAgeRestricted
	case "LOGIN_REQUIRED":
		reason := strings.ToLower(p.PlayabilityStatus.Reason)
		switch {
		case p.VideoDetails.IsPrivate || strings.Contains(reason, "private"):
			return apperror.ReasonPrivate
		case strings.Contains(reason, "confirm your age"):
			return apperror.ReasonAgeRestricted
		}
		// Bot checks also arrive as LOGIN_REQUIRED; other providers may still work.
		return apperror.ReasonForbidden
	default:
		return apperror.ReasonUnavailable
	}
}

// FetchPlayer downloads the watch page and decodes its embedded player response.
func (c *Client) FetchPlayer(ctx context.Context, videoID string) (*PlayerResponse, error) {
	page, err := c.Get(ctx, c.baseURL+"/watch?v="+url.QueryEscape(videoID)+"&hl=en")
	if err != nil {
		return nil, err
	}
	return extractPlayerResponse(page)
}

func extractPlayerResponse(page []byte) (*PlayerResponse, error) {
	for _, marker := range playerMarkers {
		idx := bytes.Index(page, marker)
		if idx < 0 {
			continue
		}
		var player PlayerResponse
		// The decoder stops at the end of the object and ignores the trailing script.
		if err := json.NewDecoder(bytes.NewReader(page[idx+len(marker):])).Decode(&player); err != nil {
			return nil, fmt.Errorf("decode player response: %w", err)
		}
		return &player, nil
	}
	return nil, errNoPlayerResponse
}

type timedTextOptions struct {
	Format    string `url:"fmt,omitempty"`
	Translate string `url:"tlang,omitempty"`
}

// TimedTextURL rewrites a track URL to request the given language through
// machine translation when the track is in another language.
func TimedTextURL(track CaptionTrack, language string) (string, error) {
	u, err := url.Parse(track.BaseURL)
	if err != nil {
		return "", err
	}
	opts := timedTextOptions{Format: "srv3"}
	if language != "" && !strings.HasPrefix(track.LanguageCode, language) {
		opts.Translate = language
	}
	extra, err := query.Values(opts)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PickTrack prefers a manual track in the language, then a generated one,
// then any manual track, then whatever exists.
func PickTrack(tracks []CaptionTrack, language string) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	matches := func(t CaptionTrack) bool { return strings.HasPrefix(t.LanguageCode, language) }
	for _, t := range tracks {
		if matches(t) && !t.Generated() {
			return t, true
		}
	}
	for _, t := range tracks {
		if matches(t) {
			return t, true
		}
	}
	for _, t := range tracks {
		if !t.Generated() {
			return t, true
		}
	}
	return tracks[0], true
}

package utils

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	ErrInvalidVideoID = errors.New("not a valid YouTube video id or URL")
	ErrPlaylistURL    = errors.New("playlist URLs are not supported")
)

func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// ParseVideoID accepts a bare id or any of the usual watch/short/embed URLs.
func ParseVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if IsValidVideoID(input) {
		return input, nil
	}
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", ErrInvalidVideoID
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case segments[0] == "playlist":
			return "", ErrPlaylistURL
		case segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live" || segments[0] == "v"):
			id = segments[1]
		}
	default:
		return "", ErrInvalidVideoID
	}

	if !IsValidVideoID(id) {
		return "", ErrInvalidVideoID
	}
	return id, nil
}

// WatchURL is the canonical page for an id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

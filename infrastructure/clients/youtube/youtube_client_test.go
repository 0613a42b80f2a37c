package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
)

const videosJSON = `{"items": [{
	"id": "dQw4w9WgXcQ",
	"snippet": {"title": "Never Gonna Give You Up", "channelTitle": "Rick Astley"},
	"contentDetails": {"duration": "PT3M33S", "caption": "true"},
	"status": {"privacyStatus": "public"}
}]}`

const captionsJSON = `{"items": [
	{"id": "asr-track", "snippet": {"language": "en", "trackKind": "asr"}},
	{"id": "manual-track", "snippet": {"language": "en", "trackKind": "standard"}}
]}`

func newAPIServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewYouTubeClient(context.Background(), Config{APIKey: "test-key", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestParseISODuration(t *testing.T) {
	cases := map[string]int{
		"PT3M33S":  213,
		"PT1H":     3600,
		"PT45S":    45,
		"P1DT2H":   93600,
		"PT10M":    600,
		"PT1H2M3S": 3723,
	}
	for in, want := range cases {
		got, err := ParseISODuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "P", "PT", "3M33S", "PT3X"} {
		_, err := ParseISODuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestKeyMetadata(t *testing.T) {
	client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, videosJSON)
	})

	meta, err := NewKeyMetadata(client).Metadata(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", meta.Title)
	assert.Equal(t, "Rick Astley", meta.ChannelName)
	assert.Equal(t, 213, meta.DurationSeconds)
	assert.True(t, meta.HasCaptions)
	assert.Equal(t, SourceOfficialMeta, meta.Source)
}

func TestKeyMetadata_MissingVideo(t *testing.T) {
	client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	})

	_, err := NewKeyMetadata(client).Metadata(context.Background(), "aaaaaaaaaaa")

	var srcErr *apperror.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, apperror.ReasonUnavailable, srcErr.Reason)
}

func TestKeySource_PrefersManualTrack(t *testing.T) {
	client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/captions":
			fmt.Fprint(w, captionsJSON)
		case "/youtube/v3/captions/manual-track":
			assert.Equal(t, "srt", r.URL.Query().Get("tfmt"))
			fmt.Fprint(w, "1\n00:00:00,000 --> 00:00:02,000\nNever gonna give you up...\n")
		default:
			http.NotFound(w, r)
		}
	})

	text, err := NewKeySource(client).Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, "Never gonna give you up...", text)
}

func TestKeySource_ForbiddenDownload(t *testing.T) {
	client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/youtube/v3/captions" {
			fmt.Fprint(w, captionsJSON)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "forbidden"}}`)
	})

	_, err := NewKeySource(client).Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	var srcErr *apperror.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, apperror.ReasonForbidden, srcErr.Reason)
	assert.Equal(t, SourceOfficialKey, srcErr.Source)
}

func TestKeySource_DisabledWithoutKey(t *testing.T) {
	client, err := NewYouTubeClient(context.Background(), Config{})
	require.NoError(t, err)

	_, err = NewKeySource(client).Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	var srcErr *apperror.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, apperror.ReasonDisabled, srcErr.Reason)
}

func TestUserSource_UsesSuppliedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/youtube/v3/captions":
			fmt.Fprint(w, captionsJSON)
		default:
			fmt.Fprint(w, "1\n00:00:00,000 --> 00:00:02,000\nhello from the owner\n")
		}
	}))
	defer srv.Close()

	client, err := NewYouTubeClient(context.Background(), Config{Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	text, err := NewUserSource(client, nil).Fetch(context.Background(), model.TranscriptRequest{
		VideoID:         "dQw4w9WgXcQ",
		UserAccessToken: "user-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from the owner", text)
}

func TestUserSource_DisabledWithoutGrant(t *testing.T) {
	client, err := NewYouTubeClient(context.Background(), Config{})
	require.NoError(t, err)

	_, err = NewUserSource(client, nil).Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ", UserID: 7})

	var srcErr *apperror.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, apperror.ReasonDisabled, srcErr.Reason)
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/usecase"
)

func failing(name string, reason apperror.Reason) *MockSource {
	src := NewMockSource(name)
	src.On("Fetch", mock.Anything, mock.Anything).Return("", apperror.NewSourceError(name, reason, nil))
	return src
}

func timed(sources ...*MockSource) []usecase.TimedSource {
	out := make([]usecase.TimedSource, 0, len(sources))
	for _, s := range sources {
		out = append(out, usecase.TimedSource{Source: s, Timeout: time.Second})
	}
	return out
}

func TestCoordinatorStopsAtFirstSuccess(t *testing.T) {
	first := failing("official-user", apperror.ReasonDisabled)
	second := NewMockSource("caption-scrape")
	second.On("Fetch", mock.Anything, mock.Anything).Return("hello world", nil)
	third := NewMockSource("audio")

	coordinator := usecase.NewTranscriptCoordinator(nil, timed(first, second, third)...)
	transcript, attempts, err := coordinator.Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	require.NoError(t, err)
	assert.Equal(t, "hello world", transcript.Text)
	assert.Equal(t, "caption-scrape", transcript.Source)
	require.Len(t, attempts, 1)
	assert.Equal(t, "official-user", attempts[0].Source)
	third.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestCoordinatorTreatsBlankTextAsFailure(t *testing.T) {
	blank := NewMockSource("official-key")
	blank.On("Fetch", mock.Anything, mock.Anything).Return("   \n", nil)
	next := NewMockSource("caption-scrape")
	next.On("Fetch", mock.Anything, mock.Anything).Return("text", nil)

	transcript, attempts, err := usecase.NewTranscriptCoordinator(nil, timed(blank, next)...).
		Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	require.NoError(t, err)
	assert.Equal(t, "caption-scrape", transcript.Source)
	assert.Equal(t, string(apperror.ReasonEmpty), attempts[0].Reason)
}

func TestCoordinatorAggregatesEveryFailure(t *testing.T) {
	sources := []*MockSource{
		failing("official-user", apperror.ReasonDisabled),
		failing("official-key", apperror.ReasonNoCaptions),
		failing("caption-scrape", apperror.ReasonNoCaptions),
		failing("audio", apperror.ReasonDisabled),
	}

	transcript, attempts, err := usecase.NewTranscriptCoordinator(nil, timed(sources...)...).
		Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	require.Error(t, err)
	assert.Nil(t, transcript)
	assert.Len(t, attempts, 4)
	assert.Equal(t, apperror.KindNoTranscriptAvailable, apperror.KindOf(err))
	for _, s := range sources {
		assert.Contains(t, err.Error(), s.Name())
	}
}

func TestCoordinatorPrefersVideoLevelReason(t *testing.T) {
	sources := []*MockSource{
		failing("official-key", apperror.ReasonForbidden),
		failing("caption-scrape", apperror.ReasonAgeRestricted),
		failing("audio", apperror.ReasonUnavailable),
	}

	_, _, err := usecase.NewTranscriptCoordinator(nil, timed(sources...)...).
		Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	assert.Equal(t, apperror.KindVideoAgeRestricted, apperror.KindOf(err))
}

func TestCoordinatorBoundsEachSource(t *testing.T) {
	slow := NewMockSource("official-key")
	slow.On("Fetch", mock.Anything, mock.Anything).Return("", context.DeadlineExceeded).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	})
	fast := NewMockSource("caption-scrape")
	fast.On("Fetch", mock.Anything, mock.Anything).Return("ok", nil)

	coordinator := usecase.NewTranscriptCoordinator(nil,
		usecase.TimedSource{Source: slow, Timeout: 20 * time.Millisecond},
		usecase.TimedSource{Source: fast, Timeout: time.Second},
	)
	transcript, attempts, err := coordinator.Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	require.NoError(t, err)
	assert.Equal(t, "ok", transcript.Text)
	assert.Equal(t, string(apperror.ReasonTimeout), attempts[0].Reason)
}

func TestCoordinatorWrapsPlainErrorsAsUpstream(t *testing.T) {
	broken := NewMockSource("caption-scrape")
	broken.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("connection reset\nstack"))

	_, attempts, err := usecase.NewTranscriptCoordinator(nil, timed(broken)...).
		Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	assert.Equal(t, apperror.KindNoTranscriptAvailable, apperror.KindOf(err))
	assert.Equal(t, string(apperror.ReasonUpstream), attempts[0].Reason)
	assert.Equal(t, "connection reset", attempts[0].Message)
}

package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
)

type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) ExtractAudio(ctx context.Context, url, outputTemplate string) error {
	return m.Called(ctx, url, outputTemplate).Error(0)
}

type MockSplitter struct {
	mock.Mock
}

func (m *MockSplitter) Split(ctx context.Context, file string, n int) ([]string, error) {
	args := m.Called(ctx, file, n)
	chunks, _ := args.Get(0).([]string)
	return chunks, args.Error(1)
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// writesFile fakes a yt-dlp download of size bytes into the template's directory.
func writesFile(t *testing.T, videoID string, size int) func(mock.Arguments) {
	return func(args mock.Arguments) {
		dir := filepath.Dir(args.String(2))
		require.NoError(t, os.WriteFile(filepath.Join(dir, videoID+".mp3"), make([]byte, size), 0o644))
	}
}

func inDir(dir, name string) interface{} {
	return mock.MatchedBy(func(path string) bool {
		return filepath.Dir(filepath.Dir(path)) == dir && filepath.Base(path) == name
	})
}

func TestAudioSource_SmallFile(t *testing.T) {
	dir := t.TempDir()

	downloader := new(MockDownloader)
	downloader.On("ExtractAudio", mock.Anything, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", inDir(dir, "%(id)s.%(ext)s")).
		Run(writesFile(t, "dQw4w9WgXcQ", 1024)).Return(nil)
	splitter := new(MockSplitter)
	transcriber := new(MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, inDir(dir, "dQw4w9WgXcQ.mp3")).Return("never gonna give you up", nil)

	text, err := NewAudioSource(downloader, splitter, transcriber, dir).Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, "never gonna give you up", text)
	splitter.AssertNotCalled(t, "Split", mock.Anything, mock.Anything, mock.Anything)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left, "fetch directory is removed")
}

func TestAudioSource_SplitsLargeFile(t *testing.T) {
	dir := t.TempDir()

	downloader := new(MockDownloader)
	downloader.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Run(writesFile(t, "dQw4w9WgXcQ", 2500)).Return(nil)
	splitter := new(MockSplitter)
	splitter.On("Split", mock.Anything, inDir(dir, "dQw4w9WgXcQ.mp3"), 3).Return([]string{"c0", "c1", "c2"}, nil)
	transcriber := new(MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, "c0").Return("one", nil)
	transcriber.On("Transcribe", mock.Anything, "c1").Return("two", nil)
	transcriber.On("Transcribe", mock.Anything, "c2").Return("three", nil)

	source := NewAudioSource(downloader, splitter, transcriber, dir).(*AudioSource)
	source.limit = 1000

	text, err := source.Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, "one two three", text)
	splitter.AssertExpectations(t)
}

// overlappingDownloader writes the file and then waits until every caller
// has downloaded, so the fetches run side by side.
type overlappingDownloader struct {
	ready *sync.WaitGroup
}

func (d overlappingDownloader) ExtractAudio(_ context.Context, _, outputTemplate string) error {
	err := os.WriteFile(filepath.Join(filepath.Dir(outputTemplate), "dQw4w9WgXcQ.mp3"), []byte("audio"), 0o644)
	d.ready.Done()
	d.ready.Wait()
	return err
}

// statTranscriber fails when the file it is given has been removed.
type statTranscriber struct{}

func (statTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return "text", nil
}

func TestAudioSource_ConcurrentFetchesOfOneVideo(t *testing.T) {
	dir := t.TempDir()
	ready := &sync.WaitGroup{}
	ready.Add(2)
	source := NewAudioSource(overlappingDownloader{ready: ready}, new(MockSplitter), statTranscriber{}, dir)

	errs := make([]error, 2)
	var done sync.WaitGroup
	for i := range errs {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			_, errs[i] = source.Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})
		}(i)
	}
	done.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestAudioSource_DisabledWithoutTranscriber(t *testing.T) {
	_, err := NewAudioSource(new(MockDownloader), new(MockSplitter), nil, t.TempDir()).
		Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	var srcErr *apperror.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, apperror.ReasonDisabled, srcErr.Reason)
}

func TestAudioSource_TranscriptionFailure(t *testing.T) {
	dir := t.TempDir()
	downloader := new(MockDownloader)
	downloader.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Run(writesFile(t, "dQw4w9WgXcQ", 10)).Return(nil)
	transcriber := new(MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("", errors.New("429 rate limited"))

	_, err := NewAudioSource(downloader, new(MockSplitter), transcriber, dir).
		Fetch(context.Background(), model.TranscriptRequest{VideoID: "dQw4w9WgXcQ"})

	var srcErr *apperror.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, apperror.ReasonUpstream, srcErr.Reason)
}

package audio

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ret := m.Called(ctx, name, args)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

func TestSplitter_Split(t *testing.T) {
	dir := t.TempDir()
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "ffprobe", mock.Anything).Return([]byte("601.5\n"), nil)
	runner.On("Run", mock.Anything, "ffmpeg", mock.Anything).Return([]byte(""), nil)

	file := filepath.Join(dir, "dQw4w9WgXcQ.mp3")
	chunks, err := NewSplitter(runner, "ffmpeg", "ffprobe").Split(context.Background(), file, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "dQw4w9WgXcQ_chunk_0.mp3"),
		filepath.Join(dir, "dQw4w9WgXcQ_chunk_1.mp3"),
		filepath.Join(dir, "dQw4w9WgXcQ_chunk_2.mp3"),
	}, chunks)

	// 601.5s over three chunks rounds up to 201s each.
	second := runner.Calls[2].Arguments.Get(2).([]string)
	assert.Equal(t, []string{"-v", "quiet", "-i", file, "-ss", "201", "-t", "201", "-c:a", "copy", "-y", chunks[1]}, second)
}

func TestSplitter_SingleChunkIsOriginal(t *testing.T) {
	runner := new(MockRunner)
	chunks, err := NewSplitter(runner, "ffmpeg", "ffprobe").Split(context.Background(), "a.mp3", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, chunks)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestSplitter_DurationError(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "ffprobe", mock.Anything).Return([]byte("boom"), errors.New("exit status 1"))

	_, err := NewSplitter(runner, "ffmpeg", "ffprobe").Split(context.Background(), "a.mp3", 2)
	assert.ErrorContains(t, err, "ffprobe failed")
}

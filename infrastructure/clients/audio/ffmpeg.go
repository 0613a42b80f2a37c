package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Splitter cuts audio files with ffmpeg so each piece fits the
// speech-to-text upload limit.
type Splitter struct {
	runner  CommandRunner
	ffmpeg  string
	ffprobe string
}

func NewSplitter(runner CommandRunner, ffmpeg, ffprobe string) *Splitter {
	return &Splitter{runner: runner, ffmpeg: ffmpeg, ffprobe: ffprobe}
}

// Duration returns the file length in seconds.
func (s *Splitter) Duration(ctx context.Context, file string) (float64, error) {
	output, err := s.runner.Run(ctx, s.ffprobe,
		"-i", file,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}
	return duration, nil
}

// Split divides the file into n chunks of equal length, written next to the
// input. Chunks already written are removed when a later one fails.
func (s *Splitter) Split(ctx context.Context, file string, n int) ([]string, error) {
	if n <= 1 {
		return []string{file}, nil
	}

	duration, err := s.Duration(ctx, file)
	if err != nil {
		return nil, err
	}

	chunkSeconds := int(math.Ceil(duration / float64(n)))
	chunks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		output := filepath.Join(filepath.Dir(file), fmt.Sprintf("%s_chunk_%d.mp3", strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)), i))
		if err := s.chunk(ctx, file, i*chunkSeconds, chunkSeconds, output); err != nil {
			Cleanup(chunks...)
			return nil, fmt.Errorf("creating chunk %d: %w", i, err)
		}
		chunks = append(chunks, output)
	}
	return chunks, nil
}

func (s *Splitter) chunk(ctx context.Context, file string, start, seconds int, output string) error {
	out, err := s.runner.Run(ctx, s.ffmpeg,
		"-v", "quiet",
		"-i", file,
		"-ss", strconv.Itoa(start),
		"-t", strconv.Itoa(seconds),
		"-c:a", "copy",
		"-y", output)
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(out))
	}
	return nil
}

func Cleanup(files ...string) {
	for _, f := range files {
		_ = os.Remove(f)
	}
}

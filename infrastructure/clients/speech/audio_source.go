package speech

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/clients/ytdlp"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/utils"
)

const SourceAudio = "audio"

type Downloader interface {
	ExtractAudio(ctx context.Context, url, outputTemplate string) error
}

type Splitter interface {
	Split(ctx context.Context, file string, n int) ([]string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// AudioSource is the last resort: download the audio track and run it
// through speech-to-text, chunked to stay under the upload limit.
type AudioSource struct {
	downloader  Downloader
	splitter    Splitter
	transcriber Transcriber
	workDir     string
	limit       int64
}

// NewAudioSource returns a source that always reports disabled when
// transcriber is nil.
func NewAudioSource(downloader Downloader, splitter Splitter, transcriber Transcriber, workDir string) repository.ITranscriptSource {
	return &AudioSource{
		downloader:  downloader,
		splitter:    splitter,
		transcriber: transcriber,
		workDir:     workDir,
		limit:       UploadLimit,
	}
}

func (s *AudioSource) Name() string { return SourceAudio }

func (s *AudioSource) Fetch(ctx context.Context, req model.TranscriptRequest) (string, error) {
	if s.transcriber == nil || s.downloader == nil {
		return "", apperror.NewSourceError(SourceAudio, apperror.ReasonDisabled, errors.New("speech-to-text not configured"))
	}
	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", apperror.NewSourceError(SourceAudio, apperror.ReasonUpstream, err)
	}
	// Each fetch owns its directory so concurrent requests for one video
	// never touch each other's files.
	dir, err := os.MkdirTemp(s.workDir, req.VideoID+"-*")
	if err != nil {
		return "", apperror.NewSourceError(SourceAudio, apperror.ReasonUpstream, err)
	}
	defer os.RemoveAll(dir)

	template := filepath.Join(dir, "%(id)s.%(ext)s")
	if err := s.downloader.ExtractAudio(ctx, utils.WatchURL(req.VideoID), template); err != nil {
		return "", ytdlp.Classify(ctx, SourceAudio, err)
	}
	file := filepath.Join(dir, req.VideoID+".mp3")

	info, err := os.Stat(file)
	if err != nil {
		return "", apperror.NewSourceError(SourceAudio, apperror.ReasonUpstream, fmt.Errorf("downloaded audio missing: %w", err))
	}

	chunks := []string{file}
	if n := int(math.Ceil(float64(info.Size()) / float64(s.limit))); n > 1 {
		chunks, err = s.splitter.Split(ctx, file, n)
		if err != nil {
			return "", apperror.NewSourceError(SourceAudio, apperror.ReasonUpstream, err)
		}
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		text, err := s.transcriber.Transcribe(ctx, chunk)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", apperror.NewSourceError(SourceAudio, apperror.ReasonTimeout, err)
			}
			return "", apperror.NewSourceError(SourceAudio, apperror.ReasonUpstream, err)
		}
		logger.GetLogger().WithField("videoId", req.VideoID).WithField("chunk", i+1).WithField("chunks", len(chunks)).Debug("transcribed audio chunk")
		if text != "" {
			parts = append(parts, text)
		}
	}

	text := strings.Join(parts, " ")
	if strings.TrimSpace(text) == "" {
		return "", apperror.NewSourceError(SourceAudio, apperror.ReasonEmpty, nil)
	}
	return text, nil
}

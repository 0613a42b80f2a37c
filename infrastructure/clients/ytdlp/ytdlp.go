package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/utils"
)

const SourceYtDlp = "yt-dlp"

// Runner is the subset of yt-dlp the service drives.
type Runner interface {
	DumpJSON(ctx context.Context, url string) ([]byte, error)
	ExtractAudio(ctx context.Context, url, outputTemplate string) error
}

// ToolError keeps yt-dlp's stderr so failures can be classified.
type ToolError struct {
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("yt-dlp failed: %v: %s", e.Err, strings.TrimSpace(e.Stderr))
}

func (e *ToolError) Unwrap() error { return e.Err }

type Client struct {
	executable string
}

// NewClient uses the yt-dlp found on PATH unless an explicit path is given.
func NewClient(executable string) *Client {
	return &Client{executable: executable}
}

func (c *Client) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if c.executable != "" {
		cmd = cmd.SetExecutable(c.executable)
	}
	return cmd
}

func (c *Client) DumpJSON(ctx context.Context, url string) ([]byte, error) {
	result, err := c.command().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload().
		Run(ctx, url)
	if err != nil {
		return nil, toolError(result, err)
	}
	return []byte(result.Stdout), nil
}

// ExtractAudio downloads the lowest quality mp3; small files keep speech-to-text cheap.
func (c *Client) ExtractAudio(ctx context.Context, url, outputTemplate string) error {
	result, err := c.command().
		Format("bestaudio").
		NoPlaylist().
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("10").
		Output(outputTemplate).
		Run(ctx, url)
	if err != nil {
		return toolError(result, err)
	}
	return nil
}

func toolError(result *ytdlp.Result, err error) error {
	stderr := ""
	if result != nil {
		stderr = result.Stderr
	}
	return &ToolError{Stderr: stderr, Err: err}
}

type videoInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Channel           string                     `json:"channel"`
	Uploader          string                     `json:"uploader"`
	Duration          float64                    `json:"duration"`
	Availability      string                     `json:"availability"`
	AgeLimit          int                        `json:"age_limit"`
	LiveStatus        string                     `json:"live_status"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// Metadata is the last metadata provider; it works when both the API and the
// watch page scrape are blocked.
type Metadata struct {
	runner Runner
}

func NewMetadata(runner Runner) repository.IMetadataProvider {
	return &Metadata{runner: runner}
}

func (m *Metadata) Name() string { return SourceYtDlp }

func (m *Metadata) Metadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	out, err := m.runner.DumpJSON(ctx, utils.WatchURL(videoID))
	if err != nil {
		return nil, Classify(ctx, SourceYtDlp, err)
	}

	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, apperror.NewSourceError(SourceYtDlp, apperror.ReasonUpstream, fmt.Errorf("parse yt-dlp json: %w", err))
	}

	switch info.Availability {
	case "private":
		return nil, apperror.NewSourceError(SourceYtDlp, apperror.ReasonPrivate, nil)
	case "needs_auth", "subscriber_only", "premium_only":
		if info.AgeLimit >= 18 {
			return nil, apperror.NewSourceError(SourceYtDlp, apperror.ReasonAgeRestricted, nil)
		}
		return nil, apperror.NewSourceError(SourceYtDlp, apperror.ReasonPrivate, nil)
	}

	channel := info.Channel
	if channel == "" {
		channel = info.Uploader
	}
	meta := &model.VideoMetadata{
		VideoID:         videoID,
		Title:           info.Title,
		ChannelName:     channel,
		DurationSeconds: int(math.Round(info.Duration)),
		HasCaptions:     len(info.Subtitles) > 0 || len(info.AutomaticCaptions) > 0,
		Source:          SourceYtDlp,
	}
	logger.GetLogger().WithField("videoId", videoID).WithField("live", info.LiveStatus).Debug("resolved metadata via yt-dlp")
	return meta, nil
}

// Classify reads yt-dlp's error output. The tool only reports these
// conditions as text, so the matching stays inside this package.
func Classify(ctx context.Context, source string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.NewSourceError(source, apperror.ReasonTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "private video"):
		return apperror.NewSourceError(source, apperror.ReasonPrivate, err)
	case strings.Contains(msg, "confirm your age"), strings.Contains(msg, "age-restricted"):
		return apperror.NewSourceError(source, apperror.ReasonAgeRestricted, err)
	case strings.Contains(msg, "video unavailable"), strings.Contains(msg, "has been removed"):
		return apperror.NewSourceError(source, apperror.ReasonUnavailable, err)
	default:
		return apperror.NewSourceError(source, apperror.ReasonUpstream, err)
	}
}

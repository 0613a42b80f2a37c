package model

import (
	"strings"
	"time"
)

// Video is the shared per-video row; transcript and summary double as the
// read-through cache.
type Video struct {
	VideoID          string    `json:"videoId"                    gorm:"primaryKey;size:32"`
	Title            string    `json:"title"                      gorm:"size:512"`
	ChannelName      string    `json:"channelName"                gorm:"size:256"`
	DurationSeconds  int       `json:"durationSeconds"`
	MetadataSource   string    `json:"-"                          gorm:"size:32"`
	Transcript       *string   `json:"transcript,omitempty"`
	TranscriptSource string    `json:"transcriptSource,omitempty" gorm:"size:32"`
	Summary          *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"                  gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updatedAt"                  gorm:"autoUpdateTime;index"`
}

func (Video) TableName() string { return "videos" }

// TranscriptSourceLibrary marks text a client supplied with a library save.
const TranscriptSourceLibrary = "library"

func (v *Video) HasTranscript() bool {
	return v != nil && v.Transcript != nil && strings.TrimSpace(*v.Transcript) != ""
}

// HasFetchedTranscript reports a transcript that came from a source adapter.
func (v *Video) HasFetchedTranscript() bool {
	return v.HasTranscript() && v.TranscriptSource != TranscriptSourceLibrary
}

// HasResolvedMetadata reports a duration written by a metadata provider.
func (v *Video) HasResolvedMetadata() bool {
	return v != nil && v.MetadataSource != "" && v.DurationSeconds > 0
}

// CachedSummary returns the stored summary only when it decodes to non-empty text.
func (v *Video) CachedSummary() (*SummaryRecord, bool) {
	if v == nil || v.Summary == nil {
		return nil, false
	}
	rec, err := DecodeSummaryRecord(*v.Summary)
	if err != nil || strings.TrimSpace(rec.Text) == "" {
		return nil, false
	}
	return rec, true
}

// VideoFields carries the columns an upsert should write. Nil pointers are left untouched.
type VideoFields struct {
	Title            *string
	ChannelName      *string
	DurationSeconds  *int
	MetadataSource   *string
	Transcript       *string
	TranscriptSource *string
	Summary          *SummaryRecord
}

// VideoMetadata is what metadata providers resolve before any transcript work.
type VideoMetadata struct {
	VideoID         string `json:"videoId"`
	Title           string `json:"title"`
	ChannelName     string `json:"channelName"`
	DurationSeconds int    `json:"durationSeconds"`
	HasCaptions     bool   `json:"hasCaptions"`
	Source          string `json:"source"`
}

func (m VideoMetadata) Fields() VideoFields {
	title, channel, duration, source := m.Title, m.ChannelName, m.DurationSeconds, m.Source
	return VideoFields{Title: &title, ChannelName: &channel, DurationSeconds: &duration, MetadataSource: &source}
}

package model

import (
	"encoding/json"
	"strings"
	"time"
)

type SummaryStyle string

const (
	StyleBrief    SummaryStyle = "brief"
	StyleDetailed SummaryStyle = "detailed"
	StyleBullets  SummaryStyle = "bullets"
	StyleChapters SummaryStyle = "chapters"
)

func (s SummaryStyle) Valid() bool {
	switch s {
	case StyleBrief, StyleDetailed, StyleBullets, StyleChapters:
		return true
	}
	return false
}

type SummaryOptions struct {
	Style     SummaryStyle
	MaxLength int
	Language  string
}

// SummaryRecord is stored serialized in videos.summary.
type SummaryRecord struct {
	Text        string       `json:"text"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Style       SummaryStyle `json:"style"`
	MaxLength   int          `json:"maxLength"`
	Language    string       `json:"language"`
	Model       string       `json:"model,omitempty"`
}

func (r SummaryRecord) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSummaryRecord also accepts rows written as bare text.
func DecodeSummaryRecord(raw string) (*SummaryRecord, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return &SummaryRecord{Text: trimmed}, nil
	}
	var rec SummaryRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

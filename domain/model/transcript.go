package model

// TranscriptRequest is what each transcript source receives.
type TranscriptRequest struct {
	VideoID string
	UserID  uint
	// UserAccessToken overrides the stored grant for the user-token source.
	UserAccessToken string
	Language        string
}

type Transcript struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// TranscriptAttempt records one source's outcome during a fallback run.
type TranscriptAttempt struct {
	Source  string `json:"source"`
	Reason  string `json:"reason"`
	Message string `json:"-"`
}

package dto

// TranscribeRequest accepts either a bare id or any watch/share URL.
type TranscribeRequest struct {
	VideoID     string `json:"videoId"`
	URL         string `json:"url"`
	Language    string `json:"language"`
	AccessToken string `json:"accessToken"`
}

type SummarizeRequest struct {
	Transcript string `json:"transcript"`
	Style      string `json:"style"`
	MaxLength  int    `json:"maxLength"`
	Language   string `json:"language"`
	VideoID    string `json:"videoId"`
}

type LibrarySaveRequest struct {
	VideoID         string `json:"videoId"         binding:"required"`
	Title           string `json:"title"`
	ChannelName     string `json:"channelName"`
	// DurationSeconds is accepted from older clients and ignored.
	DurationSeconds int    `json:"durationSeconds" binding:"gte=0"`
	Transcript      string `json:"transcript"`
	Summary         string `json:"summary"`
}

type LibraryQuery struct {
	VideoID string `form:"videoId"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	Search  string `form:"search"`
}

type CheckoutRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

package model

import "time"

const ProviderYouTube = "youtube"

// OAuthToken stores a user's grant for the official video API.
type OAuthToken struct {
	ID           uint       `json:"id"           gorm:"primaryKey"`
	UserID       uint       `json:"userId"       gorm:"not null;uniqueIndex:idx_oauth_user_provider"`
	Provider     string     `json:"provider"     gorm:"size:32;not null;uniqueIndex:idx_oauth_user_provider"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenType    string     `json:"tokenType"    gorm:"size:32"`
	Expiry       *time.Time `json:"expiry,omitempty"`
	Scopes       string     `json:"scopes"`
	CreatedAt    time.Time  `json:"createdAt"    gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt"    gorm:"autoUpdateTime"`
}

func (OAuthToken) TableName() string { return "oauth_tokens" }

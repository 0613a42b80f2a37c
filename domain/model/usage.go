package model

import (
	"math"
	"time"
)

// UsageLog is append-only; one row per user and analysed video.
type UsageLog struct {
	ID        string    `json:"id"        gorm:"primaryKey;size:36"`
	UserID    uint      `json:"userId"    gorm:"not null;uniqueIndex:idx_usage_user_video"`
	VideoID   string    `json:"videoId"   gorm:"size:32;not null;uniqueIndex:idx_usage_user_video"`
	Minutes   int       `json:"minutes"   gorm:"not null"`
	Source    string    `json:"source"    gorm:"size:32"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (UsageLog) TableName() string { return "usage_logs" }

// BillableMinutes rounds up so a 3m33s video costs 4 minutes.
func BillableMinutes(durationSeconds int) int {
	if durationSeconds <= 0 {
		return 1
	}
	return int(math.Ceil(float64(durationSeconds) / 60))
}

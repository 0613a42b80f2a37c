package model

import "time"

type LibraryEntry struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	UserID    uint      `json:"userId"    gorm:"not null;uniqueIndex:idx_library_user_video"`
	VideoID   string    `json:"videoId"   gorm:"size:32;not null;uniqueIndex:idx_library_user_video"`
	Video     Video     `json:"video"     gorm:"foreignKey:VideoID;references:VideoID"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (LibraryEntry) TableName() string { return "library_entries" }

type LibraryQuery struct {
	UserID  uint
	VideoID string
	Search  string
	Page    int
	Limit   int
}

func (q LibraryQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

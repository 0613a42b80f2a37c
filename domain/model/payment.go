package model

import "time"

// PaymentEvent remembers every processed provider event so redeliveries are no-ops.
type PaymentEvent struct {
	EventID         string    `json:"eventId"         gorm:"primaryKey;size:255"`
	Type            string    `json:"type"            gorm:"size:64;not null"`
	UserExternalID  string    `json:"userExternalId"  gorm:"size:191;index"`
	MinutesCredited int       `json:"minutesCredited" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"createdAt"       gorm:"autoCreateTime"`
}

func (PaymentEvent) TableName() string { return "payment_events" }

// Credit is a verified purchase extracted from a provider event.
type Credit struct {
	EventID        string
	EventType      string
	UserExternalID string
	Minutes        int
	CustomerID     string
}

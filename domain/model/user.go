package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	SubscriptionNone     = "none"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

type User struct {
	ID                 uint      `json:"id"                 gorm:"primaryKey"`
	ExternalID         string    `json:"externalId"         gorm:"size:191;uniqueIndex;not null"`
	Email              string    `json:"email"              gorm:"size:320"`
	MinutesUsed        int       `json:"minutesUsed"        gorm:"not null;default:0"`
	MinutesPurchased   int       `json:"minutesPurchased"   gorm:"not null;default:0"`
	SubscriptionStatus string    `json:"subscriptionStatus" gorm:"size:32;not null;default:none"`
	PaymentCustomerID  string    `json:"-"                  gorm:"size:191;index"`
	CreatedAt          time.Time `json:"createdAt"          gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updatedAt"          gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// RemainingMinutes never goes below zero.
func (u User) RemainingMinutes(freeMinutes int) int {
	remaining := freeMinutes + u.MinutesPurchased - u.MinutesUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UserClaims is the token payload issued by the identity provider.
type UserClaims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

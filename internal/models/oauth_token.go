package models

import (
	"time"
)

// OAuthToken persists an issued access/refresh token pair
type OAuthToken struct {
	ID               uint   `gorm:"primaryKey"`
	ClientID         string `gorm:"not null"`
	UserID           string `gorm:"index;not null"`
	AccessToken      string `gorm:"uniqueIndex;not null"`
	RefreshToken     string `gorm:"index"`
	Scopes           string
	AccessCreatedAt  time.Time
	AccessExpiresAt  time.Time `gorm:"not null"`
	RefreshCreatedAt time.Time
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

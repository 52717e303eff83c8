package models

import "time"

// User represents an application account. Email is the login identity.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:50;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"` // stored lowercased
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// preferences
	Theme              string `gorm:"size:16;default:light" json:"theme"`
	Currency           string `gorm:"size:8;default:INR" json:"currency"`
	EmailNotifications bool   `gorm:"default:true" json:"email_notifications"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `gorm:"index" json:"-"`

	// password reset: the emailed token is stored as a sha256 hex digest
	ResetPasswordToken   string     `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	EmailVerified        bool       `gorm:"default:false" json:"email_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

package models

import "time"

// Notification is an in-app message shown to the user. Purely informational;
// the only lifecycle beyond creation is the read flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	Message   string    `gorm:"size:512;not null" json:"message"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

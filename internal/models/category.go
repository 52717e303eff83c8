package models

import "time"

// Category is a user-defined expense label, unique per owner.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_category_owner_name" json:"-"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_category_owner_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

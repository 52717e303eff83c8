package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. When Category is set, CurrentAmount is a derived
// cache of the summed matching expenses and is refreshed opportunistically;
// it never exceeds TargetAmount.
type Goal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"-"`
	Title         string          `gorm:"size:100;not null" json:"title"`
	Category      string          `gorm:"size:50;index" json:"category"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"-"`
}

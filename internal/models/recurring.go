package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequencies accepted for a recurring expense definition.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// RecurringExpense is a definition the scheduler materializes into concrete
// Expense rows. LastRun is the catch-up cursor: the latest occurrence date
// already materialized. It is moved only by the engine and, if set, is never
// earlier than StartDate.
type RecurringExpense struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"-"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Frequency string          `gorm:"size:16;not null" json:"frequency"`
	StartDate time.Time       `gorm:"not null" json:"start_date"`
	LastRun   *time.Time      `json:"last_run"`
	Active    bool            `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"-"`
}

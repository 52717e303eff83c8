package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending for one category. Name doubles as the category key and
// is unique per owner. Spent is never stored; it is recomputed from expenses.
type Budget struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null;uniqueIndex:idx_budget_owner_name" json:"-"`
	Name      string          `gorm:"size:50;not null;uniqueIndex:idx_budget_owner_name" json:"name"`
	Limit     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"limit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"-"`
}

package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayasuriya321/finance/internal/models"
)

var maxAmount = decimal.NewFromInt(10000000)

// ValidateAmount checks that a money amount is positive and below the cap.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateFrequency checks a recurring frequency against the supported set.
func ValidateFrequency(frequency string) error {
	switch frequency {
	case models.FreqDaily, models.FreqWeekly, models.FreqMonthly, models.FreqYearly:
		return nil
	case "":
		return fmt.Errorf("frequency is required")
	default:
		return fmt.Errorf("unsupported frequency %q", frequency)
	}
}

// dateLayouts accepted on input, most specific first.
var dateLayouts = []string{
	time.RFC3339,          // 2025-12-03T00:00:00+05:30
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
	"2006-01-02",          // 2025-12-03
}

// ParseDate parses a date in one of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseDateOrNow parses a date, falling back to now when s is empty or invalid.
func ParseDateOrNow(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	if t, err := ParseDate(s); err == nil {
		return t
	}
	return time.Now()
}

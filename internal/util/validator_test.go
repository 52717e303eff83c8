package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount_Positive(t *testing.T) {
	testCases := []string{"0.01", "1", "100.5", "9999999.99"}

	for _, s := range testCases {
		amount := decimal.RequireFromString(s)
		if err := ValidateAmount(amount); err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", s, err)
		}
	}
}

func TestValidateAmount_ZeroAndNegative(t *testing.T) {
	testCases := []string{"0", "-0.01", "-100", "-9999.99"}

	for _, s := range testCases {
		amount := decimal.RequireFromString(s)
		if err := ValidateAmount(amount); err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", s)
		}
	}
}

func TestValidateAmount_TooLarge(t *testing.T) {
	err := ValidateAmount(decimal.NewFromInt(100000000))

	if err == nil {
		t.Error("ValidateAmount(100000000) error = nil, want error")
	}
}

func TestValidateFrequency_Supported(t *testing.T) {
	testCases := []string{"daily", "weekly", "monthly", "yearly"}

	for _, frequency := range testCases {
		if err := ValidateFrequency(frequency); err != nil {
			t.Errorf("ValidateFrequency(%q) error = %v, want nil", frequency, err)
		}
	}
}

func TestValidateFrequency_Unsupported(t *testing.T) {
	testCases := []string{"", "hourly", "Monthly", "bi-weekly", "every day"}

	for _, frequency := range testCases {
		if err := ValidateFrequency(frequency); err == nil {
			t.Errorf("ValidateFrequency(%q) error = nil, want error", frequency)
		}
	}
}

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31T15:04:05",
		"2025-06-15T00:00:00Z",
		"2025-12-03T00:00:00+05:30",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", date)
		}
	}
}

func TestParseDateOrNow_FallsBack(t *testing.T) {
	got := ParseDateOrNow("")
	if got.IsZero() {
		t.Error("ParseDateOrNow(\"\") returned the zero time, want now")
	}

	got = ParseDateOrNow("2024-06-01")
	if got.Year() != 2024 || got.Month() != 6 || got.Day() != 1 {
		t.Errorf("ParseDateOrNow(2024-06-01) = %v, want 2024-06-01", got)
	}
}

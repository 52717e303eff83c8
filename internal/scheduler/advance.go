package scheduler

import (
	"fmt"
	"time"

	"github.com/jayasuriya321/finance/internal/models"
)

// Advance returns the occurrence date one calendar unit after cursor.
// Month and year steps use calendar arithmetic, so a monthly definition
// anchored on Jan 31 rolls into early March via Go's date normalization
// rather than landing on a fixed 30-day offset.
func Advance(cursor time.Time, frequency string) (time.Time, error) {
	switch frequency {
	case models.FreqDaily:
		return cursor.AddDate(0, 0, 1), nil
	case models.FreqWeekly:
		return cursor.AddDate(0, 0, 7), nil
	case models.FreqMonthly:
		return cursor.AddDate(0, 1, 0), nil
	case models.FreqYearly:
		return cursor.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported frequency %q", frequency)
	}
}

// NextDue computes the first occurrence strictly after now for a definition,
// resuming from the cursor (or the start date before the first run). The
// cursor itself is never an occurrence, matching what the engine materializes.
func NextDue(def *models.RecurringExpense, now time.Time) (time.Time, error) {
	next := def.StartDate
	if def.LastRun != nil {
		next = *def.LastRun
	}
	for {
		advanced, err := Advance(next, def.Frequency)
		if err != nil {
			return time.Time{}, err
		}
		next = advanced
		if next.After(now) {
			return next, nil
		}
	}
}

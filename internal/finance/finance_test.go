package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayasuriya321/finance/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(category, amount string, date time.Time) models.Expense {
	return models.Expense{Category: category, Amount: d(amount), Date: date}
}

func TestEvaluateAlert_BelowWarning(t *testing.T) {
	alert := EvaluateAlert("Food", d("500"), d("1000"))

	if alert.Severity != AlertNone {
		t.Errorf("severity = %q, want none", alert.Severity)
	}
	if alert.Message != "" {
		t.Errorf("message = %q, want empty", alert.Message)
	}
}

func TestEvaluateAlert_WarningAtEightyPercent(t *testing.T) {
	alert := EvaluateAlert("Food", d("800"), d("1000"))

	if alert.Severity != AlertWarning {
		t.Fatalf("severity = %q, want warning", alert.Severity)
	}
	want := "You've used 80.0% of your Food budget."
	if alert.Message != want {
		t.Errorf("message = %q, want %q", alert.Message, want)
	}
}

func TestEvaluateAlert_ExceededWithOverage(t *testing.T) {
	alert := EvaluateAlert("Rent", d("3000"), d("2500"))

	if alert.Severity != AlertExceeded {
		t.Fatalf("severity = %q, want exceeded", alert.Severity)
	}
	want := "You exceeded your Rent budget by 500.00."
	if alert.Message != want {
		t.Errorf("message = %q, want %q", alert.Message, want)
	}
}

func TestEvaluateAlert_ExactLimitIsExceeded(t *testing.T) {
	alert := EvaluateAlert("Rent", d("2500"), d("2500"))

	if alert.Severity != AlertExceeded {
		t.Errorf("severity = %q, want exceeded", alert.Severity)
	}
	want := "You exceeded your Rent budget by 0.00."
	if alert.Message != want {
		t.Errorf("message = %q, want %q", alert.Message, want)
	}
}

func TestEvaluateAlert_ZeroLimitNeverAlerts(t *testing.T) {
	alert := EvaluateAlert("Misc", d("100"), decimal.Zero)

	if alert.Severity != AlertNone {
		t.Errorf("severity = %q, want none", alert.Severity)
	}
}

func TestStatusForBudget_CapsAndFloors(t *testing.T) {
	status := StatusForBudget(d("1000"), d("1500"))

	if !status.Remaining.IsZero() {
		t.Errorf("remaining = %s, want 0", status.Remaining)
	}
	if status.PercentUsed != 100 {
		t.Errorf("percent = %v, want 100", status.PercentUsed)
	}
	if !status.Alert {
		t.Error("alert = false, want true")
	}
}

func TestStatusForBudget_PartialUse(t *testing.T) {
	status := StatusForBudget(d("1000"), d("400"))

	if !status.Remaining.Equal(d("600")) {
		t.Errorf("remaining = %s, want 600", status.Remaining)
	}
	if status.PercentUsed != 40 {
		t.Errorf("percent = %v, want 40", status.PercentUsed)
	}
	if status.Alert {
		t.Error("alert = true, want false")
	}
}

func TestStatusForBudget_ZeroLimit(t *testing.T) {
	status := StatusForBudget(decimal.Zero, d("100"))

	if status.PercentUsed != 0 {
		t.Errorf("percent = %v, want 0", status.PercentUsed)
	}
	if status.Alert {
		t.Error("alert = true, want false")
	}
}

func TestProgressForGoal_CappedAtHundred(t *testing.T) {
	p := ProgressForGoal(d("1500"), d("1000"), nil, time.Now())

	if p.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", p.Percentage)
	}
	if p.DaysLeft != nil {
		t.Error("days left set without a deadline")
	}
}

func TestProgressForGoal_ZeroTarget(t *testing.T) {
	p := ProgressForGoal(d("500"), decimal.Zero, nil, time.Now())

	if p.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", p.Percentage)
	}
}

func TestProgressForGoal_DaysLeft(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 10)

	p := ProgressForGoal(d("100"), d("1000"), &deadline, now)

	if p.DaysLeft == nil || *p.DaysLeft != 10 {
		t.Errorf("days left = %v, want 10", p.DaysLeft)
	}
}

func TestProgressForGoal_PastDeadlineFloorsAtZero(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, -3)

	p := ProgressForGoal(d("100"), d("1000"), &deadline, now)

	if p.DaysLeft == nil || *p.DaysLeft != 0 {
		t.Errorf("days left = %v, want 0", p.DaysLeft)
	}
}

func TestCategoryTotals_SortedByTotalDesc(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		expense("Food", "120", day),
		expense("Rent", "1000", day),
		expense("Food", "80", day),
		expense("Travel", "200", day),
	}

	totals := CategoryTotals(expenses)

	if len(totals) != 3 {
		t.Fatalf("len = %d, want 3", len(totals))
	}
	if totals[0].Category != "Rent" || !totals[0].Total.Equal(d("1000")) {
		t.Errorf("first = %+v, want Rent 1000", totals[0])
	}
	if totals[1].Category != "Food" || !totals[1].Total.Equal(d("200")) {
		t.Errorf("second = %+v, want Food 200", totals[1])
	}
	if totals[2].Category != "Travel" {
		t.Errorf("third = %+v, want Travel", totals[2])
	}
}

func TestCategoryTotals_TiesBreakByName(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		expense("Zoo", "100", day),
		expense("Art", "100", day),
	}

	totals := CategoryTotals(expenses)

	if totals[0].Category != "Art" || totals[1].Category != "Zoo" {
		t.Errorf("order = %q, %q; want Art, Zoo", totals[0].Category, totals[1].Category)
	}
}

func TestMonthlyTrend_ZeroFillsEmptyMonths(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		expense("Food", "100", time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)),
		expense("Food", "50", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	trend := MonthlyTrend(expenses, now, 6)

	if len(trend) != 6 {
		t.Fatalf("len = %d, want 6", len(trend))
	}
	if trend[0].Month != "2024-01" || trend[5].Month != "2024-06" {
		t.Errorf("range = %s..%s, want 2024-01..2024-06", trend[0].Month, trend[5].Month)
	}
	if !trend[3].Total.Equal(d("100")) {
		t.Errorf("2024-04 total = %s, want 100", trend[3].Total)
	}
	if !trend[1].Total.IsZero() {
		t.Errorf("2024-02 total = %s, want 0", trend[1].Total)
	}
	if !trend[5].Total.Equal(d("50")) {
		t.Errorf("2024-06 total = %s, want 50", trend[5].Total)
	}
}

func TestMonthlyTrend_IgnoresExpensesOutsideWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		expense("Food", "999", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	trend := MonthlyTrend(expenses, now, 3)

	for _, m := range trend {
		if !m.Total.IsZero() {
			t.Errorf("%s total = %s, want 0", m.Month, m.Total)
		}
	}
}

func TestAppendForecast_AveragesIntoNextMonth(t *testing.T) {
	trend := []MonthlyTotal{
		{Month: "2024-04", Total: d("100")},
		{Month: "2024-05", Total: d("200")},
	}

	got := AppendForecast(trend)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	last := got[2]
	if last.Month != "2024-06" {
		t.Errorf("forecast month = %s, want 2024-06", last.Month)
	}
	if !last.Total.Equal(d("150")) {
		t.Errorf("forecast total = %s, want 150", last.Total)
	}
	if !last.Forecast {
		t.Error("forecast flag not set")
	}
}

func TestAppendForecast_EmptyTrend(t *testing.T) {
	if got := AppendForecast(nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSumAndSpentForCategory(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		expense("Food", "100.50", day),
		expense("Rent", "1000", day),
		expense("Food", "49.50", day),
	}

	if got := Sum(expenses); !got.Equal(d("1150")) {
		t.Errorf("Sum = %s, want 1150", got)
	}
	if got := SpentForCategory(expenses, "Food"); !got.Equal(d("150")) {
		t.Errorf("SpentForCategory(Food) = %s, want 150", got)
	}
	if got := SpentForCategory(expenses, "Travel"); !got.IsZero() {
		t.Errorf("SpentForCategory(Travel) = %s, want 0", got)
	}
}

// Package finance holds the pure aggregation helpers shared by the HTTP
// handlers and the recurring-expense engine: category/month sums, budget
// usage, alert evaluation and goal progress. All functions are side-effect
// free; zero limits and targets report 0% instead of dividing by zero.
package finance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayasuriya321/finance/internal/models"
)

// Alert thresholds as percent of the budget limit. Standardized here so the
// scheduler and the budget endpoints cannot disagree.
const (
	WarningPercent  = 80.0
	ExceededPercent = 100.0
)

// AlertSeverity classifies spend against a budget limit.
type AlertSeverity string

const (
	AlertNone     AlertSeverity = "none"
	AlertWarning  AlertSeverity = "warning"
	AlertExceeded AlertSeverity = "exceeded"
)

// Alert is a budget-threshold breach with a user-facing message.
type Alert struct {
	Severity AlertSeverity
	Message  string
}

// EvaluateAlert classifies spent against limit for the named budget.
// A zero or negative limit never alerts.
func EvaluateAlert(name string, spent, limit decimal.Decimal) Alert {
	if !limit.IsPositive() {
		return Alert{Severity: AlertNone}
	}
	percent := spent.Div(limit).InexactFloat64() * 100

	switch {
	case percent >= ExceededPercent:
		over := spent.Sub(limit)
		return Alert{
			Severity: AlertExceeded,
			Message:  fmt.Sprintf("You exceeded your %s budget by %s.", name, over.StringFixed(2)),
		}
	case percent >= WarningPercent:
		return Alert{
			Severity: AlertWarning,
			Message:  fmt.Sprintf("You've used %.1f%% of your %s budget.", percent, name),
		}
	default:
		return Alert{Severity: AlertNone}
	}
}

// BudgetStatus is the on-demand usage of one budget.
type BudgetStatus struct {
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed float64         `json:"percent_used"`
	Alert       bool            `json:"alert"`
}

// StatusForBudget derives usage figures from limit and spent. Remaining never
// goes below zero and PercentUsed is capped at 100.
func StatusForBudget(limit, spent decimal.Decimal) BudgetStatus {
	remaining := limit.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percent := 0.0
	if limit.IsPositive() {
		percent = math.Min(100, spent.Div(limit).InexactFloat64()*100)
	}
	return BudgetStatus{
		Spent:       spent,
		Remaining:   remaining,
		PercentUsed: percent,
		Alert:       percent >= WarningPercent,
	}
}

// GoalProgress is the completion state of one savings goal.
type GoalProgress struct {
	Percentage float64 `json:"percentage"`
	DaysLeft   *int    `json:"days_left,omitempty"`
}

// ProgressForGoal computes completion percentage (capped at 100, 0 for a zero
// target) and, when a deadline is set, whole days remaining (floored at 0).
func ProgressForGoal(current, target decimal.Decimal, deadline *time.Time, now time.Time) GoalProgress {
	p := GoalProgress{}
	if target.IsPositive() {
		p.Percentage = math.Min(100, current.Div(target).InexactFloat64()*100)
	}
	if deadline != nil {
		days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0
		}
		p.DaysLeft = &days
	}
	return p
}

// Sum adds up the amounts of all expenses.
func Sum(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total
}

// SpentForCategory sums the amounts of expenses in the given category.
func SpentForCategory(expenses []models.Expense, category string) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		if expenses[i].Category == category {
			total = total.Add(expenses[i].Amount)
		}
	}
	return total
}

// CategoryTotal is the summed spend for one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryTotals groups expenses by category, largest total first.
func CategoryTotals(expenses []models.Expense) []CategoryTotal {
	totals := map[string]decimal.Decimal{}
	for i := range expenses {
		e := &expenses[i]
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	result := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		result = append(result, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total.Equal(result[j].Total) {
			return result[i].Category < result[j].Category
		}
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// MonthlyTotal is the summed spend for one calendar month (YYYY-MM).
type MonthlyTotal struct {
	Month    string          `json:"month"`
	Total    decimal.Decimal `json:"total"`
	Forecast bool            `json:"forecast,omitempty"`
}

// MonthlyTrend buckets expenses into the last months calendar months ending
// at now. Months with no expenses still appear with a zero total.
func MonthlyTrend(expenses []models.Expense, now time.Time, months int) []MonthlyTotal {
	if months <= 0 {
		months = 6
	}

	keys := make([]string, 0, months)
	totals := map[string]decimal.Decimal{}
	for i := months - 1; i >= 0; i-- {
		d := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		key := d.Format("2006-01")
		keys = append(keys, key)
		totals[key] = decimal.Zero
	}

	for i := range expenses {
		e := &expenses[i]
		key := e.Date.Format("2006-01")
		if _, ok := totals[key]; ok {
			totals[key] = totals[key].Add(e.Amount)
		}
	}

	trend := make([]MonthlyTotal, 0, len(keys))
	for _, key := range keys {
		trend = append(trend, MonthlyTotal{Month: key, Total: totals[key]})
	}
	return trend
}

// AppendForecast adds a forecast point for the month after the trend's last
// bucket, using the plain average of the existing buckets.
func AppendForecast(trend []MonthlyTotal) []MonthlyTotal {
	if len(trend) == 0 {
		return trend
	}

	sum := decimal.Zero
	for _, m := range trend {
		sum = sum.Add(m.Total)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(trend)))).Round(2)

	last, err := time.Parse("2006-01", trend[len(trend)-1].Month)
	if err != nil {
		return trend
	}
	next := last.AddDate(0, 1, 0).Format("2006-01")
	return append(trend, MonthlyTotal{Month: next, Total: avg, Forecast: true})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// DashboardHandler serves the aggregate overview endpoint.
type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// Summary collects totals, category breakdown, a six-month trend with a
// forecast point, and budget/goal counts into a single response.
func (h *DashboardHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var expenses []models.Expense
	if err := h.DB.Where("user_id = ?", user.ID).Find(&expenses).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return
	}

	var incomes []models.Income
	if err := h.DB.Where("user_id = ?", user.ID).Find(&incomes).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading incomes")
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).Find(&budgets).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading budgets")
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Find(&goals).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading goals")
		return
	}

	totalExpenses := finance.Sum(expenses)
	totalIncome := decimal.Zero
	for i := range incomes {
		totalIncome = totalIncome.Add(incomes[i].Amount)
	}

	now := time.Now().UTC()
	trend := finance.AppendForecast(finance.MonthlyTrend(expenses, now, 6))

	budgetsOnTrack := 0
	budgetsAlerting := 0
	for i := range budgets {
		spent := finance.SpentForCategory(expenses, budgets[i].Name)
		if finance.StatusForBudget(budgets[i].Limit, spent).Alert {
			budgetsAlerting++
		} else {
			budgetsOnTrack++
		}
	}

	goalsCompleted := 0
	for i := range goals {
		p := finance.ProgressForGoal(goals[i].CurrentAmount, goals[i].TargetAmount, nil, now)
		if p.Percentage >= 100 {
			goalsCompleted++
		}
	}

	util.OK(c, gin.H{
		"total_expenses": totalExpenses,
		"total_income":   totalIncome,
		"balance":        totalIncome.Sub(totalExpenses),
		"by_category":    finance.CategoryTotals(expenses),
		"monthly_trend":  trend,
		"budgets": gin.H{
			"total":    len(budgets),
			"on_track": budgetsOnTrack,
			"alerting": budgetsAlerting,
		},
		"goals": gin.H{
			"total":     len(goals),
			"completed": goalsCompleted,
		},
	})
}

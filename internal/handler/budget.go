package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// BudgetHandler serves the budget endpoints. Usage is always recomputed from
// the expense table; nothing about spend is stored on the budget row.
type BudgetHandler struct {
	DB *gorm.DB
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db}
}

type budgetReq struct {
	Name  string          `json:"name" binding:"required,max=50"`
	Limit decimal.Decimal `json:"limit" binding:"required"`
}

type budgetView struct {
	models.Budget
	finance.BudgetStatus
}

func (h *BudgetHandler) loadWithUsage(userID uint) ([]budgetView, error) {
	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", userID).Order("name").Find(&budgets).Error; err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := h.DB.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return nil, err
	}

	views := make([]budgetView, 0, len(budgets))
	for i := range budgets {
		b := budgets[i]
		spent := finance.SpentForCategory(expenses, b.Name)
		views = append(views, budgetView{
			Budget:       b,
			BudgetStatus: finance.StatusForBudget(b.Limit, spent),
		})
	}
	return views, nil
}

// List returns every budget with its current usage.
func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.loadWithUsage(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading budgets")
		return
	}

	util.OK(c, views)
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name and limit are required")
		return
	}
	if err := util.ValidateAmount(req.Limit); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)

	var count int64
	err := h.DB.Model(&models.Budget{}).
		Where("user_id = ? AND name = ?", user.ID, name).
		Count(&count).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error checking budget")
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, "Budget already exists")
		return
	}

	budget := models.Budget{UserID: user.ID, Name: name, Limit: req.Limit}
	if err := h.DB.Create(&budget).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating budget")
		return
	}

	util.Created(c, budget)
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Budget not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading budget")
		}
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name and limit are required")
		return
	}
	if err := util.ValidateAmount(req.Limit); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)

	var count int64
	err := h.DB.Model(&models.Budget{}).
		Where("user_id = ? AND name = ? AND id <> ?", user.ID, name, budget.ID).
		Count(&count).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error checking budget")
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, "Budget already exists")
		return
	}

	budget.Name = name
	budget.Limit = req.Limit
	if err := h.DB.Save(&budget).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating budget")
		return
	}

	util.OK(c, budget)
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Budget{})
	if result.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error deleting budget")
		return
	}
	if result.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Budget not found")
		return
	}

	util.Message(c, "Budget deleted successfully")
}

// Summary returns the aggregate limit/spent/remaining across all budgets.
func (h *BudgetHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.loadWithUsage(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading budgets")
		return
	}

	totalLimit := decimal.Zero
	totalSpent := decimal.Zero
	alerts := 0
	for _, v := range views {
		totalLimit = totalLimit.Add(v.Budget.Limit)
		totalSpent = totalSpent.Add(v.Spent)
		if v.BudgetStatus.Alert {
			alerts++
		}
	}
	totalRemaining := totalLimit.Sub(totalSpent)
	if totalRemaining.IsNegative() {
		totalRemaining = decimal.Zero
	}

	util.OK(c, gin.H{
		"budgets":         len(views),
		"total_limit":     totalLimit,
		"total_spent":     totalSpent,
		"total_remaining": totalRemaining,
		"alerts":          alerts,
	})
}

// Alerts returns the budgets currently at or past the warning threshold.
func (h *BudgetHandler) Alerts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).Order("name").Find(&budgets).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading budgets")
		return
	}
	var expenses []models.Expense
	if err := h.DB.Where("user_id = ?", user.ID).Find(&expenses).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return
	}

	type budgetAlert struct {
		Budget  string `json:"budget"`
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	alerts := make([]budgetAlert, 0)
	for i := range budgets {
		b := budgets[i]
		spent := finance.SpentForCategory(expenses, b.Name)
		alert := finance.EvaluateAlert(b.Name, spent, b.Limit)
		switch alert.Severity {
		case finance.AlertExceeded:
			alerts = append(alerts, budgetAlert{Budget: b.Name, Type: "danger", Message: alert.Message})
		case finance.AlertWarning:
			alerts = append(alerts, budgetAlert{Budget: b.Name, Type: "warning", Message: alert.Message})
		}
	}

	util.OK(c, alerts)
}

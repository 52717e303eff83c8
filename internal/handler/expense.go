package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// ExpenseHandler serves the expense CRUD and report endpoints.
type ExpenseHandler struct {
	DB *gorm.DB
}

func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{DB: db}
}

type expenseReq struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category" binding:"required,max=50"`
	Description string          `json:"description" binding:"max=255"`
	Date        string          `json:"date"`
}

// List returns the user's expenses, newest first. Supports optional
// category/from/to filters plus page/limit pagination.
func (h *ExpenseHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}
	if from := c.Query("from"); from != "" {
		t, err := util.ParseDate(from)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid from date")
			return
		}
		q = q.Where("date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := util.ParseDate(to)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid to date")
			return
		}
		q = q.Where("date <= ?", t)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := q.Model(&models.Expense{}).Count(&total).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return
	}

	var expenses []models.Expense
	err := q.Order("date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&expenses).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return
	}

	util.OK(c, gin.H{
		"expenses": expenses,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Amount and category are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	expense := models.Expense{
		UserID:      user.ID,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Date:        util.ParseDateOrNow(req.Date),
	}
	if err := h.DB.Create(&expense).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating expense")
		return
	}

	refreshGoalsForCategory(h.DB, user.ID, expense.Category)

	util.Created(c, expense)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&expense).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Expense not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading expense")
		}
		return
	}

	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Amount and category are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	oldCategory := expense.Category

	expense.Amount = req.Amount
	expense.Category = strings.TrimSpace(req.Category)
	expense.Description = strings.TrimSpace(req.Description)
	if req.Date != "" {
		date, err := util.ParseDate(req.Date)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid date")
			return
		}
		expense.Date = date
	}

	if err := h.DB.Save(&expense).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating expense")
		return
	}

	refreshGoalsForCategory(h.DB, user.ID, expense.Category)
	if oldCategory != expense.Category {
		refreshGoalsForCategory(h.DB, user.ID, oldCategory)
	}

	util.OK(c, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&expense).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Expense not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading expense")
		}
		return
	}

	if err := h.DB.Delete(&expense).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error deleting expense")
		return
	}

	refreshGoalsForCategory(h.DB, user.ID, expense.Category)

	util.Message(c, "Expense deleted successfully")
}

// Report aggregates the user's expenses by category and by month.
func (h *ExpenseHandler) Report(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var expenses []models.Expense
	if err := h.DB.Where("user_id = ?", user.ID).Find(&expenses).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return
	}

	byMonth := map[string]decimal.Decimal{}
	for _, e := range expenses {
		key := e.Date.Format("Jan 2006")
		byMonth[key] = byMonth[key].Add(e.Amount)
	}

	util.OK(c, gin.H{
		"total":      finance.Sum(expenses),
		"byCategory": finance.CategoryTotals(expenses),
		"byMonth":    byMonth,
	})
}

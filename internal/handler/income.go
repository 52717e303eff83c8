package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// IncomeHandler serves the income CRUD endpoints.
type IncomeHandler struct {
	DB *gorm.DB
}

func NewIncomeHandler(db *gorm.DB) *IncomeHandler {
	return &IncomeHandler{DB: db}
}

type incomeReq struct {
	Source      string          `json:"source" binding:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
	Date        string          `json:"date"`
}

func (h *IncomeHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var incomes []models.Income
	err := h.DB.Where("user_id = ?", user.ID).
		Order("date DESC, id DESC").
		Find(&incomes).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading incomes")
		return
	}

	util.OK(c, incomes)
}

func (h *IncomeHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req incomeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Source and amount are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	income := models.Income{
		UserID:      user.ID,
		Source:      strings.TrimSpace(req.Source),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        util.ParseDateOrNow(req.Date),
	}
	if err := h.DB.Create(&income).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating income")
		return
	}

	util.Created(c, income)
}

func (h *IncomeHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var income models.Income
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&income).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Income not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading income")
		}
		return
	}

	var req incomeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Source and amount are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	income.Source = strings.TrimSpace(req.Source)
	income.Amount = req.Amount
	income.Description = strings.TrimSpace(req.Description)
	if req.Date != "" {
		date, err := util.ParseDate(req.Date)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid date")
			return
		}
		income.Date = date
	}

	if err := h.DB.Save(&income).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating income")
		return
	}

	util.OK(c, income)
}

func (h *IncomeHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Income{})
	if result.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error deleting income")
		return
	}
	if result.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Income not found")
		return
	}

	util.Message(c, "Income deleted successfully")
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/scheduler"
	"github.com/jayasuriya321/finance/internal/util"
)

// RecurringHandler manages recurring expense definitions. Materialization
// itself belongs to the scheduler engine; these endpoints only edit the
// definitions it reads.
type RecurringHandler struct {
	DB *gorm.DB
}

func NewRecurringHandler(db *gorm.DB) *RecurringHandler {
	return &RecurringHandler{DB: db}
}

type recurringReq struct {
	Name      string          `json:"name" binding:"required,max=100"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Frequency string          `json:"frequency" binding:"required"`
	StartDate string          `json:"start_date" binding:"required"`
	Active    *bool           `json:"active"`
}

type recurringView struct {
	models.RecurringExpense
	NextDue *time.Time `json:"next_due,omitempty"`
}

// List returns the user's definitions with the next upcoming occurrence for
// the active ones.
func (h *RecurringHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var defs []models.RecurringExpense
	if err := h.DB.Where("user_id = ?", user.ID).Order("id").Find(&defs).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading recurring expenses")
		return
	}

	now := time.Now().UTC()
	views := make([]recurringView, 0, len(defs))
	for i := range defs {
		view := recurringView{RecurringExpense: defs[i]}
		if defs[i].Active {
			if due, err := scheduler.NextDue(&defs[i], now); err == nil {
				view.NextDue = &due
			}
		}
		views = append(views, view)
	}

	util.OK(c, views)
}

func (h *RecurringHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req recurringReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name, amount, frequency and start date are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	frequency := strings.ToLower(strings.TrimSpace(req.Frequency))
	if err := util.ValidateFrequency(frequency); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := util.ParseDate(req.StartDate)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid start date")
		return
	}

	def := models.RecurringExpense{
		UserID:    user.ID,
		Name:      strings.TrimSpace(req.Name),
		Amount:    req.Amount,
		Frequency: frequency,
		StartDate: startDate,
		Active:    true,
	}
	if req.Active != nil {
		def.Active = *req.Active
	}

	if err := h.DB.Create(&def).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating recurring expense")
		return
	}

	util.Created(c, def)
}

func (h *RecurringHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var def models.RecurringExpense
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&def).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Recurring expense not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading recurring expense")
		}
		return
	}

	var req recurringReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name, amount, frequency and start date are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	frequency := strings.ToLower(strings.TrimSpace(req.Frequency))
	if err := util.ValidateFrequency(frequency); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := util.ParseDate(req.StartDate)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid start date")
		return
	}

	def.Name = strings.TrimSpace(req.Name)
	def.Amount = req.Amount
	def.Frequency = frequency
	def.StartDate = startDate
	if req.Active != nil {
		def.Active = *req.Active
	}
	// the cursor must never trail a moved start date
	if def.LastRun != nil && def.LastRun.Before(def.StartDate) {
		def.LastRun = nil
	}

	if err := h.DB.Save(&def).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating recurring expense")
		return
	}

	util.OK(c, def)
}

func (h *RecurringHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.RecurringExpense{})
	if result.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error deleting recurring expense")
		return
	}
	if result.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Recurring expense not found")
		return
	}

	util.Message(c, "Recurring expense deleted successfully")
}

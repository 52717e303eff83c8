package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// GoalHandler serves the savings-goal endpoints.
type GoalHandler struct {
	DB *gorm.DB
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{DB: db}
}

// refreshGoalsForCategory recomputes CurrentAmount for every goal of the user
// tied to the given category, capping at the target. Failures only log; goal
// sync must never fail the expense write that triggered it.
func refreshGoalsForCategory(db *gorm.DB, userID uint, category string) {
	if category == "" {
		return
	}

	var goals []models.Goal
	if err := db.Where("user_id = ? AND category = ?", userID, category).Find(&goals).Error; err != nil {
		log.Printf("goal sync: loading goals for user %d: %v", userID, err)
		return
	}
	if len(goals) == 0 {
		return
	}

	var expenses []models.Expense
	if err := db.Where("user_id = ? AND category = ?", userID, category).Find(&expenses).Error; err != nil {
		log.Printf("goal sync: loading expenses for user %d: %v", userID, err)
		return
	}
	spent := finance.Sum(expenses)

	for i := range goals {
		current := spent
		if current.GreaterThan(goals[i].TargetAmount) {
			current = goals[i].TargetAmount
		}
		if current.Equal(goals[i].CurrentAmount) {
			continue
		}
		err := db.Model(&goals[i]).Update("current_amount", current).Error
		if err != nil {
			log.Printf("goal sync: updating goal %d: %v", goals[i].ID, err)
		}
	}
}

type goalReq struct {
	Title        string          `json:"title" binding:"required,max=100"`
	Category     string          `json:"category" binding:"max=50"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	Deadline     string          `json:"deadline"`
}

// List returns the user's goals, refreshing category-linked amounts first.
func (h *GoalHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Order("id").Find(&goals).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading goals")
		return
	}

	seen := map[string]bool{}
	for i := range goals {
		if goals[i].Category != "" && !seen[goals[i].Category] {
			seen[goals[i].Category] = true
			refreshGoalsForCategory(h.DB, user.ID, goals[i].Category)
		}
	}
	if len(seen) > 0 {
		if err := h.DB.Where("user_id = ?", user.ID).Order("id").Find(&goals).Error; err != nil {
			util.Fail(c, http.StatusInternalServerError, "Server error loading goals")
			return
		}
	}

	util.OK(c, goals)
}

func (h *GoalHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Title and target amount are required")
		return
	}
	if err := util.ValidateAmount(req.TargetAmount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	goal := models.Goal{
		UserID:        user.ID,
		Title:         strings.TrimSpace(req.Title),
		Category:      strings.TrimSpace(req.Category),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
	}
	if req.Deadline != "" {
		deadline, err := util.ParseDate(req.Deadline)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid deadline")
			return
		}
		goal.Deadline = &deadline
	}

	if err := h.DB.Create(&goal).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating goal")
		return
	}

	if goal.Category != "" {
		refreshGoalsForCategory(h.DB, user.ID, goal.Category)
		_ = h.DB.First(&goal, goal.ID).Error
	}

	util.Created(c, goal)
}

func (h *GoalHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var goal models.Goal
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Goal not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading goal")
		}
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Title and target amount are required")
		return
	}
	if err := util.ValidateAmount(req.TargetAmount); err != nil {
		util.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	goal.Title = strings.TrimSpace(req.Title)
	goal.Category = strings.TrimSpace(req.Category)
	goal.TargetAmount = req.TargetAmount
	if req.Deadline != "" {
		deadline, err := util.ParseDate(req.Deadline)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid deadline")
			return
		}
		goal.Deadline = &deadline
	} else {
		goal.Deadline = nil
	}

	if err := h.DB.Save(&goal).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating goal")
		return
	}

	if goal.Category != "" {
		refreshGoalsForCategory(h.DB, user.ID, goal.Category)
		_ = h.DB.First(&goal, goal.ID).Error
	}

	util.OK(c, goal)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Goal{})
	if result.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error deleting goal")
		return
	}
	if result.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Goal not found")
		return
	}

	util.Message(c, "Goal deleted successfully")
}

// Progress returns completion percentage and days left for every goal.
func (h *GoalHandler) Progress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Order("id").Find(&goals).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading goals")
		return
	}

	now := time.Now()
	type goalProgress struct {
		models.Goal
		finance.GoalProgress
	}
	progress := make([]goalProgress, 0, len(goals))
	for i := range goals {
		g := goals[i]
		progress = append(progress, goalProgress{
			Goal:         g,
			GoalProgress: finance.ProgressForGoal(g.CurrentAmount, g.TargetAmount, g.Deadline, now),
		})
	}

	util.OK(c, progress)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// CategoryHandler serves the custom category endpoints.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var categories []models.Category
	err := h.DB.Where("user_id = ?", user.ID).Order("name").Find(&categories).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading categories")
		return
	}

	util.OK(c, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name is required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		util.Fail(c, http.StatusBadRequest, "Name is required")
		return
	}

	var count int64
	err := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", user.ID, name).
		Count(&count).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error checking category")
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, "Category already exists")
		return
	}

	category := models.Category{UserID: user.ID, Name: name}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating category")
		return
	}

	util.Created(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "Category not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading category")
		}
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name is required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		util.Fail(c, http.StatusBadRequest, "Name is required")
		return
	}

	var count int64
	err := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND id <> ?", user.ID, name, category.ID).
		Count(&count).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error checking category")
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, "Category already exists")
		return
	}

	category.Name = name
	if err := h.DB.Save(&category).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating category")
		return
	}

	util.OK(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Category{})
	if result.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error deleting category")
		return
	}
	if result.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Category not found")
		return
	}

	util.Message(c, "Category deleted successfully")
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/util"
)

// GetMe returns the current user's profile.
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.OK(c, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

type updateMeReq struct {
	Name     string `json:"name" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6,max=64"`
}

// UpdateMe updates name, email and/or password of the current user.
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req updateMeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid profile fields")
			return
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			user.Name = name
		}
		if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
			var count int64
			if err := db.Model(user).Where("email = ? AND id <> ?", email, user.ID).
				Count(&count).Error; err != nil {
				util.Fail(c, http.StatusInternalServerError, "Server error checking email")
				return
			}
			if count > 0 {
				util.Fail(c, http.StatusBadRequest, "Email already in use")
				return
			}
			user.Email = email
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				util.Fail(c, http.StatusInternalServerError, "Server error hashing password")
				return
			}
			user.PasswordHash = string(hash)
		}

		if err := db.Save(user).Error; err != nil {
			util.Fail(c, http.StatusInternalServerError, "Server error updating profile")
			return
		}

		util.OK(c, gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		})
	}
}

type preferencesReq struct {
	Theme              *string `json:"theme" binding:"omitempty,oneof=light dark"`
	Currency           *string `json:"currency" binding:"omitempty,max=8"`
	EmailNotifications *bool   `json:"email_notifications"`
}

// GetPreferences returns the current user's display and notification settings.
func GetPreferences(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.OK(c, gin.H{
		"theme":               user.Theme,
		"currency":            user.Currency,
		"email_notifications": user.EmailNotifications,
	})
}

// UpdatePreferences applies partial preference changes.
func UpdatePreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req preferencesReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid preference fields")
			return
		}

		if req.Theme != nil {
			user.Theme = *req.Theme
		}
		if req.Currency != nil {
			user.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
		}
		if req.EmailNotifications != nil {
			user.EmailNotifications = *req.EmailNotifications
		}

		if err := db.Save(user).Error; err != nil {
			util.Fail(c, http.StatusInternalServerError, "Server error updating preferences")
			return
		}

		util.OK(c, gin.H{
			"theme":               user.Theme,
			"currency":            user.Currency,
			"email_notifications": user.EmailNotifications,
		})
	}
}

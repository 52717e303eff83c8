package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// NotificationHandler serves the in-app notification endpoints.
type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// List returns the user's notifications, newest first, with the unread count.
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var notifications []models.Notification
	err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading notifications")
		return
	}

	unread := 0
	for i := range notifications {
		if !notifications[i].Read {
			unread++
		}
	}

	util.OK(c, gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

type notificationReq struct {
	Message string `json:"message" binding:"required,max=512"`
}

func (h *NotificationHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req notificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Message is required")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		util.Fail(c, http.StatusBadRequest, "Message is required")
		return
	}

	notification := models.Notification{UserID: user.ID, Message: message}
	if err := h.DB.Create(&notification).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating notification")
		return
	}

	util.Created(c, notification)
}

// MarkAllRead flags every unread notification as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating notifications")
		return
	}

	util.Message(c, "All notifications marked as read")
}

// Clear deletes every notification of the user.
func (h *NotificationHandler) Clear(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.DB.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error clearing notifications")
		return
	}

	util.Message(c, "Notifications cleared")
}

package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

const resetTokenTTL = time.Hour

// AuthHandler serves registration, login and the password-reset flow.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	Mail      *mailer.Mailer
	ClientURL string
}

func NewAuthHandler(db *gorm.DB, secret, issuer string, ttlHours int, mail *mailer.Mailer, clientURL string) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:        db,
		JWTSecret: secret,
		JWTIssuer: issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		Mail:      mail,
		ClientURL: clientURL,
	}
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

// ---------- register ----------

type registerReq struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error checking account")
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, "User already exists")
		return
	}

	const bcryptCost = 12
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error hashing password")
		return
	}

	user := models.User{
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hash),
		Theme:              "light",
		Currency:           "INR",
		EmailNotifications: true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error creating account")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, user.ID, h.TokenTTL)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error issuing token")
		return
	}

	util.Created(c, gin.H{
		"token": token,
		"user":  userPayload(&user),
	})
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading account")
		}
		return
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Fail(c, http.StatusUnauthorized, "Account locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		// five straight failures lock the account for ten minutes
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockUntil := now.Add(10 * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.Fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	_ = h.DB.Save(&user).Error

	token, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, user.ID, h.TokenTTL)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error issuing token")
		return
	}

	util.OK(c, gin.H{
		"token": token,
		"user":  userPayload(&user),
	})
}

// ---------- password reset ----------

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

// hashResetToken stores only a digest of the emailed token.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Email is required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusNotFound, "User not found")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading account")
		}
		return
	}

	if !h.Mail.Enabled() {
		util.Fail(c, http.StatusInternalServerError, "Email delivery is not configured")
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashResetToken(token)
	user.ResetPasswordExpires = &expires
	if err := h.DB.Save(&user).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error saving reset token")
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(h.ClientURL, "/"), token)
	err := h.Mail.Send(mailer.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		Text:    fmt.Sprintf("Open %s to reset your password. The link is valid for 1 hour.", resetURL),
		HTML:    fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password. This link is valid for 1 hour.</p>`, resetURL),
	})
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error sending password reset email")
		return
	}

	util.Message(c, "Reset email sent successfully")
}

type resetPasswordReq struct {
	Password string `json:"password" binding:"required,min=6,max=64"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		util.Fail(c, http.StatusBadRequest, "Reset token is required")
		return
	}

	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Password is required")
		return
	}

	var user models.User
	err := h.DB.Where("reset_password_token = ? AND reset_password_expires > ?",
		hashResetToken(token), time.Now()).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusBadRequest, "Invalid or expired token")
		} else {
			util.Fail(c, http.StatusInternalServerError, "Server error loading account")
		}
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error hashing password")
		return
	}

	user.PasswordHash = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := h.DB.Save(&user).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error updating password")
		return
	}

	util.Message(c, "Password updated successfully")
}

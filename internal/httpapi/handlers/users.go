package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suPer8Hu/brand-assistant/internal/auth"
	"github.com/suPer8Hu/brand-assistant/internal/common"
	"github.com/suPer8Hu/brand-assistant/internal/httpapi/middleware"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"github.com/suPer8Hu/brand-assistant/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type registerReq struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"displayName" binding:"max=128"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if !bindJSON(c, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	var cnt int64
	if err := h.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Count(&cnt).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if cnt > 0 {
		common.Fail(c, http.StatusConflict, 40900, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user (maybe email already exists)")
		return
	}

	logging.FromContext(c.Request.Context()).Info("user registered", zap.String("user_id", user.ID))
	h.issueSession(c, &user)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusUnauthorized, 40102, "invalid email or password")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40102, "invalid email or password")
		return
	}

	h.issueSession(c, &user)
}

func (h *Handler) issueSession(c *gin.Context, user *models.User) {
	token, err := auth.SignJWT(user.ID, user.Email, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cfg.CookieName, token, int(h.Cfg.JWTTTL.Seconds()), "/", "", h.Cfg.CookieSecure, true)

	common.OK(c, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cfg.CookieName, "", -1, "/", "", h.Cfg.CookieSecure, true)
	common.OK(c, gin.H{"success": true})
}

// CurrentUser returns the authenticated user's record.
func (h *Handler) CurrentUser(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		logging.FromContext(c.Request.Context()).Error("load user failed", zap.String("user_id", uid), zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, 20001, "failed to fetch user")
		return
	}
	common.OK(c, user)
}

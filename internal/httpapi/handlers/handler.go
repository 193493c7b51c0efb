package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/chat"
	"github.com/suPer8Hu/brand-assistant/internal/common"
	"github.com/suPer8Hu/brand-assistant/internal/config"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"gorm.io/gorm"
)

type Handler struct {
	DB      *gorm.DB
	Cfg     config.Config
	ChatSvc *chat.Service
	Prompts *prompts.Registry
}

func NewHandler(db *gorm.DB, cfg config.Config, svc *chat.Service, reg *prompts.Registry) *Handler {
	return &Handler{DB: db, Cfg: cfg, ChatSvc: svc, Prompts: reg}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// bindJSON reports a 400 and returns false when the body is malformed or
// fails its binding rules.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errs, ok := common.FieldErrors(err); ok {
			common.FailValidation(c, 10002, "validation failed", errs)
			return false
		}
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return false
	}
	return true
}

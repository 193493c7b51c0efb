package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/chat"
	"github.com/suPer8Hu/brand-assistant/internal/common"
	"github.com/suPer8Hu/brand-assistant/internal/httpapi/middleware"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"go.uber.org/zap"
)

func (h *Handler) ListCategories(c *gin.Context) {
	common.OK(c, h.Prompts.Templates())
}

type createConversationReq struct {
	Category string `json:"category" binding:"required,max=32"`
	Title    string `json:"title" binding:"max=255"`
}

type updateTitleReq struct {
	Title string `json:"title" binding:"required,max=255"`
}

type sendMessageReq struct {
	Role    string `json:"role" binding:"omitempty,oneof=user"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	var req createConversationReq
	if !bindJSON(c, &req) {
		return
	}

	conv, err := h.ChatSvc.CreateConversation(c.Request.Context(), uid, req.Category, req.Title)
	if err != nil {
		h.chatError(c, err, "failed to create conversation")
		return
	}
	common.OK(c, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}

	convs, err := h.ChatSvc.ListConversations(c.Request.Context(), uid)
	if err != nil {
		h.chatError(c, err, "failed to list conversations")
		return
	}
	common.OK(c, convs)
}

func (h *Handler) GetConversation(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	conv, err := h.ChatSvc.GetConversation(c.Request.Context(), id, uid)
	if err != nil {
		h.chatError(c, err, "failed to fetch conversation")
		return
	}
	common.OK(c, conv)
}

func (h *Handler) UpdateConversationTitle(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}
	var req updateTitleReq
	if !bindJSON(c, &req) {
		return
	}

	if err := h.ChatSvc.UpdateTitle(c.Request.Context(), id, uid, req.Title); err != nil {
		h.chatError(c, err, "failed to update title")
		return
	}
	common.OK(c, gin.H{"success": true})
}

func (h *Handler) SendMessage(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}
	var req sendMessageReq
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.ChatSvc.SendMessage(c.Request.Context(), uid, id, chat.SendMessageInput{
		Role:    chat.Role(req.Role),
		Content: req.Content,
	})
	if err != nil {
		h.chatError(c, err, "failed to process message")
		return
	}
	common.OK(c, res)
}

func (h *Handler) userID(c *gin.Context) (string, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
	}
	return uid, ok
}

func conversationID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid conversation id")
		return 0, false
	}
	return id, true
}

// chatError maps service errors onto the response envelope. Causes of 5xx
// responses are logged, never returned.
func (h *Handler) chatError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		common.Fail(c, http.StatusBadRequest, 10005, err.Error())
	case errors.Is(err, chat.ErrNotFound):
		common.Fail(c, http.StatusNotFound, 40404, "conversation not found")
	default:
		logging.FromContext(c.Request.Context()).Error(msg, zap.Error(err))
		_ = c.Error(err)
		common.Fail(c, http.StatusInternalServerError, 50001, msg)
	}
}

package handlers

import (
	"net/http"

	"onetracker/services/chat"
	"onetracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest is the inbound conversational payload.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse mirrors the request's session id alongside the reply.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type ChatHandler struct {
	Svc chat.Service
}

func NewChatHandler(svc chat.Service) *ChatHandler {
	return &ChatHandler{Svc: svc}
}

// HandleChat processes one chat turn. Model and retrieval failures never
// surface as error statuses; booking-flow failures come back as reply text.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	reply, err := h.Svc.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		utils.GetLogger().Error("chat turn failed", zap.Error(err),
			zap.String("session_id", req.SessionID))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	c.JSON(http.StatusOK, ChatResponse{SessionID: req.SessionID, Reply: reply})
}

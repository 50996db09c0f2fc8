package handler

import (
	"net/http"

	"unilink/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// ListMessages returns a room's history in chronological order. The
// caller must be a room participant.
func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.Messages.List(c.Param("roomId"), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type postMessageRequest struct {
	Body string `json:"body"`
}

// PostMessage creates a message in a room. The realtime fan-out happens
// as a side effect; the response carries the authoritative record.
func (h *Handler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("invalid request body"))
		return
	}

	message, err := h.Messages.Post(c.Param("roomId"), currentUserID(c), req.Body, "")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

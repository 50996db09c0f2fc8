package handler

import (
	"net/http"

	"unilink/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// ListRooms returns the caller's chat rooms, most recently active first.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Rooms.ListForUser(currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

type createRoomRequest struct {
	RecipientID string `json:"recipientId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// CreateRoom finds or creates the room between the caller and the
// recipient. Responds 201 in both cases; the anonymity flag only takes
// effect on creation.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("invalid request body"))
		return
	}

	room, err := h.Rooms.FindOrCreate(currentUserID(c), req.RecipientID, req.IsAnonymous)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

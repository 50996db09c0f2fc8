package handler

import (
	"log"
	"net/http"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/chat"
	"unilink/backend/internal/chathub"
	"unilink/backend/internal/profile"

	"github.com/gin-gonic/gin"
)

// Handler carries the service dependencies for the HTTP API.
type Handler struct {
	Hub       *chathub.ManagerService
	Profiles  *profile.Service
	Rooms     *chat.RoomService
	Messages  *chat.MessageService
	JWTSecret []byte
}

func NewHandler(hub *chathub.ManagerService, profiles *profile.Service, rooms *chat.RoomService, messages *chat.MessageService, jwtSecret []byte) *Handler {
	return &Handler{
		Hub:       hub,
		Profiles:  profiles,
		Rooms:     rooms,
		Messages:  messages,
		JWTSecret: jwtSecret,
	}
}

// writeError translates a service error into its HTTP response. Internal
// errors are logged and masked.
func writeError(c *gin.Context, err error) {
	status := apperr.Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

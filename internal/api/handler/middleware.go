package handler

import (
	"strings"

	"unilink/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

const ctxUserIDKey = "userID"

// bearerToken extracts the session token from the Authorization header,
// falling back to the token query parameter for websocket upgrades
// (browsers cannot set headers on a WebSocket handshake).
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// RequireAuth validates the session token and stores the caller's user ID
// in the request context.
func (h *Handler) RequireAuth(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		writeError(c, apperr.ErrUnauthenticated)
		return
	}

	userID, err := validateJWT(token, h.JWTSecret)
	if err != nil {
		writeError(c, apperr.ErrUnauthenticated)
		return
	}

	c.Set(ctxUserIDKey, userID)
	c.Next()
}

// OptionalAuth records the caller's user ID when a valid token is
// present, but lets unauthenticated requests through. Used on public
// routes that enrich their response for signed-in viewers.
func (h *Handler) OptionalAuth(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		if userID, err := validateJWT(token, h.JWTSecret); err == nil {
			c.Set(ctxUserIDKey, userID)
		}
	}
	c.Next()
}

// currentUserID returns the authenticated caller set by RequireAuth.
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

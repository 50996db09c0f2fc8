package handler

import (
	"net/http"
	"time"

	"unilink/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 72 * time.Hour

// generateJWT issues a session token for a user ID.
func generateJWT(userID string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iss": "unilink-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// validateJWT checks a session token and returns the user ID it carries.
func validateJWT(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrUnauthenticated
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.ErrUnauthenticated
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", apperr.ErrUnauthenticated
	}
	return sub, nil
}

type sessionRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CreateSession exchanges a verified identity for a session token. The
// upstream identity provider has already authenticated the caller; this
// endpoint upserts the user record (VISITOR on first sign-in) and issues
// the JWT the rest of the API consumes.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("email is required"))
		return
	}

	user, err := h.Profiles.EnsureUser(req.Email, req.Name, req.Image)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := generateJWT(user.ID, h.JWTSecret)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

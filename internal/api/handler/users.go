package handler

import (
	"net/http"
	"strconv"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/models"
	"unilink/backend/internal/profile"

	"github.com/gin-gonic/gin"
)

// ListStudents returns one page of the ranked student directory.
// Supports search (name/bio/category), a category filter, and pagination.
func (h *Handler) ListStudents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	students, pagination, err := h.Profiles.ListStudents(c.Query("search"), c.Query("category"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": students, "pagination": pagination})
}

// GetOnlineUsers returns the IDs of users with a live realtime connection,
// so listings can show presence indicators.
func (h *Handler) GetOnlineUsers(c *gin.Context) {
	ids, err := h.Hub.OnlineUserIDs()
	if err != nil {
		writeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"userIds": ids})
}

// GetMe returns the authenticated caller's own record.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.Profiles.GetByID(currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetStudent returns a student profile with their projects. When the
// caller is authenticated, the response includes the caller's skill match
// score against the student.
func (h *Handler) GetStudent(c *gin.Context) {
	var viewer *models.User
	if id := currentUserID(c); id != "" {
		viewer, _ = h.Profiles.GetByID(id)
	}

	user, projects, matchScore, err := h.Profiles.StudentProfile(c.Param("id"), viewer)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"user": user, "projects": projects}
	if viewer != nil {
		resp["skillMatchScore"] = matchScore
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile applies an owner-only profile edit.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var upd profile.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		writeError(c, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.Profiles.UpdateProfile(c.Param("id"), currentUserID(c), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

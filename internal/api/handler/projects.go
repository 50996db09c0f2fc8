package handler

import (
	"net/http"
	"strconv"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/profile"

	"github.com/gin-gonic/gin"
)

// ListProjects returns the projects showcased by a student.
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.Profiles.ListProjects(c.Query("studentId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject adds a project to the calling student's showcase.
func (h *Handler) CreateProject(c *gin.Context) {
	var in profile.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("invalid request body"))
		return
	}

	project, err := h.Profiles.CreateProject(currentUserID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject edits a project owned by the caller.
func (h *Handler) UpdateProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperr.Validation("invalid project id"))
		return
	}

	var in profile.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("invalid request body"))
		return
	}

	project, err := h.Profiles.UpdateProject(currentUserID(c), uint(id), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject removes a project owned by the caller.
func (h *Handler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperr.Validation("invalid project id"))
		return
	}

	if err := h.Profiles.DeleteProject(currentUserID(c), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package profile

import (
	"strings"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/models"
)

// ProjectInput carries the editable project fields.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LiveLink    string   `json:"liveLink"`
	TechStack   []string `json:"techStack"`
}

// CreateProject adds a showcased project for the calling student and
// recomputes their completion percent.
func (s *Service) CreateProject(callerID string, in ProjectInput) (*models.Project, error) {
	user, err := s.Storage.GetUserByID(callerID)
	if err != nil {
		return nil, err
	}
	if !user.IsStudent() {
		return nil, apperr.Forbidden("only students can create projects")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}

	project := &models.Project{
		StudentID:   user.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		LiveLink:    in.LiveLink,
		TechStack:   in.TechStack,
	}
	if err := s.Storage.SaveProject(project); err != nil {
		return nil, err
	}

	if err := s.RecalcCompletion(user); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject edits a project owned by the caller.
func (s *Service) UpdateProject(callerID string, projectID uint, in ProjectInput) (*models.Project, error) {
	project, err := s.Storage.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.StudentID != callerID {
		return nil, apperr.Forbidden("cannot edit another student's project")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}

	project.Title = strings.TrimSpace(in.Title)
	project.Description = in.Description
	project.LiveLink = in.LiveLink
	project.TechStack = in.TechStack
	if err := s.Storage.SaveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project owned by the caller and recomputes
// their completion percent.
func (s *Service) DeleteProject(callerID string, projectID uint) error {
	project, err := s.Storage.GetProjectByID(projectID)
	if err != nil {
		return err
	}
	if project.StudentID != callerID {
		return apperr.Forbidden("cannot delete another student's project")
	}

	if err := s.Storage.DeleteProject(projectID); err != nil {
		return err
	}

	user, err := s.Storage.GetUserByID(callerID)
	if err != nil {
		return err
	}
	return s.RecalcCompletion(user)
}

// ListProjects returns all projects showcased by a student.
func (s *Service) ListProjects(studentID string) ([]models.Project, error) {
	if studentID == "" {
		return nil, apperr.Validation("studentId is required")
	}
	return s.Storage.GetProjectsForStudent(studentID)
}

// Package profile implements the student directory: sign-in upserts,
// profile edits with derived completion, ranked listings and the skill
// match score shown to viewers.
package profile

import (
	"log"
	"time"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/config"
	"unilink/backend/internal/models"
	"unilink/backend/internal/ranking"
	"unilink/backend/internal/storage"
)

// Pagination describes a slice of a ranked listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Update carries the editable profile fields. Nil pointers leave the
// field untouched.
type Update struct {
	Name               *string `json:"name"`
	Category           *string `json:"category"`
	Semester           *int    `json:"semester"`
	Bio                *string `json:"bio"`
	Image              *string `json:"image"`
	AvailabilityStatus *string `json:"availabilityStatus"`
	Role               *string `json:"role"`
}

// Service handles user profiles and showcased projects.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new profile service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// EnsureUser resolves a verified identity to a user record, creating a
// VISITOR on first sign-in.
func (s *Service) EnsureUser(email, name, image string) (*models.User, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	return s.Storage.EnsureUser(email, name, image)
}

// GetByID returns a single user.
func (s *Service) GetByID(id string) (*models.User, error) {
	return s.Storage.GetUserByID(id)
}

// GetByEmail returns a single user by their unique email.
func (s *Service) GetByEmail(email string) (*models.User, error) {
	return s.Storage.GetUserByEmail(email)
}

// UpdateProfile applies an owner-only profile edit. The role may only
// move VISITOR -> STUDENT; any other role change is ignored. Completion
// is recomputed on every edit.
func (s *Service) UpdateProfile(userID, callerID string, upd Update) (*models.User, error) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.ID != callerID {
		return nil, apperr.Forbidden("cannot edit another user's profile")
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Category != nil {
		user.Category = *upd.Category
	}
	if upd.Semester != nil {
		if *upd.Semester < 1 || *upd.Semester > 8 {
			return nil, apperr.Validation("semester must be between 1 and 8")
		}
		user.Semester = upd.Semester
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.Image != nil {
		user.Image = *upd.Image
	}
	if upd.AvailabilityStatus != nil {
		switch *upd.AvailabilityStatus {
		case models.AvailabilityAvailable, models.AvailabilityBusy:
			user.AvailabilityStatus = *upd.AvailabilityStatus
		default:
			return nil, apperr.Validation("invalid availability status")
		}
	}
	// One-way upgrade only; STUDENT never reverts to VISITOR.
	if upd.Role != nil && *upd.Role == models.RoleStudent && user.Role == models.RoleVisitor {
		user.Role = models.RoleStudent
	}

	if err := s.RecalcCompletion(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RecalcCompletion recomputes and persists the derived completion percent.
func (s *Service) RecalcCompletion(user *models.User) error {
	projectCount, err := s.Storage.CountProjectsForStudent(user.ID)
	if err != nil {
		log.Printf("WARNING: Failed to count projects for %s: %v", user.ID, err)
	}
	user.ProfileCompletionPercent = ranking.ProfileCompletion(user, int(projectCount))
	return s.Storage.SaveUser(user)
}

// ListStudents returns one page of the ranked student directory.
func (s *Service) ListStudents(search, category string, page, limit int) ([]models.User, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}

	students, err := s.Storage.ListStudents(search, category)
	if err != nil {
		return nil, Pagination{}, err
	}

	counts := make(map[string]int64, len(students))
	for i := range students {
		count, err := s.Storage.CountMessagesBySender(students[i].ID)
		if err != nil {
			log.Printf("WARNING: Failed to count messages for %s: %v", students[i].ID, err)
			continue
		}
		counts[students[i].ID] = count
	}

	ranking.SortStudents(students, counts, time.Now())

	total := len(students)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	pg := Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
	return students[start:end], pg, nil
}

// StudentProfile returns a student with their projects and, when a viewer
// is known, the viewer's skill match score.
func (s *Service) StudentProfile(id string, viewer *models.User) (*models.User, []models.Project, int, error) {
	user, err := s.Storage.GetUserByID(id)
	if err != nil {
		return nil, nil, 0, err
	}
	if !user.IsStudent() {
		return nil, nil, 0, apperr.Forbidden("user is not a student")
	}

	projects, err := s.Storage.GetProjectsForStudent(id)
	if err != nil {
		return nil, nil, 0, err
	}

	return user, projects, ranking.SkillMatchScore(viewer, user), nil
}

package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Project is a piece of work showcased on a student profile. Only users
// with the STUDENT role may own projects.
type Project struct {
	gorm.Model

	// StudentID is the ID of the owning student.
	StudentID string `gorm:"type:text;not null;index" json:"studentId"`
	// Title is the project name.
	Title string `gorm:"not null" json:"title"`
	// Description is an optional free-text summary.
	Description string `gorm:"type:text" json:"description"`
	// LiveLink is an optional URL to a running demo or repository.
	LiveLink string `json:"liveLink"`
	// TechStack lists technology tags for the project.
	TechStack pq.StringArray `gorm:"type:text[]" json:"techStack"`
}

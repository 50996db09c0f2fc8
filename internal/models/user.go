package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. A VISITOR becomes a STUDENT through a profile
// upgrade; the transition is one-way.
const (
	RoleVisitor = "VISITOR"
	RoleStudent = "STUDENT"
)

// Availability statuses shown on a student profile.
const (
	AvailabilityAvailable = "Available"
	AvailabilityBusy      = "Busy"
)

// User represents an account in the system. It is created on first
// sign-in (as a VISITOR) and filled in through profile edits.
type User struct {
	ID                 string `gorm:"primaryKey" json:"id"`
	Name               string `gorm:"not null" json:"name"`
	Email              string `gorm:"uniqueIndex;not null" json:"email"`
	Image              string `json:"image"`
	Role               string `gorm:"not null;default:VISITOR" json:"role"`
	Category           string `json:"category"`
	Semester           *int   `json:"semester"`
	Bio                string `json:"bio"`
	AvailabilityStatus string `gorm:"not null;default:Available" json:"availabilityStatus"`
	// ProfileCompletionPercent is derived; it is recomputed on every
	// profile or project mutation, never edited directly.
	ProfileCompletionPercent int       `json:"profileCompletionPercent"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that generates a new UUID for the user
// if the ID has not been set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsStudent reports whether the user holds the STUDENT role.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Ref returns the display fields exposed to other users.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Image: u.Image, Email: u.Email}
}

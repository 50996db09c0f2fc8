package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom represents a persistent 1-on-1 conversation between two users.
// The participant pair is stored in canonical (sorted) order so that a
// composite unique index can enforce at most one room per unordered pair.
type ChatRoom struct {
	// RoomID is the unique identifier for the chat room (UUID).
	RoomID string `gorm:"primaryKey" json:"id"`
	// UserLowID is the lexicographically smaller participant ID.
	UserLowID string `gorm:"not null;uniqueIndex:idx_room_pair" json:"-"`
	// UserHighID is the lexicographically larger participant ID.
	UserHighID string `gorm:"not null;uniqueIndex:idx_room_pair" json:"-"`
	// IsAnonymous hides the visitor's identity from the student. Set only
	// at creation; flips to false forever on the student's first reply.
	IsAnonymous bool `json:"isAnonymous"`
	// LastMessage is a denormalized preview of the most recent message
	// body. Message records remain the authoritative history.
	LastMessage string    `json:"lastMessage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `gorm:"index" json:"updatedAt"`
}

// BeforeCreate generates a RoomID if one has not been set yet.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	return
}

// SortPair returns the two user IDs in canonical storage order.
func SortPair(a, b string) (low, high string) {
	if a > b {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether the given user belongs to the room.
func (r *ChatRoom) HasParticipant(userID string) bool {
	return userID != "" && (r.UserLowID == userID || r.UserHighID == userID)
}

// OtherParticipant returns the participant that is not userID. It returns
// an empty string if userID is not a participant at all.
func (r *ChatRoom) OtherParticipant(userID string) string {
	switch userID {
	case r.UserLowID:
		return r.UserHighID
	case r.UserHighID:
		return r.UserLowID
	}
	return ""
}

// ParticipantIDs returns both participant IDs in storage order.
func (r *ChatRoom) ParticipantIDs() []string {
	return []string{r.UserLowID, r.UserHighID}
}

package models

import "gorm.io/gorm"

// Message is a single chat message persisted in PostgreSQL. Messages are
// immutable once created; they are never updated or deleted. The embedded
// gorm.Model provides the auto-incremented ID, which doubles as the
// insertion-order tiebreak for equal timestamps and as the client-side
// de-duplication key for realtime delivery.
type Message struct {
	gorm.Model

	// RoomID is the identifier of the chat room the message belongs to.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_msg"`
	// SenderID is the ID of the user who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_room_msg"`
	// Body is the message text, stored with surrounding whitespace trimmed.
	Body string `gorm:"type:text;not null"`
}

// View builds the enriched representation returned to callers and pushed
// over the realtime channel. Raw sender IDs are never exposed on their own;
// the sender's display fields are attached instead.
func (m *Message) View(sender UserRef) MessageView {
	return MessageView{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Sender:    sender,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

package models

import "time"

// Realtime channel event types. Client to server: joinRoom, leaveRoom,
// sendMessage. Server to client: newMessage.
const (
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventSendMessage = "sendMessage"
	EventNewMessage  = "newMessage"
)

// AnonymousName is the placeholder shown instead of a hidden sender.
const AnonymousName = "Anonymous"

// UserRef carries the display fields of a user attached to messages and
// room participant lists.
type UserRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Email string `json:"email,omitempty"`
}

// AnonymousRef returns the placeholder identity used when a sender is
// hidden from the viewer.
func AnonymousRef() UserRef {
	return UserRef{Name: AnonymousName}
}

// MessageView is a message enriched with the sender's display fields.
type MessageView struct {
	ID        uint      `json:"id"`
	RoomID    string    `json:"roomId"`
	Sender    UserRef   `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ForViewer applies the anonymization rule at render time: in an anonymous
// room, senders other than the viewer are replaced with the placeholder
// identity. Nothing is stored per message; the result always reflects the
// room's current anonymity state.
func (v MessageView) ForViewer(viewerID string, roomAnonymous bool) MessageView {
	if roomAnonymous && v.Sender.ID != viewerID {
		v.Sender = AnonymousRef()
	}
	return v
}

// ChatEvent is a single frame on the realtime channel, in either direction.
type ChatEvent struct {
	Type    string       `json:"type"`
	RoomID  string       `json:"roomId,omitempty"`
	Message *MessageView `json:"message,omitempty"`
}

// RealtimeMessage is the envelope published to Redis when a message is
// created. OriginConn names the connection that produced the message, so
// the hub can skip echoing it back; it is empty for messages created over
// the HTTP API. Anonymous snapshots the room's anonymity state at publish
// time, letting every hub instance render the view per subscriber without
// a storage round trip.
type RealtimeMessage struct {
	RoomID     string      `json:"roomId"`
	OriginConn string      `json:"originConn,omitempty"`
	Anonymous  bool        `json:"anonymous"`
	Message    MessageView `json:"message"`
}

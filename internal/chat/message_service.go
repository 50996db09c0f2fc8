package chat

import (
	"log"
	"strings"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/models"
	"unilink/backend/internal/storage"
)

// Bus is the realtime delivery boundary. Publishing is fire-and-forget:
// implementations must not block and their failures never propagate back
// to the message write.
type Bus interface {
	PublishMessage(room *models.ChatRoom, view models.MessageView, originConn string)
}

// MessageService validates, authorizes and persists messages, then hands
// them to the realtime bus for fan-out.
type MessageService struct {
	Storage storage.Storage
	Rooms   *RoomService
	Bus     Bus
}

// NewMessageService creates a new message service.
func NewMessageService(s storage.Storage, rooms *RoomService, bus Bus) *MessageService {
	return &MessageService{Storage: s, Rooms: rooms, Bus: bus}
}

// Post persists a new message in the room on behalf of senderID and
// returns the enriched view. The sender must be a room participant and
// the body must be non-empty after trimming. Room metadata bookkeeping
// and the realtime hand-off are best-effort: once the message itself is
// durably stored, their failures are logged, never surfaced.
//
// originConn identifies the websocket connection the post came from, if
// any, so the bus can skip echoing the message back to it; it is empty
// for HTTP posts.
func (s *MessageService) Post(roomID, senderID, body, originConn string) (*models.MessageView, error) {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(senderID) {
		return nil, apperr.Forbidden("not a participant of this room")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message body is required")
	}

	sender, err := s.Storage.GetUserByID(senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Body:     body,
	}
	if err := s.Storage.CreateMessage(msg); err != nil {
		return nil, err
	}

	// Denormalized preview only; the stored message is authoritative.
	room.LastMessage = body
	if err := s.Storage.SaveRoom(room); err != nil {
		log.Printf("WARNING: Failed to update room %s preview: %v", roomID, err)
	}
	if err := s.Rooms.RevealIdentityOnReply(room, sender.Role); err != nil {
		log.Printf("WARNING: Failed to reveal identity for room %s: %v", roomID, err)
	}

	view := msg.View(sender.Ref())
	if s.Bus != nil {
		s.Bus.PublishMessage(room, view, originConn)
	}
	return &view, nil
}

// List returns the room's full history in chronological order, rendered
// for the requester. The requester must be a room participant.
func (s *MessageService) List(roomID, requesterID string) ([]models.MessageView, error) {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(requesterID) {
		return nil, apperr.Forbidden("not a participant of this room")
	}

	messages, err := s.Storage.GetMessagesForRoom(roomID)
	if err != nil {
		return nil, err
	}

	refs := make(map[string]models.UserRef)
	for _, id := range room.ParticipantIDs() {
		if u, err := s.Storage.GetUserByID(id); err == nil {
			refs[id] = u.Ref()
		} else {
			log.Printf("WARNING: Failed to load participant %s: %v", id, err)
			refs[id] = models.UserRef{ID: id, Name: "Unknown"}
		}
	}

	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		views = append(views, m.View(refs[m.SenderID]).ForViewer(requesterID, room.IsAnonymous))
	}
	return views, nil
}

// Package chat implements the direct-messaging core: chat room lifecycle
// and message posting/listing over the storage layer, with fan-out handed
// to the realtime bus.
package chat

import (
	"errors"
	"log"
	"time"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/models"
	"unilink/backend/internal/storage"

	"gorm.io/gorm"
)

// RoomView is a room annotated with participant display data and its most
// recent message, rendered for a specific viewer.
type RoomView struct {
	ID           string              `json:"id"`
	Participants []models.UserRef    `json:"participants"`
	IsAnonymous  bool                `json:"isAnonymous"`
	LastMessage  *models.MessageView `json:"lastMessage"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// RoomService owns chat room lifecycle: find-or-create for a participant
// pair, listing, and the one-way anonymity reveal.
type RoomService struct {
	Storage storage.Storage
}

// NewRoomService creates a new room service.
func NewRoomService(s storage.Storage) *RoomService {
	return &RoomService{Storage: s}
}

// FindOrCreate returns the room for the requester/recipient pair, creating
// it on first contact. Lookup ignores argument order, so repeated calls for
// the same pair never produce duplicates. Anonymity is fixed at creation:
// it is granted only when requested by a VISITOR, and the flag of an
// existing room is never touched.
func (s *RoomService) FindOrCreate(requesterID, recipientID string, anonymous bool) (*RoomView, error) {
	if requesterID == "" || recipientID == "" {
		return nil, apperr.Validation("recipientId is required")
	}
	if requesterID == recipientID {
		return nil, apperr.Validation("cannot open a chat with yourself")
	}

	requester, err := s.Storage.GetUserByID(requesterID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.Storage.GetUserByID(recipientID)
	if err != nil {
		return nil, err
	}

	room, err := s.Storage.GetRoomByPair(requesterID, recipientID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if room == nil || errors.Is(err, apperr.ErrNotFound) {
		low, high := models.SortPair(requesterID, recipientID)
		room = &models.ChatRoom{
			UserLowID:   low,
			UserHighID:  high,
			IsAnonymous: anonymous && requester.Role == models.RoleVisitor,
		}

		if createErr := s.Storage.CreateRoom(room); createErr != nil {
			// Two first contacts raced; the unique index on the pair
			// rejected the second insert. Re-fetch the winner.
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				room, err = s.Storage.GetRoomByPair(requesterID, recipientID)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, createErr
			}
		}
	}

	view := s.buildRoomView(room, requesterID, map[string]*models.User{
		requester.ID: requester,
		recipient.ID: recipient,
	})
	return &view, nil
}

// ListForUser returns every room the user participates in, most recently
// updated first. The latest message is looked up per room rather than read
// from the denormalized preview, so the annotation is always fresh.
func (s *RoomService) ListForUser(userID string) ([]RoomView, error) {
	rooms, err := s.Storage.GetRoomsForUser(userID)
	if err != nil {
		return nil, err
	}

	users := make(map[string]*models.User)
	views := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		views = append(views, s.buildRoomView(&rooms[i], userID, users))
	}
	return views, nil
}

// RevealIdentityOnReply flips an anonymous room to non-anonymous when the
// STUDENT participant replies for the first time. The transition is
// one-directional; calling it on a revealed room is a no-op.
func (s *RoomService) RevealIdentityOnReply(room *models.ChatRoom, responderRole string) error {
	if !room.IsAnonymous || responderRole != models.RoleStudent {
		return nil
	}
	room.IsAnonymous = false
	return s.Storage.SaveRoom(room)
}

// buildRoomView assembles the viewer-facing representation of a room.
// users caches participant lookups across rooms for the same viewer.
func (s *RoomService) buildRoomView(room *models.ChatRoom, viewerID string, users map[string]*models.User) RoomView {
	view := RoomView{
		ID:          room.RoomID,
		IsAnonymous: room.IsAnonymous,
		UpdatedAt:   room.UpdatedAt,
	}

	for _, id := range room.ParticipantIDs() {
		ref := s.participantRef(id, users)
		// In an anonymous room the other party's identity is hidden
		// from the viewer until the reveal.
		if room.IsAnonymous && id != viewerID {
			ref = models.AnonymousRef()
		}
		view.Participants = append(view.Participants, ref)
	}

	latest, err := s.Storage.GetLatestMessageForRoom(room.RoomID)
	if err != nil {
		log.Printf("WARNING: Failed to load latest message for room %s: %v", room.RoomID, err)
	}
	if latest != nil {
		mv := latest.View(s.participantRef(latest.SenderID, users)).
			ForViewer(viewerID, room.IsAnonymous)
		view.LastMessage = &mv
	}
	return view
}

func (s *RoomService) participantRef(userID string, users map[string]*models.User) models.UserRef {
	if u, ok := users[userID]; ok && u != nil {
		return u.Ref()
	}
	u, err := s.Storage.GetUserByID(userID)
	if err != nil {
		log.Printf("WARNING: Failed to load participant %s: %v", userID, err)
		users[userID] = nil
		return models.UserRef{ID: userID, Name: "Unknown"}
	}
	users[userID] = u
	return u.Ref()
}

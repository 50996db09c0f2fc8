package chathub

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"unilink/backend/internal/models"
	"unilink/backend/internal/storage"
)

const (
	// publishBuffer bounds the fire-and-forget hand-off between message
	// creation and the Redis publish. A full buffer drops the event; the
	// persisted history remains the authoritative record.
	publishBuffer = 256

	// publishTimeout bounds a single Redis publish.
	publishTimeout = 2 * time.Second
)

// Subscription pairs a client with a room channel for join/leave requests.
type Subscription struct {
	Client Client
	RoomID string
}

// ManagerService is the realtime delivery hub. A single goroutine owns the
// connection and room-subscription maps; all mutation flows through the
// channels. Fan-out is best-effort with no acknowledgement or retry:
// clients that were offline catch up from the persisted message list.
type ManagerService struct {
	// Clients holds every live connection, keyed by connection ID.
	Clients map[string]Client
	// rooms maps a room ID to its subscribed connections.
	rooms map[string]map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	JoinCh       chan Subscription
	LeaveCh      chan Subscription
	// PublishCh receives locally created messages destined for Redis.
	PublishCh chan models.RealtimeMessage

	// PubSubCh receives messages from the Redis subscription, including
	// those published by other instances.
	PubSubCh chan models.RealtimeMessage
	stopCh   chan struct{}

	Storage storage.Storage
}

// NewManagerService creates a hub. Call Run to start it and Stop to shut
// it down.
func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		rooms:        make(map[string]map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		JoinCh:       make(chan Subscription),
		LeaveCh:      make(chan Subscription),
		PublishCh:    make(chan models.RealtimeMessage, publishBuffer),
		PubSubCh:     make(chan models.RealtimeMessage, publishBuffer),
		stopCh:       make(chan struct{}),
		Storage:      s,
	}
}

// PublishMessage implements the bus boundary used by the message service.
// The hand-off never blocks: when the buffer is full the event is dropped
// with a log line, and the caller's write is unaffected.
func (m *ManagerService) PublishMessage(room *models.ChatRoom, view models.MessageView, originConn string) {
	env := models.RealtimeMessage{
		RoomID:     room.RoomID,
		OriginConn: originConn,
		Anonymous:  room.IsAnonymous,
		Message:    view,
	}

	select {
	case m.PublishCh <- env:
	default:
		log.Printf("WARNING: Publish buffer full, dropping message %d for room %s", view.ID, room.RoomID)
	}
}

// Run is the hub's main dispatcher loop.
func (m *ManagerService) Run() {
	if pubsub := m.Storage.SubscribeToRooms(); pubsub != nil {
		defer pubsub.Close()
		go m.consumePubSub(pubsub)
	}

	log.Println("Chat hub started.")

	for {
		select {
		case client := <-m.RegisterCh:
			m.handleRegister(client)

		case client := <-m.UnregisterCh:
			m.removeClient(client)

		case sub := <-m.JoinCh:
			m.handleJoin(sub)

		case sub := <-m.LeaveCh:
			m.handleLeave(sub)

		case env := <-m.PublishCh:
			m.publishToRedis(env)

		case env := <-m.PubSubCh:
			m.fanOut(env)

		case <-m.stopCh:
			log.Println("Chat hub stopping.")
			for _, client := range m.Clients {
				m.removeClient(client)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (m *ManagerService) Stop() {
	close(m.stopCh)
}

// OnlineUserIDs returns the users currently connected to any hub instance,
// read from the shared presence set.
func (m *ManagerService) OnlineUserIDs() ([]string, error) {
	return m.Storage.GetOnlineUserIDs()
}

func (m *ManagerService) handleRegister(client Client) {
	m.Clients[client.GetConnID()] = client
	if err := m.Storage.MarkUserOnline(client.GetUserID()); err != nil {
		log.Printf("WARNING: Failed to mark user %s online: %v", client.GetUserID(), err)
	}
}

// handleJoin subscribes a connection to a room channel. Joining twice is
// a no-op.
func (m *ManagerService) handleJoin(sub Subscription) {
	connID := sub.Client.GetConnID()
	if _, ok := m.Clients[connID]; !ok {
		return
	}
	if m.rooms[sub.RoomID] == nil {
		m.rooms[sub.RoomID] = make(map[string]Client)
	}
	m.rooms[sub.RoomID][connID] = sub.Client
}

// handleLeave unsubscribes a connection from a room channel. Leaving a
// room the connection never joined is a no-op.
func (m *ManagerService) handleLeave(sub Subscription) {
	connID := sub.Client.GetConnID()
	if subscribers, ok := m.rooms[sub.RoomID]; ok {
		delete(subscribers, connID)
		if len(subscribers) == 0 {
			delete(m.rooms, sub.RoomID)
		}
	}
}

// removeClient drops a connection from the hub and all its rooms.
func (m *ManagerService) removeClient(client Client) {
	connID := client.GetConnID()
	if _, ok := m.Clients[connID]; !ok {
		return
	}
	delete(m.Clients, connID)
	for roomID, subscribers := range m.rooms {
		delete(subscribers, connID)
		if len(subscribers) == 0 {
			delete(m.rooms, roomID)
		}
	}
	client.Close()
	if err := m.Storage.MarkUserOffline(client.GetUserID()); err != nil {
		log.Printf("WARNING: Failed to mark user %s offline: %v", client.GetUserID(), err)
	}
}

// publishToRedis forwards a locally created message to Redis so every hub
// instance, this one included, fans it out to its subscribers.
func (m *ManagerService) publishToRedis(env models.RealtimeMessage) {
	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("ERROR: Failed to encode realtime message %d: %v", env.Message.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := m.Storage.PublishEvent(ctx, env.RoomID, payload); err != nil {
		// Best-effort: the message is already durably stored.
		log.Printf("WARNING: Failed to publish message %d for room %s: %v", env.Message.ID, env.RoomID, err)
	}
}

// fanOut delivers a message to every local subscriber of its room, except
// the originating connection. Each subscriber gets the view rendered for
// their own identity, so anonymity holds per viewer.
func (m *ManagerService) fanOut(env models.RealtimeMessage) {
	subscribers := m.rooms[env.RoomID]
	for connID, client := range subscribers {
		if connID == env.OriginConn {
			continue
		}

		view := env.Message.ForViewer(client.GetUserID(), env.Anonymous)
		event := models.ChatEvent{Type: models.EventNewMessage, RoomID: env.RoomID, Message: &view}

		select {
		case client.GetSendChannel() <- event:
		default:
			// Slow consumer; drop the connection rather than block the hub.
			log.Printf("WARNING: Send buffer full for connection %s, disconnecting", connID)
			m.removeClient(client)
		}
	}
}

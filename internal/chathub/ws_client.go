package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"unilink/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// sendBuffer is the per-connection outgoing queue.
	sendBuffer = 256
	// dedupWindow is how many recently delivered message IDs each
	// connection remembers for de-duplication.
	dedupWindow = 64
)

// WebSocketClient implements the Client interface over gorilla/websocket.
type WebSocketClient struct {
	ConnID string
	UserID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.ChatEvent

	seen      *recentIDs
	closeOnce sync.Once
}

// NewWebSocketClient wraps an upgraded connection for the hub.
func NewWebSocketClient(connID, userID string, conn *websocket.Conn, hub *ManagerService) *WebSocketClient {
	return &WebSocketClient{
		ConnID: connID,
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.ChatEvent, sendBuffer),
		seen:   newRecentIDs(dedupWindow),
	}
}

func (c *WebSocketClient) GetConnID() string                       { return c.ConnID }
func (c *WebSocketClient) GetUserID() string                       { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ChatEvent { return c.Send }

// Run starts the pumps for this connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops writePump. readPump stops on
// its own once the underlying connection closes.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// readPump reads client events and dispatches them to the hub.
func (c *WebSocketClient) readPump() {
	defer func() {
		// The hub may already be stopped, in which case nothing drains
		// UnregisterCh anymore.
		select {
		case c.Hub.UnregisterCh <- c:
		case <-c.Hub.stopCh:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var event models.ChatEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Error decoding event from connection %s: %v", c.ConnID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent processes one inbound frame: channel membership changes, or
// the re-broadcast of a message the client already created over the API.
func (c *WebSocketClient) handleEvent(event models.ChatEvent) {
	switch event.Type {
	case models.EventJoinRoom:
		if !c.mayAccess(event.RoomID) {
			return
		}
		c.Hub.JoinCh <- Subscription{Client: c, RoomID: event.RoomID}

	case models.EventLeaveRoom:
		c.Hub.LeaveCh <- Subscription{Client: c, RoomID: event.RoomID}

	case models.EventSendMessage:
		if event.Message == nil || event.RoomID == "" {
			return
		}
		// The message is already persisted via the API; this path only
		// fans it out to the other subscribers. The sender identity is
		// pinned to the connection's user.
		if event.Message.Sender.ID != c.UserID {
			log.Printf("WARNING: Connection %s tried to relay a foreign message", c.ConnID)
			return
		}
		room, err := c.Hub.Storage.GetRoomByID(event.RoomID)
		if err != nil || !room.HasParticipant(c.UserID) {
			return
		}
		c.Hub.PublishMessage(room, *event.Message, c.ConnID)

	default:
		log.Printf("Unknown event type %q from connection %s", event.Type, c.ConnID)
	}
}

// mayAccess reports whether the connection's user participates in the room.
func (c *WebSocketClient) mayAccess(roomID string) bool {
	if roomID == "" {
		return false
	}
	room, err := c.Hub.Storage.GetRoomByID(roomID)
	if err != nil {
		return false
	}
	return room.HasParticipant(c.UserID)
}

// writePump writes hub events to the socket and keeps the connection
// alive with pings. Duplicate message deliveries are filtered here.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if event.Type == models.EventNewMessage && event.Message != nil && c.seen.Seen(event.Message.ID) {
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding event for connection %s: %v", c.ConnID, err)
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

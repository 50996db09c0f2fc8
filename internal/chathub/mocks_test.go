package chathub_test

import (
	"context"
	"sync"

	"unilink/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface. The hub
// only touches the realtime and presence methods; the rest exist to
// satisfy the interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) EnsureUser(email, name, image string) (*models.User, error) {
	args := m.Called(email, name, image)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListStudents(search, category string) ([]models.User, error) {
	args := m.Called(search, category)
	if users := args.Get(0); users != nil {
		return users.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateRoom(room *models.ChatRoom) error { return m.Called(room).Error(0) }
func (m *MockStorage) SaveRoom(room *models.ChatRoom) error   { return m.Called(room).Error(0) }

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if r := args.Get(0); r != nil {
		return r.(*models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetRoomByPair(userA, userB string) (*models.ChatRoom, error) {
	args := m.Called(userA, userB)
	if r := args.Get(0); r != nil {
		return r.(*models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetRoomsForUser(userID string) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	if rooms := args.Get(0); rooms != nil {
		return rooms.([]models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error { return m.Called(msg).Error(0) }

func (m *MockStorage) GetMessagesForRoom(roomID string) ([]models.Message, error) {
	args := m.Called(roomID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetLatestMessageForRoom(roomID string) (*models.Message, error) {
	args := m.Called(roomID)
	if msg := args.Get(0); msg != nil {
		return msg.(*models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CountMessagesBySender(senderID string) (int64, error) {
	args := m.Called(senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) SaveProject(project *models.Project) error { return m.Called(project).Error(0) }

func (m *MockStorage) GetProjectByID(id uint) (*models.Project, error) {
	args := m.Called(id)
	if p := args.Get(0); p != nil {
		return p.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeleteProject(id uint) error { return m.Called(id).Error(0) }

func (m *MockStorage) GetProjectsForStudent(studentID string) ([]models.Project, error) {
	args := m.Called(studentID)
	if projects := args.Get(0); projects != nil {
		return projects.([]models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CountProjectsForStudent(studentID string) (int64, error) {
	args := m.Called(studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) PublishEvent(ctx context.Context, roomID string, payload []byte) error {
	return m.Called(ctx, roomID, payload).Error(0)
}

func (m *MockStorage) SubscribeToRooms() *redis.PubSub {
	args := m.Called()
	if ps := args.Get(0); ps != nil {
		return ps.(*redis.PubSub)
	}
	return nil
}

func (m *MockStorage) MarkUserOnline(userID string) error  { return m.Called(userID).Error(0) }
func (m *MockStorage) MarkUserOffline(userID string) error { return m.Called(userID).Error(0) }

func (m *MockStorage) GetOnlineUserIDs() ([]string, error) {
	args := m.Called()
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeClient stands in for a websocket connection. Its send channel is
// buffered so delivered events can be inspected after the fact; a zero
// buffer simulates a slow consumer.
type fakeClient struct {
	connID string
	userID string
	send   chan models.ChatEvent

	mu     sync.Mutex
	closed int
}

func newFakeClient(connID, userID string, buffer int) *fakeClient {
	return &fakeClient{
		connID: connID,
		userID: userID,
		send:   make(chan models.ChatEvent, buffer),
	}
}

func (c *fakeClient) GetConnID() string                       { return c.connID }
func (c *fakeClient) GetUserID() string                       { return c.userID }
func (c *fakeClient) GetSendChannel() chan<- models.ChatEvent { return c.send }
func (c *fakeClient) Run()                                    {}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *fakeClient) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// received drains and returns every event currently buffered.
func (c *fakeClient) received() []models.ChatEvent {
	var events []models.ChatEvent
	for {
		select {
		case ev := <-c.send:
			events = append(events, ev)
		default:
			return events
		}
	}
}

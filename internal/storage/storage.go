package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"unilink/backend/internal/apperr"
	"unilink/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence boundary used by the services and the hub.
type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	EnsureUser(email, name, image string) (*models.User, error)
	ListStudents(search, category string) ([]models.User, error)

	CreateRoom(room *models.ChatRoom) error
	SaveRoom(room *models.ChatRoom) error
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	GetRoomByPair(userA, userB string) (*models.ChatRoom, error)
	GetRoomsForUser(userID string) ([]models.ChatRoom, error)

	CreateMessage(msg *models.Message) error
	GetMessagesForRoom(roomID string) ([]models.Message, error)
	GetLatestMessageForRoom(roomID string) (*models.Message, error)
	CountMessagesBySender(senderID string) (int64, error)

	SaveProject(project *models.Project) error
	GetProjectByID(id uint) (*models.Project, error)
	DeleteProject(id uint) error
	GetProjectsForStudent(studentID string) ([]models.Project, error)
	CountProjectsForStudent(studentID string) (int64, error)

	PublishEvent(ctx context.Context, roomID string, payload []byte) error
	SubscribeToRooms() *redis.PubSub

	MarkUserOnline(userID string) error
	MarkUserOffline(userID string) error
	GetOnlineUserIDs() ([]string, error)
}

// Redis key layout.
const (
	roomChannelPrefix  = "chat:room:"
	roomChannelPattern = roomChannelPrefix + "*"
	onlineUsersKey     = "online_users"
)

// RoomChannel returns the Redis pub/sub channel name for a room.
func RoomChannel(roomID string) string {
	return roomChannelPrefix + roomID
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

// SaveUser persists the user in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user by email: %v", err)
		return nil, err
	}
	return &user, nil
}

// EnsureUser finds the user for a verified identity, creating a VISITOR
// record on first sign-in. Email uniquely identifies one user.
func (s *Service) EnsureUser(email, name, image string) (*models.User, error) {
	var user models.User
	defaults := models.User{
		Name:  name,
		Email: email,
		Image: image,
		Role:  models.RoleVisitor,
	}

	result := s.DB.Where("email = ?", email).FirstOrCreate(&user, defaults)
	if result.Error != nil {
		log.Printf("ERROR: Failed to ensure user on first contact: %v", result.Error)
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("INFO: New user %s created on first sign-in.", user.ID)
	}
	return &user, nil
}

// ListStudents returns all STUDENT users matching the optional search term
// (name, bio or category, case-insensitive) and category filter. Ranking
// and pagination happen in the profile service.
func (s *Service) ListStudents(search, category string) ([]models.User, error) {
	q := s.DB.Where("role = ?", models.RoleStudent)

	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name ILIKE ? OR bio ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var students []models.User
	if err := q.Find(&students).Error; err != nil {
		log.Printf("ERROR: Failed to list students: %v", err)
		return nil, err
	}
	return students, nil
}

// --- Rooms ---

// CreateRoom inserts a new room. The unique index on the canonical
// participant pair makes concurrent creation for the same pair surface as
// gorm.ErrDuplicatedKey, which callers resolve by re-fetching.
func (s *Service) CreateRoom(room *models.ChatRoom) error {
	return s.DB.Create(room).Error
}

// SaveRoom persists room metadata updates (last message, anonymity flag).
func (s *Service) SaveRoom(room *models.ChatRoom) error {
	return s.DB.Save(room).Error
}

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("chat room")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// GetRoomByPair looks up the room for two users regardless of argument order.
func (s *Service) GetRoomByPair(userA, userB string) (*models.ChatRoom, error) {
	low, high := models.SortPair(userA, userB)

	var room models.ChatRoom
	err := s.DB.Where("user_low_id = ? AND user_high_id = ?", low, high).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("chat room")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room for pair: %v", err)
		return nil, err
	}
	return &room, nil
}

// GetRoomsForUser returns all rooms the user participates in, most
// recently updated first.
func (s *Service) GetRoomsForUser(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&rooms).Error
	if err != nil {
		log.Printf("ERROR: Failed to get rooms for user %s: %v", userID, err)
		return nil, err
	}
	return rooms, nil
}

// --- Messages ---

// CreateMessage persists a message. The record is immutable afterwards.
func (s *Service) CreateMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// GetMessagesForRoom returns the room history in chronological order,
// with the auto-incremented ID breaking creation-time ties.
func (s *Service) GetMessagesForRoom(roomID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// GetLatestMessageForRoom returns the most recent message of a room, or
// nil if the room has no messages yet.
func (s *Service) GetLatestMessageForRoom(roomID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at desc, id desc").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get latest message for room %s: %v", roomID, err)
		return nil, err
	}
	return &msg, nil
}

func (s *Service) CountMessagesBySender(senderID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).Where("sender_id = ?", senderID).Count(&count).Error
	return count, err
}

// --- Projects ---

func (s *Service) SaveProject(project *models.Project) error {
	return s.DB.Save(project).Error
}

func (s *Service) GetProjectByID(id uint) (*models.Project, error) {
	var project models.Project
	err := s.DB.First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Service) DeleteProject(id uint) error {
	return s.DB.Delete(&models.Project{}, id).Error
}

func (s *Service) GetProjectsForStudent(studentID string) ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.Where("student_id = ?", studentID).Order("created_at desc").Find(&projects).Error
	if err != nil {
		log.Printf("ERROR: Failed to get projects for student %s: %v", studentID, err)
		return nil, err
	}
	return projects, nil
}

func (s *Service) CountProjectsForStudent(studentID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Project{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

// --- Realtime ---

// PublishEvent publishes a payload on the room's Redis channel. Delivery
// is best-effort: there is no acknowledgement or retry.
func (s *Service) PublishEvent(ctx context.Context, roomID string, payload []byte) error {
	if err := s.Redis.Publish(ctx, RoomChannel(roomID), payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w: %v", RoomChannel(roomID), apperr.ErrTransient, err)
	}
	return nil
}

// SubscribeToRooms subscribes to every room channel. Each hub instance
// consumes the full stream and fans out to its local connections.
func (s *Service) SubscribeToRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, roomChannelPattern)
}

// --- Presence ---

// MarkUserOnline records the user in the Redis online set.
func (s *Service) MarkUserOnline(userID string) error {
	return s.Redis.SAdd(s.Ctx, onlineUsersKey, userID).Err()
}

// MarkUserOffline removes the user from the Redis online set.
func (s *Service) MarkUserOffline(userID string) error {
	return s.Redis.SRem(s.Ctx, onlineUsersKey, userID).Err()
}

// GetOnlineUserIDs returns the IDs of all currently connected users.
func (s *Service) GetOnlineUserIDs() ([]string, error) {
	return s.Redis.SMembers(s.Ctx, onlineUsersKey).Result()
}

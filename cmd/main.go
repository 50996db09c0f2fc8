package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"unilink/backend/internal/api/handler"
	"unilink/backend/internal/chat"
	"unilink/backend/internal/chathub"
	"unilink/backend/internal/models"
	"unilink/backend/internal/profile"
	"unilink/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "user"),
		envOr("DB_PASSWORD", "password"),
		envOr("DB_NAME", "unilinkdb"),
		envOr("DB_PORT", "5432"),
	)

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the room find-or-create relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.Message{},
		&models.Project{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Println("Starting UniLink Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewManagerService(s)
	profiles := profile.NewService(s)
	rooms := chat.NewRoomService(s)
	messages := chat.NewMessageService(s, rooms, hub)

	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, profiles, rooms, messages, []byte(jwtSecret))

	api := r.Group("/api")
	{
		api.POST("/auth/session", h.CreateSession)

		api.GET("/users", h.ListStudents)
		api.GET("/users/online", h.GetOnlineUsers)
		api.GET("/users/me", h.RequireAuth, h.GetMe)
		api.GET("/users/:id", h.OptionalAuth, h.GetStudent)
		api.PATCH("/users/:id", h.RequireAuth, h.UpdateProfile)

		api.GET("/projects", h.ListProjects)
		api.POST("/projects", h.RequireAuth, h.CreateProject)
		api.PATCH("/projects/:id", h.RequireAuth, h.UpdateProject)
		api.DELETE("/projects/:id", h.RequireAuth, h.DeleteProject)

		chatAPI := api.Group("/chat", h.RequireAuth)
		{
			chatAPI.GET("/rooms", h.ListRooms)
			chatAPI.POST("/rooms", h.CreateRoom)
			chatAPI.GET("/rooms/:roomId/messages", h.ListMessages)
			chatAPI.POST("/rooms/:roomId/messages", h.PostMessage)
		}
	}

	r.GET("/ws", h.RequireAuth, h.ServeWebSocket)

	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	err := server.ListenAndServe()
	hub.Stop()
	log.Fatalf("Server stopped: %v", err)
}

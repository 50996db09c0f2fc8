package main

import (
	"fmt"
	"log"
	"os"

	"unilink/backend/internal/models"
	"unilink/backend/internal/profile"
	"unilink/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	profiles := profile.NewService(storageSvc)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin promote <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := promoteUser(storageSvc, userID); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now a student.\n", userID)
	case "recalc-completion":
		if err := recalcCompletion(storageSvc, profiles); err != nil {
			log.Fatalf("Error recalculating completion: %v", err)
		}
		fmt.Println("Profile completion percentages recalculated.")
	case "rooms":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin rooms <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := listRooms(storageSvc, userID); err != nil {
			log.Fatalf("Error listing rooms: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func promoteUser(s storage.Storage, userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleStudent {
		return nil
	}
	user.Role = models.RoleStudent
	return s.SaveUser(user)
}

// recalcCompletion backfills the derived completion percent for every
// student, e.g. after the weight table changes.
func recalcCompletion(s storage.Storage, profiles *profile.Service) error {
	students, err := s.ListStudents("", "")
	if err != nil {
		return err
	}
	for i := range students {
		if err := profiles.RecalcCompletion(&students[i]); err != nil {
			return fmt.Errorf("recalc for %s: %w", students[i].ID, err)
		}
	}
	return nil
}

func listRooms(s storage.Storage, userID string) error {
	rooms, err := s.GetRoomsForUser(userID)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		fmt.Printf("%s  anonymous=%t  updated=%s  last=%q\n",
			room.RoomID, room.IsAnonymous, room.UpdatedAt.Format("2006-01-02 15:04"), room.LastMessage)
	}
	return nil
}

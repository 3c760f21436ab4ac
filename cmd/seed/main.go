package main

import (
	"log"
	"os"
	"time"

	"ai-therapy-be/internal/model"
	"ai-therapy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the on-call therapist account alerts are routed to.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	email := os.Getenv("SEED_THERAPIST_EMAIL")
	if email == "" {
		email = "therapist@example.com"
	}
	password := os.Getenv("SEED_THERAPIST_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Therapist %s already exists, nothing to do", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := model.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     "On-call Therapist",
		PasswordHash: &hashStr,
		Role:         "therapist",
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error: Failed to create therapist: %v", err)
	}

	log.Printf("Seeded therapist account %s", email)
}

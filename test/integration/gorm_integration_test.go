package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/specification"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.TherapySessionRepository())
	assert.NotNil(t, uow.TherapyMessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Mood Repository", func(t *testing.T) {
		// Count implies table check
		count, err := uow.MoodRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Mood count: %d", count)
	})

	t.Run("Check Transactional Session With Messages", func(t *testing.T) {
		userId := uuid.New()
		// Messages carry an FK to the session, the session to the user.
		// Create the User first to be safe.
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
			Status:   entity.UserStatusActive,
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		sessionId := uuid.New()
		session := &entity.TherapySession{
			Id:        sessionId,
			UserId:    userId,
			Status:    entity.SessionStatusActive,
			StartTime: time.Now(),
		}

		err = uow.TherapySessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		messages := []*entity.TherapyMessage{
			{
				Id:        uuid.New(),
				SessionId: sessionId,
				Role:      entity.MessageRoleUser,
				Content:   "I have been feeling overwhelmed lately.",
				CreatedAt: time.Now(),
			},
			{
				Id:        uuid.New(),
				SessionId: sessionId,
				Role:      entity.MessageRoleAssistant,
				Content:   "Thank you for sharing that. What has been weighing on you most?",
				Metadata: &entity.MessageMetadata{
					Analysis: map[string]interface{}{"emotionalState": "overwhelmed"},
					Progress: entity.MessageProgress{EmotionalState: "overwhelmed", RiskLevel: 1},
				},
				CreatedAt: time.Now().Add(time.Millisecond),
			},
		}

		err = uow.TherapyMessageRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Read the transcript back through the same repository surface
		// the chat service uses.
		stored, err := uow.TherapyMessageRepository().FindAll(
			context.Background(),
			specification.BySessionID{SessionID: sessionId},
			specification.OrderBy{Field: "created_at"},
		)
		assert.NoError(t, err)
		assert.Len(t, stored, 2)

		t.Log("Successfully created Session with Messages in Transaction")
	})
}

package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"ai-therapy-be/internal/bootstrap"
	"ai-therapy-be/internal/config"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/server"
	"ai-therapy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// apiResponse mirrors serverutils.ApiResponse with a typed Data field so
// tests can decode straight into the DTOs.
type apiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestTherapyFlow(t *testing.T) {
	// Setup
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
		// Fix for middleware mismatch if .env missing
		os.Setenv("JWT_SECRET", "default_secret")
	}
	if os.Getenv("GOOGLE_GEMINI_API_KEY") == "" {
		// Without a Gemini key the container refuses to start; point it
		// at Ollama instead. An unreachable Ollama only degrades replies.
		os.Setenv("LLM_PROVIDER", "ollama")
		os.Setenv("LLM_MODEL", "gemma:2b")
	}
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	email := fmt.Sprintf("flow-%s@example.com", uuid.New().String())
	password := "integration123"
	var token string
	var sessionId uuid.UUID

	defer func() {
		// Cleanup
		db.Exec("DELETE FROM therapy_messages WHERE session_id IN (SELECT id FROM therapy_sessions WHERE user_id IN (SELECT id FROM users WHERE email = ?))", email)
		db.Exec("DELETE FROM therapy_sessions WHERE user_id IN (SELECT id FROM users WHERE email = ?)", email)
		db.Exec("DELETE FROM users WHERE email = ?", email)
	}()

	t.Run("Register and Login", func(t *testing.T) {
		regBody, _ := json.Marshal(dto.RegisterRequest{
			Email:    email,
			FullName: "Flow Test User",
			Password: password,
		})
		req := httptest.NewRequest("POST", "/api/auth/v1/register", strings.NewReader(string(regBody)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 201, resp.StatusCode)

		loginBody, _ := json.Marshal(dto.LoginRequest{
			Email:    email,
			Password: password,
		})
		req = httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(string(loginBody)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ = app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result apiResponse[dto.LoginResponse]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Data.Token)
		token = result.Data.Token
	})

	if token == "" {
		t.Fatal("No token, cannot continue flow")
	}

	t.Run("Create Session", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/therapy/v1/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 201, resp.StatusCode)

		var result apiResponse[dto.CreateSessionResponse]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, string(entity.SessionStatusActive), result.Data.Status)
		sessionId = result.Data.Id
	})

	t.Run("Send Message", func(t *testing.T) {
		msgBody, _ := json.Marshal(dto.SendMessageRequest{
			Message: "I have been feeling anxious about work all week.",
		})
		url := fmt.Sprintf("/api/therapy/v1/sessions/%s/messages", sessionId)
		req := httptest.NewRequest("POST", url, strings.NewReader(string(msgBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result apiResponse[dto.SendMessageResponse]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.NotNil(t, result.Data.Sent)
		assert.NotNil(t, result.Data.Reply)
		// Reply is never empty, even when the model gateway is down the
		// fallback text comes back with Degraded set.
		assert.NotEmpty(t, result.Data.Reply.Content)
		if result.Data.Degraded {
			t.Log("Reply came from the fallback path (model gateway unavailable)")
		}
	})

	t.Run("Get History", func(t *testing.T) {
		url := fmt.Sprintf("/api/therapy/v1/sessions/%s/history", sessionId)
		req := httptest.NewRequest("GET", url, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result apiResponse[dto.GetSessionHistoryResponse]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Data.Messages, 2)
		assert.Equal(t, entity.MessageRoleUser, result.Data.Messages[0].Role)
		assert.Equal(t, entity.MessageRoleAssistant, result.Data.Messages[1].Role)
	})

	t.Run("Close Session and Reject Further Messages", func(t *testing.T) {
		url := fmt.Sprintf("/api/therapy/v1/sessions/%s/close", sessionId)
		req := httptest.NewRequest("PUT", url, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		msgBody, _ := json.Marshal(dto.SendMessageRequest{Message: "One more thing"})
		url = fmt.Sprintf("/api/therapy/v1/sessions/%s/messages", sessionId)
		req = httptest.NewRequest("POST", url, strings.NewReader(string(msgBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ = app.Test(req, -1)
		assert.Equal(t, 409, resp.StatusCode)
	})

	t.Run("Foreign Session Is Forbidden", func(t *testing.T) {
		otherEmail := fmt.Sprintf("flow-other-%s@example.com", uuid.New().String())
		defer db.Exec("DELETE FROM users WHERE email = ?", otherEmail)

		regBody, _ := json.Marshal(dto.RegisterRequest{
			Email:    otherEmail,
			FullName: "Other Flow User",
			Password: password,
		})
		req := httptest.NewRequest("POST", "/api/auth/v1/register", strings.NewReader(string(regBody)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 201, resp.StatusCode)

		loginBody, _ := json.Marshal(dto.LoginRequest{Email: otherEmail, Password: password})
		req = httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(string(loginBody)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ = app.Test(req, -1)

		var result apiResponse[dto.LoginResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		url := fmt.Sprintf("/api/therapy/v1/sessions/%s/history", sessionId)
		req = httptest.NewRequest("GET", url, nil)
		req.Header.Set("Authorization", "Bearer "+result.Data.Token)
		resp, _ = app.Test(req, -1)
		assert.Equal(t, 403, resp.StatusCode)
	})
}

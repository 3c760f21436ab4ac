package dto

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type CreateSessionRequest struct {
	// Optional transcript imported at creation, triggers an async review
	Transcript []TranscriptMessageDTO `json:"transcript,omitempty" validate:"omitempty,dive"`
}

type CreateSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SendMessageRequest struct {
	Message string   `json:"message" validate:"required"`
	Goals   []string `json:"goals,omitempty" validate:"max=10"`
}

type MessageProgressDTO struct {
	EmotionalState string `json:"emotional_state"`
	RiskLevel      int    `json:"risk_level"`
}

type SessionMessageDTO struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Analysis  map[string]interface{} `json:"analysis,omitempty"`
	Progress  *MessageProgressDTO    `json:"progress,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SendMessageResponse struct {
	SessionId uuid.UUID          `json:"session_id"`
	Sent      *SessionMessageDTO `json:"sent"`
	Reply     *SessionMessageDTO `json:"reply"`
	// Degraded reports that the reply came from a fallback path
	Degraded bool `json:"degraded,omitempty"`
}

type GetSessionHistoryResponse struct {
	SessionId uuid.UUID           `json:"session_id"`
	Status    string              `json:"status"`
	Messages  []SessionMessageDTO `json:"messages"`
}

type CloseSessionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

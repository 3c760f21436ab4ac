package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// MessageMetadata is attached to assistant messages only. It carries the
// per-turn analysis and the progress snapshot derived from it.
type MessageMetadata struct {
	Analysis map[string]interface{} `json:"analysis"`
	Progress MessageProgress        `json:"progress"`
}

type MessageProgress struct {
	EmotionalState string `json:"emotionalState"`
	RiskLevel      int    `json:"riskLevel"`
}

type TherapyMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Metadata  *MessageMetadata
	CreatedAt time.Time
}

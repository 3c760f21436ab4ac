package dto

import (
	"time"

	"github.com/google/uuid"
)

type AlertResponse struct {
	Id           uuid.UUID              `json:"id"`
	TypeCode     string                 `json:"type_code"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Acknowledged bool                   `json:"acknowledged"`
	CreatedAt    time.Time              `json:"created_at"`
}

type GetAlertsResponse struct {
	Alerts       []AlertResponse `json:"alerts"`
	Total        int64           `json:"total"`
	UnackedCount int64           `json:"unacked_count"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type LogActivityRequest struct {
	Type        string `json:"type" validate:"required,max=100"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Duration    int    `json:"duration,omitempty" validate:"min=0"`
	Difficulty  string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Feedback    string `json:"feedback,omitempty" validate:"max=1000"`
}

type ActivityResponse struct {
	Id          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int64              `json:"total"`
}

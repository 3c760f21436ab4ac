package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMoodRequest struct {
	Score      int      `json:"score" validate:"min=0,max=100"`
	Note       string   `json:"note,omitempty" validate:"max=500"`
	Context    string   `json:"context,omitempty" validate:"max=200"`
	Activities []string `json:"activities,omitempty" validate:"max=20"`
}

type MoodResponse struct {
	Id         uuid.UUID `json:"id"`
	Score      int       `json:"score"`
	Note       string    `json:"note,omitempty"`
	Context    string    `json:"context,omitempty"`
	Activities []string  `json:"activities,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type GetMoodsResponse struct {
	Moods []MoodResponse `json:"moods"`
	Total int64          `json:"total"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type Mood struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Score      int
	Note       string
	Context    string
	Activities []string
	Timestamp  time.Time
	CreatedAt  time.Time
}

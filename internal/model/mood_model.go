package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Mood struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Score      int            `gorm:"not null"`
	Note       string         `gorm:"type:text"`
	Context    string         `gorm:"type:text"`
	Activities datatypes.JSON `gorm:"type:jsonb"`
	Timestamp  time.Time      `gorm:"not null;index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (Mood) TableName() string {
	return "moods"
}

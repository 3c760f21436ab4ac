package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TherapyMessage struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role      string         `gorm:"type:varchar(50);not null"`
	Content   string         `gorm:"type:text;not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"` // assistant messages only
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (TherapyMessage) TableName() string {
	return "therapy_messages"
}

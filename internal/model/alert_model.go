package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Alert is a persisted safety alert raised by the workflow engine
// (risk threshold crossings and session-review concerns).
type Alert struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `gorm:"type:uuid;index"` // recipient; uuid.Nil for broadcast
	TypeCode     string         `gorm:"type:varchar(100);not null;index"`
	Title        string         `gorm:"type:varchar(255)"`
	Message      string         `gorm:"type:text"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
	Acknowledged bool           `gorm:"default:false"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (Alert) TableName() string {
	return "alerts"
}

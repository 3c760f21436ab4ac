package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TherapySession struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Status    string         `gorm:"type:varchar(50);not null;default:'active'"`
	StartTime time.Time      `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TherapySession) TableName() string {
	return "therapy_sessions"
}

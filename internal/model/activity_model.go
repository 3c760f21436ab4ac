package model

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(100);not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Duration    int       `gorm:"default:0"`
	Difficulty  string    `gorm:"type:varchar(50)"`
	Feedback    string    `gorm:"type:text"`
	Timestamp   time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Activity) TableName() string {
	return "activities"
}

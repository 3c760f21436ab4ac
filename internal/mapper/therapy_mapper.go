package mapper

import (
	"encoding/json"
	"time"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TherapyMapper struct{}

func NewTherapyMapper() *TherapyMapper {
	return &TherapyMapper{}
}

// Session Mappers

func (m *TherapyMapper) SessionToEntity(s *model.TherapySession) *entity.TherapySession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.TherapySession{
		Id:        s.Id,
		UserId:    s.UserId,
		Status:    entity.SessionStatus(s.Status),
		StartTime: s.StartTime,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *TherapyMapper) SessionToModel(s *entity.TherapySession) *model.TherapySession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.TherapySession{
		Id:        s.Id,
		UserId:    s.UserId,
		Status:    string(s.Status),
		StartTime: s.StartTime,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers

func (m *TherapyMapper) MessageToEntity(msg *model.TherapyMessage) *entity.TherapyMessage {
	if msg == nil {
		return nil
	}

	var metadata *entity.MessageMetadata
	if len(msg.Metadata) > 0 {
		var meta entity.MessageMetadata
		if err := json.Unmarshal(msg.Metadata, &meta); err == nil {
			metadata = &meta
		}
	}

	return &entity.TherapyMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  metadata,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *TherapyMapper) MessageToModel(msg *entity.TherapyMessage) *model.TherapyMessage {
	if msg == nil {
		return nil
	}

	var metadata datatypes.JSON
	if msg.Metadata != nil {
		raw, err := json.Marshal(msg.Metadata)
		if err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.TherapyMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  metadata,
		CreatedAt: msg.CreatedAt,
	}
}

package mapper

import (
	"testing"
	"time"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestMessageMetadataSurvivesModelRoundTrip(t *testing.T) {
	m := NewTherapyMapper()

	msg := &entity.TherapyMessage{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Role:      entity.MessageRoleAssistant,
		Content:   "What has been weighing on you most?",
		Metadata: &entity.MessageMetadata{
			Analysis: map[string]interface{}{
				"emotionalState": "anxious",
				"themes":         []interface{}{"work"},
			},
			Progress: entity.MessageProgress{EmotionalState: "anxious", RiskLevel: 2},
		},
		CreatedAt: time.Now(),
	}

	back := m.MessageToEntity(m.MessageToModel(msg))

	assert.NotNil(t, back.Metadata)
	assert.Equal(t, "anxious", back.Metadata.Analysis["emotionalState"])
	assert.Equal(t, 2, back.Metadata.Progress.RiskLevel)
	assert.Equal(t, msg.Content, back.Content)
}

func TestUserMessageHasNoMetadata(t *testing.T) {
	m := NewTherapyMapper()

	msg := &entity.TherapyMessage{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Role:      entity.MessageRoleUser,
		Content:   "I feel stuck",
		CreatedAt: time.Now(),
	}

	mdl := m.MessageToModel(msg)
	assert.Empty(t, mdl.Metadata)

	back := m.MessageToEntity(mdl)
	assert.Nil(t, back.Metadata)
}

func TestSessionSoftDeleteMapping(t *testing.T) {
	m := NewTherapyMapper()

	now := time.Now()
	session := &entity.TherapySession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Status:    entity.SessionStatusClosed,
		StartTime: now,
		CreatedAt: now,
		DeletedAt: &now,
		IsDeleted: true,
	}

	mdl := m.SessionToModel(session)
	assert.True(t, mdl.DeletedAt.Valid)

	back := m.SessionToEntity(mdl)
	assert.True(t, back.IsDeleted)
	assert.Equal(t, entity.SessionStatusClosed, back.Status)
}

func TestNilMappingsReturnNil(t *testing.T) {
	m := NewTherapyMapper()

	assert.Nil(t, m.SessionToEntity(nil))
	assert.Nil(t, m.SessionToModel(nil))
	assert.Nil(t, m.MessageToEntity(nil))
	assert.Nil(t, m.MessageToModel(nil))
}

func TestMalformedMetadataIsDroppedNotFatal(t *testing.T) {
	m := NewTherapyMapper()

	mdl := &model.TherapyMessage{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Role:      entity.MessageRoleAssistant,
		Content:   "ok",
		Metadata:  datatypes.JSON("{not json"),
		CreatedAt: time.Now(),
	}

	back := m.MessageToEntity(mdl)
	assert.Nil(t, back.Metadata)
	assert.Equal(t, "ok", back.Content)
}
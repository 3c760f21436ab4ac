package mapper

import (
	"encoding/json"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/model"

	"gorm.io/datatypes"
)

// WellnessMapper converts mood and activity log records.
type WellnessMapper struct{}

func NewWellnessMapper() *WellnessMapper {
	return &WellnessMapper{}
}

func (m *WellnessMapper) MoodToEntity(mood *model.Mood) *entity.Mood {
	if mood == nil {
		return nil
	}

	var activities []string
	if len(mood.Activities) > 0 {
		_ = json.Unmarshal(mood.Activities, &activities)
	}

	return &entity.Mood{
		Id:         mood.Id,
		UserId:     mood.UserId,
		Score:      mood.Score,
		Note:       mood.Note,
		Context:    mood.Context,
		Activities: activities,
		Timestamp:  mood.Timestamp,
		CreatedAt:  mood.CreatedAt,
	}
}

func (m *WellnessMapper) MoodToModel(mood *entity.Mood) *model.Mood {
	if mood == nil {
		return nil
	}

	var activities datatypes.JSON
	if mood.Activities != nil {
		raw, err := json.Marshal(mood.Activities)
		if err == nil {
			activities = datatypes.JSON(raw)
		}
	}

	return &model.Mood{
		Id:         mood.Id,
		UserId:     mood.UserId,
		Score:      mood.Score,
		Note:       mood.Note,
		Context:    mood.Context,
		Activities: activities,
		Timestamp:  mood.Timestamp,
		CreatedAt:  mood.CreatedAt,
	}
}

func (m *WellnessMapper) ActivityToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}

	return &entity.Activity{
		Id:          a.Id,
		UserId:      a.UserId,
		Type:        a.Type,
		Name:        a.Name,
		Description: a.Description,
		Duration:    a.Duration,
		Difficulty:  a.Difficulty,
		Feedback:    a.Feedback,
		Timestamp:   a.Timestamp,
		CreatedAt:   a.CreatedAt,
	}
}

func (m *WellnessMapper) ActivityToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}

	return &model.Activity{
		Id:          a.Id,
		UserId:      a.UserId,
		Type:        a.Type,
		Name:        a.Name,
		Description: a.Description,
		Duration:    a.Duration,
		Difficulty:  a.Difficulty,
		Feedback:    a.Feedback,
		Timestamp:   a.Timestamp,
		CreatedAt:   a.CreatedAt,
	}
}

package implementation

import (
	"context"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/mapper"
	"ai-therapy-be/internal/model"
	"ai-therapy-be/internal/repository/contract"
	"ai-therapy-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MoodRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WellnessMapper
}

func NewMoodRepository(db *gorm.DB) contract.MoodRepository {
	return &MoodRepositoryImpl{
		db:     db,
		mapper: mapper.NewWellnessMapper(),
	}
}

func (r *MoodRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MoodRepositoryImpl) Create(ctx context.Context, mood *entity.Mood) error {
	m := r.mapper.MoodToModel(mood)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*mood = *r.mapper.MoodToEntity(m)
	return nil
}

func (r *MoodRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Mood, error) {
	var models []*model.Mood
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Mood, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MoodToEntity(m)
	}
	return entities, nil
}

func (r *MoodRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Mood{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

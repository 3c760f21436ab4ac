package implementation

import (
	"context"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/mapper"
	"ai-therapy-be/internal/model"
	"ai-therapy-be/internal/repository/contract"
	"ai-therapy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TherapyMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TherapyMapper
}

func NewTherapyMessageRepository(db *gorm.DB) contract.TherapyMessageRepository {
	return &TherapyMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewTherapyMapper(),
	}
}

func (r *TherapyMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TherapyMessageRepositoryImpl) Create(ctx context.Context, message *entity.TherapyMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *TherapyMessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.TherapyMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.TherapyMessage, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.MessageToModel(msg)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *TherapyMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.TherapyMessage{}).Error
}

func (r *TherapyMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TherapyMessage, error) {
	var models []*model.TherapyMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TherapyMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *TherapyMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TherapyMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

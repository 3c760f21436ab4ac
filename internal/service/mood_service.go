package service

import (
	"context"
	"time"

	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/repository/specification"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/internal/workflow"
	"ai-therapy-be/pkg/events"

	"github.com/google/uuid"
)

type IMoodService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMoodRequest) (*dto.MoodResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.GetMoodsResponse, error)
}

type moodService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewMoodService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, log logger.ILogger) IMoodService {
	return &moodService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *moodService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMoodRequest) (*dto.MoodResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	mood := &entity.Mood{
		Id:         uuid.New(),
		UserId:     userId,
		Score:      req.Score,
		Note:       req.Note,
		Context:    req.Context,
		Activities: req.Activities,
		Timestamp:  now,
		CreatedAt:  now,
	}

	if err := uow.MoodRepository().Create(ctx, mood); err != nil {
		return nil, err
	}

	// Reserved trigger for activity recommendations
	if s.publisherService != nil {
		evt := workflow.MoodUpdatedEvent{
			UserID: userId.String(),
			MoodID: mood.Id.String(),
			Score:  mood.Score,
		}
		if err := s.publisherService.PublishEvent(ctx, events.TriggerMoodUpdated, evt); err != nil {
			s.logger.Error("MoodService", "Failed to publish mood.updated event", map[string]interface{}{
				"moodId": mood.Id.String(),
				"error":  err.Error(),
			})
		}
	}

	return &dto.MoodResponse{
		Id:         mood.Id,
		Score:      mood.Score,
		Note:       mood.Note,
		Context:    mood.Context,
		Activities: mood.Activities,
		Timestamp:  mood.Timestamp,
	}, nil
}

func (s *moodService) GetAll(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.GetMoodsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	total, err := uow.MoodRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	moods, err := uow.MoodRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GetMoodsResponse{
		Moods: make([]dto.MoodResponse, 0, len(moods)),
		Total: total,
	}
	for _, mood := range moods {
		res.Moods = append(res.Moods, dto.MoodResponse{
			Id:         mood.Id,
			Score:      mood.Score,
			Note:       mood.Note,
			Context:    mood.Context,
			Activities: mood.Activities,
			Timestamp:  mood.Timestamp,
		})
	}
	return res, nil
}

package service

import (
	"context"
	"time"

	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/specification"
	"ai-therapy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IActivityService interface {
	Log(ctx context.Context, userId uuid.UUID, req *dto.LogActivityRequest) (*dto.ActivityResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.GetActivitiesResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
	}
}

func (s *activityService) Log(ctx context.Context, userId uuid.UUID, req *dto.LogActivityRequest) (*dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	activity := &entity.Activity{
		Id:          uuid.New(),
		UserId:      userId,
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		Feedback:    req.Feedback,
		Timestamp:   now,
		CreatedAt:   now,
	}

	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	return activityToDTO(activity), nil
}

func (s *activityService) GetAll(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.GetActivitiesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	total, err := uow.ActivityRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GetActivitiesResponse{
		Activities: make([]dto.ActivityResponse, 0, len(activities)),
		Total:      total,
	}
	for _, activity := range activities {
		res.Activities = append(res.Activities, *activityToDTO(activity))
	}
	return res, nil
}

func activityToDTO(a *entity.Activity) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		Id:          a.Id,
		Type:        a.Type,
		Name:        a.Name,
		Description: a.Description,
		Duration:    a.Duration,
		Difficulty:  a.Difficulty,
		Feedback:    a.Feedback,
		Timestamp:   a.Timestamp,
	}
}

package contract

import (
	"context"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/specification"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

package contract

import (
	"context"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/specification"
)

type MoodRepository interface {
	Create(ctx context.Context, mood *entity.Mood) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Mood, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

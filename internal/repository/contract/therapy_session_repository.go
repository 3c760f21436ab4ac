package contract

import (
	"context"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TherapySessionRepository interface {
	Create(ctx context.Context, session *entity.TherapySession) error
	Update(ctx context.Context, session *entity.TherapySession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TherapySession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TherapySession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

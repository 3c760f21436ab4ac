package contract

import (
	"context"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/specification"

	"github.com/google/uuid"
)

// TherapyMessageRepository persists the append-only message log of a session.
// There is no Update: messages are never reordered or rewritten.
type TherapyMessageRepository interface {
	Create(ctx context.Context, message *entity.TherapyMessage) error
	CreateBulk(ctx context.Context, messages []*entity.TherapyMessage) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TherapyMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

package repository

import (
	"context"

	"ai-therapy-be/internal/model"

	"github.com/google/uuid"
)

// AlertRepository persists safety alerts raised by the workflow engine.
type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *model.Alert) error
	GetAlertsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Alert, int64, error)
	GetUnacknowledgedCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAcknowledged(ctx context.Context, id uuid.UUID) error
	GetUsersByRole(ctx context.Context, role string) ([]model.User, error)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-therapy-be/internal/model"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/pkg/mailer"
	"ai-therapy-be/internal/repository"
	"ai-therapy-be/pkg/events"
	pktNats "ai-therapy-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AlertDelivery defines how to push real-time alerts.
// Typically implemented by the WebSocket Hub.
type AlertDelivery interface {
	Send(userID uuid.UUID, alert model.Alert)
	Broadcast(alert model.Alert)
}

// AlertService consumes alert events from the bus, persists them and
// fans them out to on-call therapists over websocket and email.
type AlertService struct {
	repo             repository.AlertRepository
	subscriber       *pktNats.Subscriber
	delivery         AlertDelivery
	emailService     mailer.IEmailService
	emergencyContact string
	logger           logger.ILogger
}

func NewAlertService(
	repo repository.AlertRepository,
	sub *pktNats.Subscriber,
	delivery AlertDelivery,
	emailService mailer.IEmailService,
	emergencyContact string,
	log logger.ILogger,
) *AlertService {
	return &AlertService{
		repo:             repo,
		subscriber:       sub,
		delivery:         delivery,
		emailService:     emailService,
		emergencyContact: emergencyContact,
		logger:           log,
	}
}

// Start begins listening to the event bus.
func (s *AlertService) Start() {
	err := s.subscriber.Subscribe("events.>", "alert-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AlertService", "Failed to start alert subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AlertService", "Alert service started, listening to events.>", nil)
}

func (s *AlertService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subject includes the stream prefix
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	switch typeCode {
	case events.TypeRiskAlert:
		return s.handleRiskAlert(ctx, typeCode, event)
	case events.TypeConcernAlert:
		return s.handleConcernAlert(ctx, typeCode, event)
	default:
		s.logger.Info("AlertService", fmt.Sprintf("Ignoring event type: %s", typeCode), nil)
		return nil
	}
}

func (s *AlertService) handleRiskAlert(ctx context.Context, typeCode string, event events.Event) error {
	payload := event.Payload()
	sessionId, _ := payload["session_id"].(string)
	message, _ := payload["message"].(string)
	riskLevel := intFromPayload(payload["risk_level"])

	title := "High risk detected"
	body := fmt.Sprintf("A session reported risk level %d", riskLevel)

	if err := s.fanOut(ctx, typeCode, title, body, payload); err != nil {
		return err // NATS will retry
	}

	// Email the emergency contact. Mail failure must not trigger a
	// redelivery loop, the alert row is already persisted.
	if s.emailService != nil && s.emergencyContact != "" {
		if err := s.emailService.SendRiskAlert(s.emergencyContact, sessionId, riskLevel, message); err != nil {
			s.logger.Error("AlertService", "Failed to email risk alert", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *AlertService) handleConcernAlert(ctx context.Context, typeCode string, event events.Event) error {
	payload := event.Payload()
	sessionId, _ := payload["session_id"].(string)

	var concerns []string
	if raw, ok := payload["areas_of_concern"].([]interface{}); ok {
		for _, c := range raw {
			if str, ok := c.(string); ok {
				concerns = append(concerns, str)
			}
		}
	}

	title := "Session review flagged concerns"
	body := fmt.Sprintf("Review of a session flagged %d area(s) of concern", len(concerns))

	if err := s.fanOut(ctx, typeCode, title, body, payload); err != nil {
		return err
	}

	if s.emailService != nil && s.emergencyContact != "" && len(concerns) > 0 {
		if err := s.emailService.SendConcernAlert(s.emergencyContact, sessionId, concerns); err != nil {
			s.logger.Error("AlertService", "Failed to email concern alert", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// fanOut persists one alert per therapist and pushes it over the
// websocket hub. With no therapists registered the alert is stored once
// as a broadcast row so it is never lost.
func (s *AlertService) fanOut(ctx context.Context, typeCode, title, body string, payload map[string]interface{}) error {
	metaJSON, _ := json.Marshal(payload)

	therapists, err := s.repo.GetUsersByRole(ctx, "therapist")
	if err != nil {
		return err
	}

	if len(therapists) == 0 {
		alert := s.buildAlert(uuid.Nil, typeCode, title, body, metaJSON)
		if err := s.repo.CreateAlert(ctx, &alert); err != nil {
			return err
		}
		if s.delivery != nil {
			s.delivery.Broadcast(alert)
		}
		return nil
	}

	for _, therapist := range therapists {
		alert := s.buildAlert(therapist.Id, typeCode, title, body, metaJSON)
		if err := s.repo.CreateAlert(ctx, &alert); err != nil {
			s.logger.Error("AlertService", fmt.Sprintf("Error saving alert for user %s", therapist.Id), map[string]interface{}{"error": err})
			continue
		}
		if s.delivery != nil {
			s.delivery.Send(therapist.Id, alert)
		}
	}
	return nil
}

func (s *AlertService) buildAlert(userID uuid.UUID, typeCode, title, body string, metaJSON []byte) model.Alert {
	return model.Alert{
		ID:           uuid.New(),
		UserID:       userID,
		TypeCode:     typeCode,
		Title:        title,
		Message:      body,
		Metadata:     datatypes.JSON(metaJSON),
		Acknowledged: false,
		CreatedAt:    time.Now(),
	}
}

// GetAlerts fetches alerts for a user.
func (s *AlertService) GetAlerts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Alert, int64, error) {
	return s.repo.GetAlertsByUserID(ctx, userID, limit, offset)
}

// GetUnacknowledgedCount fetches the unacknowledged count.
func (s *AlertService) GetUnacknowledgedCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnacknowledgedCount(ctx, userID)
}

// Acknowledge marks an alert as acknowledged.
func (s *AlertService) Acknowledge(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAcknowledged(ctx, id)
}

func intFromPayload(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

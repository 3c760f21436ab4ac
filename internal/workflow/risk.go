package workflow

import (
	"context"
	"time"

	"ai-therapy-be/pkg/events"
)

// triggerRiskAlert emits exactly one alert when the analysis risk score
// crosses the threshold. Alerting is at-least-once under retry and must
// never fail the workflow, so publish errors are logged and swallowed.
func (e *Engine) triggerRiskAlert(ctx context.Context, event *MessageEvent, analysis *AnalysisResult) Outcome {
	if analysis == nil || analysis.RiskLevel <= riskAlertThreshold {
		return OutcomeOK
	}

	e.logger.Warn("WorkflowEngine", "High risk level detected in therapy session", map[string]interface{}{
		"sessionId": event.SessionID,
		"userId":    event.UserID,
		"riskLevel": analysis.RiskLevel,
		"message":   event.Message,
	})

	if e.alerts == nil {
		return OutcomeOK
	}

	evt := events.BaseEvent{
		Type: events.TypeRiskAlert,
		Data: map[string]interface{}{
			"user_id":    event.UserID,
			"session_id": event.SessionID,
			"risk_level": analysis.RiskLevel,
			"message":    event.Message,
		},
		OccurredAt: time.Now(),
	}
	// Alerting is auxiliary, the turn still completes if the bus is down
	if err := e.alerts.Publish(ctx, evt); err != nil {
		e.logger.Error("WorkflowEngine", "Failed to publish risk alert event", map[string]interface{}{
			"sessionId": event.SessionID,
			"error":     err.Error(),
		})
		return OutcomeFallback
	}
	return OutcomeOK
}

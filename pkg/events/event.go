package events

import "time"

// Trigger names routed through the internal event bus. Each maps to one
// registered workflow in internal/workflow.
const (
	TriggerSessionMessage = "therapy/session.message"
	TriggerSessionCreated = "therapy/session.created"
	TriggerMoodUpdated    = "mood/updated"
)

// Alert event codes carried on the external (NATS) bus.
const (
	TypeRiskAlert    = "THERAPY_RISK_ALERT"
	TypeConcernAlert = "THERAPY_CONCERN_ALERT"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "THERAPY_RISK_ALERT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

package dto

import "encoding/json"

// EventEnvelope wraps a trigger on the internal bus. Name selects the
// workflow, Data is the trigger-specific payload.
type EventEnvelope struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-therapy-be/pkg/events"
	"ai-therapy-be/pkg/llm"
)

const reviewPromptTemplate = `Review this therapy session transcript and provide an assessment. Return ONLY valid JSON with no surrounding prose and no markdown fencing.

Transcript:
%s

Required JSON structure:
{
  "summary": "string",
  "keyThemes": ["string"],
  "progress": "string",
  "areasOfConcern": ["string"],
  "recommendedFollowUp": "string"
}`

// SessionReview is the model's assessment of a full session transcript.
type SessionReview struct {
	Summary             string   `json:"summary"`
	KeyThemes           []string `json:"keyThemes"`
	Progress            string   `json:"progress"`
	AreasOfConcern      []string `json:"areasOfConcern"`
	RecommendedFollowUp string   `json:"recommendedFollowUp"`
}

// ReviewSession analyzes a newly created session that arrived with a
// transcript. Unlike the chat workflow it returns errors, so the
// transport can redeliver the event when the gateway is down.
func (e *Engine) ReviewSession(ctx context.Context, event *SessionCreatedEvent) error {
	if len(event.History) == 0 {
		return nil
	}

	var transcript strings.Builder
	for _, msg := range event.History {
		transcript.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}

	prompt := fmt.Sprintf(reviewPromptTemplate, transcript.String())

	out, err := e.executor.Run(ctx, "analyze-session", func(ctx context.Context) (interface{}, error) {
		return e.llm.Generate(ctx, prompt, llm.WithTemperature(0.2))
	})
	if err != nil {
		return fmt.Errorf("session review gateway call: %w", err)
	}

	review, err := parseReview(out.(string))
	if err != nil {
		e.logger.Warn("WorkflowEngine", "Session review output unparsable, skipping", map[string]interface{}{
			"sessionId": event.SessionID,
			"raw":       out.(string),
		})
		return nil // retrying will not fix bad model output
	}

	e.logger.Info("WorkflowEngine", "Session review completed", map[string]interface{}{
		"sessionId": event.SessionID,
		"summary":   review.Summary,
		"themes":    review.KeyThemes,
	})

	if len(review.AreasOfConcern) > 0 && e.alerts != nil {
		evt := events.BaseEvent{
			Type: events.TypeConcernAlert,
			Data: map[string]interface{}{
				"user_id":          event.UserID,
				"session_id":       event.SessionID,
				"areas_of_concern": review.AreasOfConcern,
				"summary":          review.Summary,
			},
			OccurredAt: time.Now(),
		}
		if err := e.alerts.Publish(ctx, evt); err != nil {
			e.logger.Error("WorkflowEngine", "Failed to publish concern alert event", map[string]interface{}{
				"sessionId": event.SessionID,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

func parseReview(response string) (*SessionReview, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var review SessionReview
	if err := json.Unmarshal([]byte(response), &review); err != nil {
		return nil, err
	}
	return &review, nil
}

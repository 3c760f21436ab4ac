package workflow

import "context"

// RecommendActivities handles the mood.updated trigger. The trigger is
// declared in the event vocabulary but generates no recommendations yet.
func (e *Engine) RecommendActivities(ctx context.Context, event *MoodUpdatedEvent) error {
	e.logger.Info("WorkflowEngine", "Mood updated, no recommendations generated", map[string]interface{}{
		"userId": event.UserID,
		"moodId": event.MoodID,
	})
	return nil
}

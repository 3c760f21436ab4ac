package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-therapy-be/internal/constant"
	"ai-therapy-be/pkg/llm"
)

const responsePromptTemplate = `%s

User message: %s

Analysis: %s

Session memory: %s

Therapy goals: %s

Provide a therapeutic response that:
1. Addresses the user's emotional needs directly
2. Uses an appropriate therapeutic technique
3. Shows empathy and understanding
4. Maintains professional boundaries
5. Considers the user's safety and well-being`

// generateResponse produces the assistant reply. A failed gateway call
// degrades to the fixed supportive fallback so the user always gets an
// answer.
func (e *Engine) generateResponse(ctx context.Context, event *MessageEvent, analysis *AnalysisResult, memory *SessionMemory) (string, Outcome) {
	analysisJSON, _ := json.Marshal(analysis)
	memoryJSON, _ := json.Marshal(memory)
	goalsJSON, _ := json.Marshal(event.Goals)

	prompt := fmt.Sprintf(responsePromptTemplate,
		event.SystemPrompt,
		event.Message,
		string(analysisJSON),
		string(memoryJSON),
		string(goalsJSON),
	)

	out, err := e.executor.Run(ctx, StepGenerateResponse, func(ctx context.Context) (interface{}, error) {
		text, err := e.llm.Generate(ctx, prompt, llm.WithTemperature(0.7))
		if err != nil {
			return nil, err
		}
		return text, nil
	})
	if err != nil {
		e.logger.Warn("WorkflowEngine", "Response generation failed, using supportive fallback", map[string]interface{}{
			"sessionId": event.SessionID,
			"error":     err.Error(),
		})
		return constant.NeutralFallbackResponse, OutcomeFallback
	}

	response := strings.TrimSpace(out.(string))
	if response == "" {
		return constant.NeutralFallbackResponse, OutcomeFallback
	}
	return response, OutcomeOK
}

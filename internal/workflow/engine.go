package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-therapy-be/internal/constant"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/pkg/events"
	"ai-therapy-be/pkg/llm"
)

const (
	StepAnalyzeMessage   = "analyze-message"
	StepUpdateMemory     = "update-memory"
	StepTriggerRiskAlert = "trigger-risk-alert"
	StepGenerateResponse = "generate-response"
)

// riskAlertThreshold is strict: a score of exactly 4 does not alert.
const riskAlertThreshold = 4

// AlertPublisher emits risk alerts to interested consumers. Publishing
// is fire-and-forget from the engine's point of view.
type AlertPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// HandlerFunc processes one raw trigger payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Engine sequences the chat-message workflow steps. Each step catches
// its own failures and degrades to a safe default; the engine itself
// never returns an error to the chat caller.
//
// The engine provides no cross-message ordering for a session. Callers
// that need strict turn ordering must serialize triggers themselves.
type Engine struct {
	llm      llm.LLMProvider
	logger   logger.ILogger
	alerts   AlertPublisher
	executor Executor
	handlers map[string]HandlerFunc
}

func NewEngine(provider llm.LLMProvider, log logger.ILogger, alerts AlertPublisher, executor Executor) *Engine {
	if executor == nil {
		executor = NewInProcessExecutor()
	}
	e := &Engine{
		llm:      provider,
		logger:   log,
		alerts:   alerts,
		executor: executor,
	}
	e.handlers = map[string]HandlerFunc{
		events.TriggerSessionMessage: e.handleSessionMessage,
		events.TriggerSessionCreated: e.handleSessionCreated,
		events.TriggerMoodUpdated:    e.handleMoodUpdated,
	}
	return e
}

// Dispatch routes a raw trigger payload to its registered handler.
// Returning an error lets the transport redeliver the event.
func (e *Engine) Dispatch(ctx context.Context, eventName string, payload []byte) error {
	handler, ok := e.handlers[eventName]
	if !ok {
		e.logger.Warn("WorkflowEngine", fmt.Sprintf("No handler for trigger: %s", eventName), nil)
		return nil
	}
	return handler(ctx, payload)
}

// ProcessChatMessage runs analyze -> update memory -> risk gate ->
// generate response for one user message. It always returns a usable
// result: any failure that escapes step-local handling collapses into
// the neutral response with the caller's memory unmodified.
func (e *Engine) ProcessChatMessage(ctx context.Context, event *MessageEvent) (result *MessageResult) {
	memory := event.Memory
	if memory == nil {
		memory = NewSessionMemory()
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("WorkflowEngine", "Chat workflow panicked, returning neutral fallback", map[string]interface{}{
				"sessionId": event.SessionID,
				"panic":     fmt.Sprintf("%v", r),
			})
			result = &MessageResult{
				Response:      constant.NeutralFallbackResponse,
				Analysis:      NeutralAnalysis(),
				UpdatedMemory: memory.Clone(),
				Outcomes:      map[string]Outcome{"workflow": OutcomeError},
			}
		}
	}()

	outcomes := make(map[string]Outcome)

	// 1. Analyze the message. Falls back to the neutral analysis on
	// gateway or parse failure.
	analysis, outcome := e.analyzeMessage(ctx, event, memory)
	outcomes[StepAnalyzeMessage] = outcome

	// 2. Fold the analysis into session memory. Pure, no side effects.
	updated := aggregateMemory(memory.Clone(), analysis)
	outcomes[StepUpdateMemory] = OutcomeOK

	// 3. Risk gate. Fire-and-forget, never fails the workflow.
	outcomes[StepTriggerRiskAlert] = e.triggerRiskAlert(ctx, event, analysis)

	// 4. Generate the therapeutic reply.
	response, outcome := e.generateResponse(ctx, event, analysis, updated)
	outcomes[StepGenerateResponse] = outcome

	return &MessageResult{
		Response:      response,
		Analysis:      analysis,
		UpdatedMemory: updated,
		Outcomes:      outcomes,
	}
}

func (e *Engine) handleSessionMessage(ctx context.Context, payload []byte) error {
	var event MessageEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		e.logger.Error("WorkflowEngine", "Failed to decode session.message payload", map[string]interface{}{"error": err.Error()})
		return nil // poison message, do not redeliver
	}
	e.ProcessChatMessage(ctx, &event)
	return nil
}

func (e *Engine) handleSessionCreated(ctx context.Context, payload []byte) error {
	var event SessionCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		e.logger.Error("WorkflowEngine", "Failed to decode session.created payload", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return e.ReviewSession(ctx, &event)
}

func (e *Engine) handleMoodUpdated(ctx context.Context, payload []byte) error {
	var event MoodUpdatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		e.logger.Error("WorkflowEngine", "Failed to decode mood.updated payload", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return e.RecommendActivities(ctx, &event)
}

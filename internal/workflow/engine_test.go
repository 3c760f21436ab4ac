package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"ai-therapy-be/internal/constant"
	"ai-therapy-be/pkg/events"
	"ai-therapy-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

// stubProvider returns scripted responses in call order, or a scripted
// error for every call.
type stubProvider struct {
	responses []string
	err       error
	calls     int
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", errors.New("no scripted response left")
	}
	res := s.responses[s.calls]
	s.calls++
	return res, nil
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, "")
}

// capturePublisher records every alert it is asked to publish.
type capturePublisher struct {
	published []events.Event
	err       error
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

// noopLogger satisfies the logger contract without output.
type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// noRetryExecutor avoids the backoff sleep in tests.
func noRetryExecutor() *InProcessExecutor {
	return &InProcessExecutor{MaxAttempts: 1}
}

func analysisJSON(t *testing.T, a AnalysisResult) string {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"emotionalState":      a.EmotionalState,
		"themes":              a.Themes,
		"riskLevel":           a.RiskLevel,
		"recommendedApproach": a.RecommendedApproach,
		"progressIndicators":  a.ProgressIndicators,
	})
	assert.NoError(t, err)
	return string(data)
}

func TestRiskAlertGateThreshold(t *testing.T) {
	for risk := 0; risk <= 10; risk++ {
		t.Run(fmt.Sprintf("risk %d", risk), func(t *testing.T) {
			publisher := &capturePublisher{}
			provider := &stubProvider{responses: []string{
				analysisJSON(t, AnalysisResult{
					EmotionalState:      "tense",
					Themes:              []string{"stress"},
					RiskLevel:           risk,
					RecommendedApproach: "supportive",
					ProgressIndicators:  []string{},
				}),
				"It sounds like a lot is weighing on you.",
			}}
			engine := NewEngine(provider, noopLogger{}, publisher, noRetryExecutor())

			result := engine.ProcessChatMessage(context.Background(), &MessageEvent{
				UserID:       "user-1",
				SessionID:    "session-1",
				Message:      "I had a rough day",
				SystemPrompt: constant.TherapistSystemPromptV1,
			})

			if risk > 4 {
				assert.Len(t, publisher.published, 1, "expected exactly one alert")
				assert.Equal(t, events.TypeRiskAlert, publisher.published[0].EventType())
			} else {
				assert.Empty(t, publisher.published, "expected no alert")
			}
			assert.Equal(t, risk, result.UpdatedMemory.UserProfile.RiskLevel)
		})
	}
}

func TestProcessChatMessageHighRiskScenario(t *testing.T) {
	publisher := &capturePublisher{}
	provider := &stubProvider{responses: []string{
		`{"emotionalState":"despair","themes":["hopelessness"],"riskLevel":8,"recommendedApproach":"crisis-support","progressIndicators":[]}`,
		"You are not alone in this. Let's talk about what is happening right now.",
	}}
	engine := NewEngine(provider, noopLogger{}, publisher, noRetryExecutor())

	result := engine.ProcessChatMessage(context.Background(), &MessageEvent{
		UserID:       "user-1",
		SessionID:    "session-1",
		Message:      "I feel hopeless",
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	assert.Len(t, publisher.published, 1)
	assert.Equal(t, 8, result.UpdatedMemory.UserProfile.RiskLevel)
	assert.Equal(t, []string{"despair"}, result.UpdatedMemory.UserProfile.EmotionalState)
	assert.Equal(t, []string{"hopelessness"}, result.UpdatedMemory.SessionContext.ConversionThemes)
	assert.Equal(t, OutcomeOK, result.Outcomes[StepAnalyzeMessage])
	assert.Equal(t, OutcomeOK, result.Outcomes[StepGenerateResponse])
	assert.NotEmpty(t, result.Response)
}

func TestProcessChatMessageMalformedAnalysisFallsBack(t *testing.T) {
	publisher := &capturePublisher{}
	provider := &stubProvider{responses: []string{
		"not json",
		"Thank you for sharing that with me.",
	}}
	engine := NewEngine(provider, noopLogger{}, publisher, noRetryExecutor())

	result := engine.ProcessChatMessage(context.Background(), &MessageEvent{
		UserID:       "user-1",
		SessionID:    "session-1",
		Message:      "I feel hopeless",
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	assert.Equal(t, NeutralAnalysis(), result.Analysis)
	assert.Equal(t, OutcomeFallback, result.Outcomes[StepAnalyzeMessage])
	assert.Empty(t, publisher.published, "neutral fallback must not alert")
	assert.NotEmpty(t, result.Response)
}

func TestProcessChatMessageGatewayDownUsesSupportiveFallback(t *testing.T) {
	provider := &stubProvider{err: errors.New("gateway timeout")}
	engine := NewEngine(provider, noopLogger{}, &capturePublisher{}, noRetryExecutor())

	result := engine.ProcessChatMessage(context.Background(), &MessageEvent{
		UserID:       "user-1",
		SessionID:    "session-1",
		Message:      "Hello",
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	assert.Equal(t, constant.NeutralFallbackResponse, result.Response)
	assert.Equal(t, OutcomeFallback, result.Outcomes[StepAnalyzeMessage])
	assert.Equal(t, OutcomeFallback, result.Outcomes[StepGenerateResponse])
}

func TestProcessChatMessageThreadsMemoryAcrossTurns(t *testing.T) {
	publisher := &capturePublisher{}
	provider := &stubProvider{responses: []string{
		`{"emotionalState":"anxious","themes":["work"],"riskLevel":2,"recommendedApproach":"grounding","progressIndicators":[]}`,
		"That deadline pressure sounds exhausting.",
		`{"emotionalState":"calmer","themes":["rest"],"riskLevel":1,"recommendedApproach":"supportive","progressIndicators":["self-care"]}`,
		"It is good to hear you found some space to rest.",
	}}
	engine := NewEngine(provider, noopLogger{}, publisher, noRetryExecutor())

	first := engine.ProcessChatMessage(context.Background(), &MessageEvent{
		UserID:       "user-1",
		SessionID:    "session-1",
		Message:      "Work is overwhelming",
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	second := engine.ProcessChatMessage(context.Background(), &MessageEvent{
		UserID:       "user-1",
		SessionID:    "session-1",
		Message:      "I took an evening off",
		Memory:       first.UpdatedMemory,
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	assert.Equal(t, []string{"work", "rest"}, second.UpdatedMemory.SessionContext.ConversionThemes)
	assert.Equal(t, []string{"anxious", "calmer"}, second.UpdatedMemory.UserProfile.EmotionalState)
	assert.Equal(t, 1, second.UpdatedMemory.UserProfile.RiskLevel)
	assert.Empty(t, publisher.published)
}

func TestProcessChatMessageAlertPublishFailureDoesNotFailTurn(t *testing.T) {
	publisher := &capturePublisher{err: errors.New("nats unavailable")}
	provider := &stubProvider{responses: []string{
		`{"emotionalState":"despair","themes":[],"riskLevel":9,"recommendedApproach":"crisis-support","progressIndicators":[]}`,
		"I hear how much pain you are in right now.",
	}}
	engine := NewEngine(provider, noopLogger{}, publisher, noRetryExecutor())

	result := engine.ProcessChatMessage(context.Background(), &MessageEvent{
		UserID:       "user-1",
		SessionID:    "session-1",
		Message:      "I can't keep going",
		SystemPrompt: constant.TherapistSystemPromptV1,
	})

	assert.Equal(t, OutcomeFallback, result.Outcomes[StepTriggerRiskAlert])
	assert.NotEmpty(t, result.Response)
	assert.Equal(t, 9, result.UpdatedMemory.UserProfile.RiskLevel)
}

func TestDispatchUnknownTriggerIsIgnored(t *testing.T) {
	engine := NewEngine(&stubProvider{}, noopLogger{}, &capturePublisher{}, noRetryExecutor())

	err := engine.Dispatch(context.Background(), "unknown/trigger", []byte("{}"))
	assert.NoError(t, err)
}

func TestDispatchSessionCreatedEmitsConcernAlert(t *testing.T) {
	publisher := &capturePublisher{}
	provider := &stubProvider{responses: []string{
		`{"summary":"User discussed isolation","keyThemes":["isolation"],"progress":"early","areasOfConcern":["withdrawal from friends"],"recommendedFollowUp":"check in on social contact"}`,
	}}
	engine := NewEngine(provider, noopLogger{}, publisher, noRetryExecutor())

	payload, _ := json.Marshal(SessionCreatedEvent{
		UserID:    "user-1",
		SessionID: "session-1",
		History: []HistoryMessage{
			{Role: "user", Content: "I stopped seeing my friends"},
			{Role: "assistant", Content: "That sounds lonely. What changed?"},
		},
	})

	err := engine.Dispatch(context.Background(), events.TriggerSessionCreated, payload)
	assert.NoError(t, err)
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, events.TypeConcernAlert, publisher.published[0].EventType())
}

func TestDispatchSessionCreatedGatewayErrorIsReturned(t *testing.T) {
	provider := &stubProvider{err: errors.New("gateway down")}
	engine := NewEngine(provider, noopLogger{}, &capturePublisher{}, noRetryExecutor())

	payload, _ := json.Marshal(SessionCreatedEvent{
		UserID:    "user-1",
		SessionID: "session-1",
		History:   []HistoryMessage{{Role: "user", Content: "hello"}},
	})

	err := engine.Dispatch(context.Background(), events.TriggerSessionCreated, payload)
	assert.Error(t, err, "transport should get the error so it can redeliver")
}

func TestDispatchMoodUpdatedIsNoOp(t *testing.T) {
	publisher := &capturePublisher{}
	engine := NewEngine(&stubProvider{}, noopLogger{}, publisher, noRetryExecutor())

	payload, _ := json.Marshal(MoodUpdatedEvent{UserID: "user-1", MoodID: "mood-1", Score: 2})
	err := engine.Dispatch(context.Background(), events.TriggerMoodUpdated, payload)

	assert.NoError(t, err)
	assert.Empty(t, publisher.published)
}

func TestInProcessExecutorRetriesThenSucceeds(t *testing.T) {
	executor := &InProcessExecutor{MaxAttempts: 3}

	attempts := 0
	out, err := executor.Run(context.Background(), "flaky", func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, attempts)
}

func TestInProcessExecutorExhaustsAttempts(t *testing.T) {
	executor := &InProcessExecutor{MaxAttempts: 2}

	attempts := 0
	_, err := executor.Run(context.Background(), "broken", func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("permanent")
	})

	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
}

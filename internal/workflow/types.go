package workflow

import "encoding/json"

// AnalysisResult is the structured reading of a single user message.
// It is produced per turn and carried on the assistant reply's metadata,
// never persisted on its own.
type AnalysisResult struct {
	EmotionalState      string   `json:"emotionalState"`
	Themes              []string `json:"themes"`
	RiskLevel           int      `json:"riskLevel"`
	RecommendedApproach string   `json:"recommendedApproach"`
	ProgressIndicators  []string `json:"progressIndicators"`

	// RiskLevelSet reports whether the model actually emitted a riskLevel.
	// A missing field must not overwrite the prior memory value, while an
	// explicit 0 must.
	RiskLevelSet bool `json:"-"`
}

// UnmarshalJSON decodes through an intermediate struct so an absent
// riskLevel can be told apart from an explicit zero.
func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		EmotionalState      string   `json:"emotionalState"`
		Themes              []string `json:"themes"`
		RiskLevel           *int     `json:"riskLevel"`
		RecommendedApproach string   `json:"recommendedApproach"`
		ProgressIndicators  []string `json:"progressIndicators"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.EmotionalState = raw.EmotionalState
	a.Themes = raw.Themes
	a.RecommendedApproach = raw.RecommendedApproach
	a.ProgressIndicators = raw.ProgressIndicators
	if raw.RiskLevel != nil {
		a.RiskLevel = *raw.RiskLevel
		a.RiskLevelSet = true
	} else {
		a.RiskLevel = 0
		a.RiskLevelSet = false
	}
	return nil
}

// NeutralAnalysis is the fixed fallback used when the model output is
// unparsable or the gateway fails. The risk level is an explicit zero so
// a degraded turn resets the memory's current risk instead of keeping a
// stale high score.
func NeutralAnalysis() *AnalysisResult {
	return &AnalysisResult{
		EmotionalState:      "neutral",
		Themes:              []string{},
		RiskLevel:           0,
		RecommendedApproach: "supportive",
		ProgressIndicators:  []string{},
		RiskLevelSet:        true,
	}
}

// UserProfile accumulates per-user state across turns of one session.
type UserProfile struct {
	EmotionalState []string `json:"emotionalState"`
	RiskLevel      int      `json:"riskLevel"`
	Preferences    []string `json:"preferences,omitempty"`
}

// SessionContext accumulates conversational context across turns.
type SessionContext struct {
	ConversionThemes    []string `json:"conversionThemes"`
	ConversionTechnique []string `json:"conversionTechnique"`
}

// SessionMemory is the cumulative context threaded through turns by the
// caller. The engine mutates a copy and hands it back; it never persists
// memory itself.
type SessionMemory struct {
	UserProfile    UserProfile    `json:"userProfile"`
	SessionContext SessionContext `json:"sessionContext"`
}

// NewSessionMemory returns an empty memory for a session's first turn.
func NewSessionMemory() *SessionMemory {
	return &SessionMemory{
		UserProfile: UserProfile{
			EmotionalState: []string{},
			RiskLevel:      0,
		},
		SessionContext: SessionContext{
			ConversionThemes:    []string{},
			ConversionTechnique: []string{},
		},
	}
}

// Clone returns a deep copy so the caller's memory stays untouched when
// the engine falls back at the top level.
func (m *SessionMemory) Clone() *SessionMemory {
	if m == nil {
		return NewSessionMemory()
	}
	out := &SessionMemory{
		UserProfile: UserProfile{
			EmotionalState: append([]string{}, m.UserProfile.EmotionalState...),
			RiskLevel:      m.UserProfile.RiskLevel,
			Preferences:    append([]string(nil), m.UserProfile.Preferences...),
		},
		SessionContext: SessionContext{
			ConversionThemes:    append([]string{}, m.SessionContext.ConversionThemes...),
			ConversionTechnique: append([]string{}, m.SessionContext.ConversionTechnique...),
		},
	}
	return out
}

// HistoryMessage is one prior turn of the conversation as the engine
// sees it.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageEvent is the sole input of the chat-message workflow.
type MessageEvent struct {
	UserID       string           `json:"userId"`
	SessionID    string           `json:"sessionId"`
	Message      string           `json:"message"`
	History      []HistoryMessage `json:"history"`
	Memory       *SessionMemory   `json:"memory,omitempty"`
	Goals        []string         `json:"goals,omitempty"`
	SystemPrompt string           `json:"systemPrompt"`
}

// Outcome tags how a step finished, so callers and tests can tell a
// normal model answer from a fallback without inspecting the payload.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFallback
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFallback:
		return "fallback"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// MessageResult is what one workflow execution hands back to the caller.
type MessageResult struct {
	Response      string
	Analysis      *AnalysisResult
	UpdatedMemory *SessionMemory
	Outcomes      map[string]Outcome
}

// SessionCreatedEvent triggers the transcript-review workflow.
type SessionCreatedEvent struct {
	UserID    string           `json:"userId"`
	SessionID string           `json:"sessionId"`
	History   []HistoryMessage `json:"history"`
}

// MoodUpdatedEvent is a declared trigger reserved for activity
// recommendations.
type MoodUpdatedEvent struct {
	UserID string `json:"userId"`
	MoodID string `json:"moodId"`
	Score  int    `json:"score"`
}

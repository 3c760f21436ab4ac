package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     *AnalysisResult
		wantErr  bool
	}{
		{
			name:     "plain json",
			response: `{"emotionalState":"anxious","themes":["work"],"riskLevel":3,"recommendedApproach":"grounding","progressIndicators":["opened up"]}`,
			want: &AnalysisResult{
				EmotionalState:      "anxious",
				Themes:              []string{"work"},
				RiskLevel:           3,
				RecommendedApproach: "grounding",
				ProgressIndicators:  []string{"opened up"},
				RiskLevelSet:        true,
			},
		},
		{
			name:     "fenced json",
			response: "```json\n{\"emotionalState\":\"calm\",\"themes\":[],\"riskLevel\":1,\"recommendedApproach\":\"supportive\",\"progressIndicators\":[]}\n```",
			want: &AnalysisResult{
				EmotionalState:      "calm",
				Themes:              []string{},
				RiskLevel:           1,
				RecommendedApproach: "supportive",
				ProgressIndicators:  []string{},
				RiskLevelSet:        true,
			},
		},
		{
			name:     "risk above range is clamped",
			response: `{"emotionalState":"despair","themes":[],"riskLevel":42,"recommendedApproach":"crisis-support","progressIndicators":[]}`,
			want: &AnalysisResult{
				EmotionalState:      "despair",
				Themes:              []string{},
				RiskLevel:           10,
				RecommendedApproach: "crisis-support",
				ProgressIndicators:  []string{},
				RiskLevelSet:        true,
			},
		},
		{
			name:     "negative risk is clamped to zero",
			response: `{"emotionalState":"fine","themes":[],"riskLevel":-2,"recommendedApproach":"supportive","progressIndicators":[]}`,
			want: &AnalysisResult{
				EmotionalState:      "fine",
				Themes:              []string{},
				RiskLevel:           0,
				RecommendedApproach: "supportive",
				ProgressIndicators:  []string{},
				RiskLevelSet:        true,
			},
		},
		{
			name:     "missing risk level leaves the set flag off",
			response: `{"emotionalState":"tired","themes":["sleep"],"recommendedApproach":"supportive","progressIndicators":[]}`,
			want: &AnalysisResult{
				EmotionalState:      "tired",
				Themes:              []string{"sleep"},
				RiskLevel:           0,
				RecommendedApproach: "supportive",
				ProgressIndicators:  []string{},
				RiskLevelSet:        false,
			},
		},
		{
			name:     "not json",
			response: "I'm sorry, I cannot produce JSON right now.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysis(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeutralAnalysisShape(t *testing.T) {
	fallback := NeutralAnalysis()

	assert.Equal(t, "neutral", fallback.EmotionalState)
	assert.Empty(t, fallback.Themes)
	assert.Equal(t, 0, fallback.RiskLevel)
	assert.Equal(t, "supportive", fallback.RecommendedApproach)
	assert.Empty(t, fallback.ProgressIndicators)
	assert.True(t, fallback.RiskLevelSet)
}

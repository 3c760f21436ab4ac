package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateMemoryAppendsHistoryInOrder(t *testing.T) {
	memory := NewSessionMemory()

	first := &AnalysisResult{
		EmotionalState: "anxious",
		Themes:         []string{"work", "sleep"},
		RiskLevel:      3,
		RiskLevelSet:   true,
	}
	second := &AnalysisResult{
		EmotionalState: "hopeful",
		Themes:         []string{"family"},
		RiskLevel:      2,
		RiskLevelSet:   true,
	}

	memory = aggregateMemory(memory, first)
	memory = aggregateMemory(memory, second)

	assert.Equal(t, []string{"anxious", "hopeful"}, memory.UserProfile.EmotionalState)
	assert.Equal(t, []string{"work", "sleep", "family"}, memory.SessionContext.ConversionThemes)
	assert.Equal(t, 2, memory.UserProfile.RiskLevel)
}

func TestAggregateMemoryRiskOverwriteIsIdempotent(t *testing.T) {
	memory := NewSessionMemory()
	analysis := &AnalysisResult{
		EmotionalState: "calm",
		RiskLevel:      6,
		RiskLevelSet:   true,
	}

	memory = aggregateMemory(memory, analysis)
	assert.Equal(t, 6, memory.UserProfile.RiskLevel)

	memory = aggregateMemory(memory, analysis)
	assert.Equal(t, 6, memory.UserProfile.RiskLevel)
}

func TestAggregateMemoryMissingRiskKeepsPriorValue(t *testing.T) {
	memory := NewSessionMemory()
	memory.UserProfile.RiskLevel = 7

	memory = aggregateMemory(memory, &AnalysisResult{
		EmotionalState: "tired",
		RiskLevelSet:   false,
	})

	assert.Equal(t, 7, memory.UserProfile.RiskLevel)
}

func TestAggregateMemoryExplicitZeroResetsRisk(t *testing.T) {
	memory := NewSessionMemory()
	memory.UserProfile.RiskLevel = 7

	memory = aggregateMemory(memory, &AnalysisResult{
		EmotionalState: "neutral",
		RiskLevel:      0,
		RiskLevelSet:   true,
	})

	assert.Equal(t, 0, memory.UserProfile.RiskLevel)
}

func TestAggregateMemorySkipsEmptyFields(t *testing.T) {
	memory := NewSessionMemory()

	memory = aggregateMemory(memory, &AnalysisResult{
		EmotionalState: "",
		Themes:         []string{},
	})

	assert.Empty(t, memory.UserProfile.EmotionalState)
	assert.Empty(t, memory.SessionContext.ConversionThemes)
}

func TestSessionMemoryCloneIsIndependent(t *testing.T) {
	original := NewSessionMemory()
	original.UserProfile.EmotionalState = []string{"sad"}
	original.UserProfile.RiskLevel = 5

	clone := original.Clone()
	clone.UserProfile.EmotionalState = append(clone.UserProfile.EmotionalState, "angry")
	clone.UserProfile.RiskLevel = 9

	assert.Equal(t, []string{"sad"}, original.UserProfile.EmotionalState)
	assert.Equal(t, 5, original.UserProfile.RiskLevel)
}

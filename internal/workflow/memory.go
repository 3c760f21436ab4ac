package workflow

// aggregateMemory folds a new analysis into session memory. Emotional
// states and themes are append-only history; the risk level is the
// latest score and is overwritten only when the analysis actually
// carried one, so a missing field keeps the prior value while an
// explicit zero resets it.
func aggregateMemory(memory *SessionMemory, analysis *AnalysisResult) *SessionMemory {
	if analysis == nil {
		return memory
	}

	if analysis.EmotionalState != "" {
		memory.UserProfile.EmotionalState = append(memory.UserProfile.EmotionalState, analysis.EmotionalState)
	}

	if len(analysis.Themes) > 0 {
		memory.SessionContext.ConversionThemes = append(memory.SessionContext.ConversionThemes, analysis.Themes...)
	}

	if analysis.RiskLevelSet {
		memory.UserProfile.RiskLevel = analysis.RiskLevel
	}

	return memory
}

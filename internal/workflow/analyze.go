package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-therapy-be/pkg/llm"
)

const analysisPromptTemplate = `Analyze this therapy message and provide insights. Return ONLY valid JSON with no surrounding prose and no markdown fencing.

Message: %s
Context: %s

Required JSON structure:
{
  "emotionalState": "string",
  "themes": ["string"],
  "riskLevel": number from 0 to 10,
  "recommendedApproach": "string",
  "progressIndicators": ["string"]
}`

// analyzeMessage asks the model for a structured reading of the user
// message. Any failure degrades to the neutral analysis.
func (e *Engine) analyzeMessage(ctx context.Context, event *MessageEvent, memory *SessionMemory) (*AnalysisResult, Outcome) {
	contextJSON, err := json.Marshal(map[string]interface{}{
		"memory": memory,
		"goals":  event.Goals,
	})
	if err != nil {
		contextJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(analysisPromptTemplate, event.Message, string(contextJSON))

	out, err := e.executor.Run(ctx, StepAnalyzeMessage, func(ctx context.Context) (interface{}, error) {
		text, err := e.llm.Generate(ctx, prompt, llm.WithTemperature(0.2))
		if err != nil {
			return nil, err
		}
		return text, nil
	})
	if err != nil {
		e.logger.Warn("WorkflowEngine", "Analysis gateway call failed, using neutral fallback", map[string]interface{}{
			"sessionId": event.SessionID,
			"error":     err.Error(),
		})
		return NeutralAnalysis(), OutcomeFallback
	}

	analysis, err := parseAnalysis(out.(string))
	if err != nil {
		e.logger.Warn("WorkflowEngine", "Analysis output unparsable, using neutral fallback", map[string]interface{}{
			"sessionId": event.SessionID,
			"raw":       out.(string),
			"error":     err.Error(),
		})
		return NeutralAnalysis(), OutcomeFallback
	}
	return analysis, OutcomeOK
}

// parseAnalysis cleans markdown fencing from the model output, decodes
// it and clamps the risk score to the documented range.
func parseAnalysis(response string) (*AnalysisResult, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var analysis AnalysisResult
	if err := json.Unmarshal([]byte(response), &analysis); err != nil {
		return nil, err
	}

	if analysis.RiskLevel < 0 {
		analysis.RiskLevel = 0
	}
	if analysis.RiskLevel > 10 {
		analysis.RiskLevel = 10
	}
	return &analysis, nil
}

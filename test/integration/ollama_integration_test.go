package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"ai-therapy-be/pkg/llm"
	"ai-therapy-be/pkg/llm/ollama"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "gemma:2b"
)

func ollamaProvider(t *testing.T) *ollama.OllamaProvider {
	t.Helper()

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = defaultOllamaModel
	}

	// Cheap reachability ping so the suite skips cleanly without a local server
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get(baseURL)
	if err != nil {
		t.Skipf("Skipping integration test: Ollama not running at %s: %v", baseURL, err)
	}
	res.Body.Close()

	return ollama.NewOllamaProvider(baseURL, model)
}

// TestOllamaSimpleResponse tests basic prompt completion
func TestOllamaSimpleResponse(t *testing.T) {
	provider := ollamaProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	response, err := provider.Generate(ctx, "Hello! Say 'Ollama works!' in one sentence.")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Logf("Response: %s", response)

	if response == "" {
		t.Error("Response should not be empty")
	}
}

// TestOllamaMultiTurnConversation tests context retention
func TestOllamaMultiTurnConversation(t *testing.T) {
	provider := ollamaProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	conversation := []llm.Message{
		{Role: "user", Content: "My name is John"},
		{Role: "assistant", Content: "Nice to meet you, John!"},
		{Role: "user", Content: "What is my name?"},
	}

	response, err := provider.Chat(ctx, conversation)
	if err != nil {
		t.Fatalf("Multi-turn conversation failed: %v", err)
	}

	t.Logf("Response: %s", response)

	if !strings.Contains(response, "John") {
		t.Logf("Response may not correctly remember the name. Response: %s", response)
	}
}

// TestOllamaStructuredAnalysis checks the model can hold the strict-JSON
// contract the message analysis step relies on. Mismatches are logged, not
// failed: the workflow has its own fallback for unparsable output.
func TestOllamaStructuredAnalysis(t *testing.T) {
	provider := ollamaProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	prompt := `Analyze this message from a therapy session: "I have been feeling anxious about work all week."

Respond ONLY with JSON: {"emotionalState": "...", "riskLevel": 0}`

	response, err := provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Logf("Response: %s", response)

	if !strings.Contains(response, "emotionalState") {
		t.Logf("Model did not follow the JSON contract, fallback path would engage. Response: %s", response)
	}
}

package memory

import (
	"context"

	"ai-therapy-be/internal/workflow"
)

// MemoryStore keeps the cumulative session memory between chat turns.
// The workflow engine never touches it; the chat service loads memory
// before triggering a workflow and saves the updated copy after.
type MemoryStore interface {
	Get(ctx context.Context, sessionID string) (*workflow.SessionMemory, bool, error)
	Save(ctx context.Context, sessionID string, memory *workflow.SessionMemory) error
	Delete(ctx context.Context, sessionID string) error
}

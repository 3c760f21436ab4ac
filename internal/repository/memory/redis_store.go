package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-therapy-be/internal/workflow"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared MemoryStore for multi-node deployments, so a
// session's turns can land on different instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func memoryKey(sessionID string) string {
	return fmt.Sprintf("therapy:memory:%s", sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*workflow.SessionMemory, bool, error) {
	data, err := s.client.Get(ctx, memoryKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session memory: %w", err)
	}

	var memory workflow.SessionMemory
	if err := json.Unmarshal(data, &memory); err != nil {
		return nil, false, fmt.Errorf("failed to decode session memory: %w", err)
	}
	return &memory, true, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, memory *workflow.SessionMemory) error {
	data, err := json.Marshal(memory)
	if err != nil {
		return fmt.Errorf("failed to encode session memory: %w", err)
	}
	if err := s.client.Set(ctx, memoryKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session memory: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, memoryKey(sessionID)).Err()
}

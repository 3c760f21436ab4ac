package memory

import (
	"context"
	"time"

	"ai-therapy-be/internal/workflow"

	"github.com/patrickmn/go-cache"
)

// CacheStore is the in-process MemoryStore, suitable for single-node
// deployments and tests.
type CacheStore struct {
	cache *cache.Cache
}

func NewCacheStore(ttl time.Duration) *CacheStore {
	// Purge expired entries every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &CacheStore{
		cache: c,
	}
}

func (s *CacheStore) Get(ctx context.Context, sessionID string) (*workflow.SessionMemory, bool, error) {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*workflow.SessionMemory), true, nil
	}
	return nil, false, nil
}

func (s *CacheStore) Save(ctx context.Context, sessionID string, memory *workflow.SessionMemory) error {
	s.cache.Set(sessionID, memory, cache.DefaultExpiration)
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

package recovery

import (
	"context"
	"sync"

	"micropage/api/internal/site"
)

// MemoryStore keeps draft mirrors in process memory. Used in tests and when
// no Redis URL is configured; the mirror then survives session restarts but
// not process restarts, which is still better than nothing.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, micrositeID string, cfg site.Config) error {
	raw, err := cfg.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[micrositeID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, micrositeID string) (site.Config, bool, error) {
	s.mu.Lock()
	raw, ok := s.drafts[micrositeID]
	s.mu.Unlock()
	if !ok {
		return site.Config{}, false, nil
	}
	cfg, err := site.Decode(raw)
	if err != nil {
		return site.Config{}, false, err
	}
	return cfg, true, nil
}

func (s *MemoryStore) Clear(ctx context.Context, micrositeID string) error {
	s.mu.Lock()
	delete(s.drafts, micrositeID)
	s.mu.Unlock()
	return nil
}

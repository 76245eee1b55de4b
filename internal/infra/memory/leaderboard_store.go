package memory

import (
	"context"
	"sync"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// LeaderboardStore is an in-memory implementation of
// app.LeaderboardRepository. ReplaceAll swaps the article's slice under
// the lock, so readers never observe a half-applied re-rank.
type LeaderboardStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.LeaderboardEntry
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{entries: make(map[string][]domain.LeaderboardEntry)}
}

func (s *LeaderboardStore) Entries(_ context.Context, articleID string) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.entries[articleID]
	out := make([]domain.LeaderboardEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *LeaderboardStore) ReplaceAll(_ context.Context, articleID string, entries []domain.LeaderboardEntry) error {
	replacement := make([]domain.LeaderboardEntry, len(entries))
	copy(replacement, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[articleID] = replacement
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"
)

// BadgeStore is an in-memory implementation of app.BadgeRepository.
// AddIfAbsent serializes the check-then-add under one lock, which is the
// conditional-write semantics the idempotent grant contract requires.
type BadgeStore struct {
	mu     sync.Mutex
	badges map[string]map[string]struct{}
}

func NewBadgeStore() *BadgeStore {
	return &BadgeStore{badges: make(map[string]map[string]struct{})}
}

func (s *BadgeStore) AddIfAbsent(_ context.Context, userID, badgeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.badges[userID]
	if !ok {
		set = make(map[string]struct{})
		s.badges[userID] = set
	}
	if _, exists := set[badgeID]; exists {
		return false, nil
	}
	set[badgeID] = struct{}{}
	return true, nil
}

func (s *BadgeStore) Badges(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.badges[userID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

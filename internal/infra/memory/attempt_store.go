package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	clock    func() time.Time
	attempts []domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{clock: time.Now}
}

// NewAttemptStoreWithClock is test-only for deterministic timestamps.
func NewAttemptStoreWithClock(now func() time.Time) *AttemptStore {
	return &AttemptStore{clock: now}
}

func (s *AttemptStore) Insert(_ context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.ID = uuid.NewString()
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = s.clock()
	}
	s.attempts = append(s.attempts, attempt)
	return attempt, nil
}

func (s *AttemptStore) CountByUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.attempts {
		if s.attempts[i].UserID == userID {
			count++
		}
	}
	return count, nil
}

// All returns a copy of every stored attempt, oldest first.
func (s *AttemptStore) All() []domain.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

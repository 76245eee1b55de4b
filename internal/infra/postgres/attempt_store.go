package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// AttemptStore persists attempts in Postgres. Rows are insert-only; the
// gamification engine never mutates or deletes them.
type AttemptStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool, clock: time.Now}
}

func (s *AttemptStore) Insert(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	attempt.ID = uuid.NewString()
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = s.clock()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attempts (id, user_id, quiz_id, article_id, score, total_questions, time_spent_secs, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		attempt.ID, attempt.UserID, attempt.QuizID, attempt.ArticleID,
		attempt.Score, attempt.TotalQuestions, attempt.TimeSpentSecs, attempt.CompletedAt,
	)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	return attempt, nil
}

func (s *AttemptStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attempts WHERE user_id=$1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return count, nil
}

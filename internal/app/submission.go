package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// AttemptRepository persists completed attempts. Insert assigns the
// attempt id and completion timestamp. CountByUser is the freshly-read
// counter the quiz-attempt badge trigger feeds on.
type AttemptRepository interface {
	Insert(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// SubmissionGuard converts exactly one completed session into exactly
// one persisted attempt. Duplicate submissions from re-renders or rapid
// double-invocation are collapsed into the first result.
type SubmissionGuard struct {
	attempts    AttemptRepository
	leaderboard *LeaderboardEngine
	logger      *zap.Logger
}

func NewSubmissionGuard(attempts AttemptRepository, leaderboard *LeaderboardEngine, logger *zap.Logger) *SubmissionGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionGuard{attempts: attempts, leaderboard: leaderboard, logger: logger}
}

// Submit persists the session's attempt. On a perfect score the
// leaderboard is updated and the resulting rank returned; rank is 0
// otherwise. A repeat call returns the cached attempt together with
// domain.ErrAlreadySubmitted so callers can tell the difference without
// treating it as a failure.
//
// The session is only marked submitted after the insert resolves, so a
// persistence failure leaves it retryable. The guard itself never
// retries; retry policy belongs to the transport.
func (g *SubmissionGuard) Submit(ctx context.Context, userID string, session *Session) (domain.Attempt, int, error) {
	if !session.Completed() {
		return domain.Attempt{}, 0, domain.ErrSessionNotCompleted
	}
	if prev, ok := session.Attempt(); ok {
		g.logger.Debug("duplicate submission ignored",
			zap.String("user_id", userID), zap.String("attempt_id", prev.ID))
		return prev, 0, domain.ErrAlreadySubmitted
	}

	attempt := domain.Attempt{
		UserID:         userID,
		QuizID:         session.Quiz().ID,
		ArticleID:      session.Quiz().ArticleID,
		Score:          session.Score(),
		TotalQuestions: session.TotalQuestions(),
		TimeSpentSecs:  session.TimeSpent(),
	}

	saved, err := g.attempts.Insert(ctx, attempt)
	if err != nil {
		return domain.Attempt{}, 0, fmt.Errorf("insert attempt: %w", err)
	}
	session.markSubmitted(saved)

	if !saved.Perfect() {
		return saved, 0, nil
	}

	rank, err := g.leaderboard.RecordPerfectAttempt(ctx, saved)
	if err != nil {
		// The attempt is durable; only the ranking write failed.
		return saved, 0, fmt.Errorf("record perfect attempt: %w", err)
	}
	return saved, rank, nil
}

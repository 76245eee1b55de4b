package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// QuizRepository loads quiz content for an article (from cache/backing store).
type QuizRepository interface {
	GetQuizByArticle(ctx context.Context, articleID string) (domain.Quiz, error)
}

// GamificationService ties the engines together behind the use cases the
// transport layer needs: open a session, submit it, read leaderboards
// and badges. Non-quiz triggers (publish, follow, comment, views, likes)
// are forwarded to the achievement engine with the counter values the
// calling site read.
type GamificationService struct {
	quizzes      QuizRepository
	attempts     AttemptRepository
	guard        *SubmissionGuard
	leaderboard  *LeaderboardEngine
	achievements *AchievementEngine
	logger       *zap.Logger
}

func NewGamificationService(
	quizzes QuizRepository,
	attempts AttemptRepository,
	guard *SubmissionGuard,
	leaderboard *LeaderboardEngine,
	achievements *AchievementEngine,
	logger *zap.Logger,
) *GamificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GamificationService{
		quizzes:      quizzes,
		attempts:     attempts,
		guard:        guard,
		leaderboard:  leaderboard,
		achievements: achievements,
		logger:       logger,
	}
}

// OpenSession loads the article's quiz and returns a fresh NotStarted
// session owned by the caller.
func (s *GamificationService) OpenSession(ctx context.Context, articleID string) (*Session, error) {
	quiz, err := s.quizzes.GetQuizByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return NewSession(quiz), nil
}

// SubmissionResult is what one submission produced: the durable attempt,
// the leaderboard rank on a perfect run (0 otherwise), any badges newly
// granted, and whether this call was a duplicate of an earlier one.
type SubmissionResult struct {
	Attempt   domain.Attempt `json:"attempt"`
	Rank      int            `json:"rank,omitempty"`
	NewBadges []string       `json:"newBadges,omitempty"`
	Duplicate bool           `json:"duplicate,omitempty"`
}

// SubmitSession runs the submission guard and then fires the quiz-side
// achievement triggers (attempt count, leaderboard rank). Badge-grant
// failures are logged and dropped; they never fail the submission, and
// the next attempt re-evaluates the same thresholds.
func (s *GamificationService) SubmitSession(ctx context.Context, userID string, session *Session) (SubmissionResult, error) {
	attempt, rank, err := s.guard.Submit(ctx, userID, session)
	if errors.Is(err, domain.ErrAlreadySubmitted) {
		return SubmissionResult{Attempt: attempt, Duplicate: true}, nil
	}
	if err != nil {
		return SubmissionResult{}, err
	}

	result := SubmissionResult{Attempt: attempt, Rank: rank}

	attemptCount, err := s.attempts.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("attempt count unavailable, quiz badge trigger skipped",
			zap.String("user_id", userID), zap.Error(err))
	} else if granted, err := s.achievements.QuizAttemptSubmitted(ctx, userID, attemptCount); err != nil {
		s.logger.Warn("quiz attempt badge evaluation failed",
			zap.String("user_id", userID), zap.Error(err))
	} else {
		result.NewBadges = append(result.NewBadges, granted...)
	}

	if rank > 0 {
		if granted, err := s.achievements.LeaderboardRankAchieved(ctx, userID, rank); err != nil {
			s.logger.Warn("rank badge evaluation failed",
				zap.String("user_id", userID), zap.Int("rank", rank), zap.Error(err))
		} else {
			result.NewBadges = append(result.NewBadges, granted...)
		}
	}

	return result, nil
}

// Leaderboard returns the article's top entries.
func (s *GamificationService) Leaderboard(ctx context.Context, articleID string, limit int) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard.Leaderboard(ctx, articleID, limit)
}

// Badges returns the catalog entries the user has earned.
func (s *GamificationService) Badges(ctx context.Context, userID string) ([]domain.Badge, error) {
	ids, err := s.achievements.Badges(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges := make([]domain.Badge, 0, len(ids))
	for _, id := range ids {
		if badge, ok := domain.Badges[id]; ok {
			badges = append(badges, badge)
		}
	}
	return badges, nil
}

// Achievements exposes the rule engine for the platform's non-quiz
// trigger call sites (publish, follow, comment, view, like).
func (s *GamificationService) Achievements() *AchievementEngine {
	return s.achievements
}

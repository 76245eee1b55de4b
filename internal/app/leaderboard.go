package app

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// LeaderboardRepository stores ranked entries per article. ReplaceAll
// swaps the article's whole entry set in one shot: either the new
// ranking becomes visible in full, or the previous one stays.
type LeaderboardRepository interface {
	Entries(ctx context.Context, articleID string) ([]domain.LeaderboardEntry, error)
	ReplaceAll(ctx context.Context, articleID string, entries []domain.LeaderboardEntry) error
}

// LeaderboardEngine maintains the per-article ranking of perfect
// attempts. Score is always total within this table, so time spent is
// the effective sort key.
type LeaderboardEngine struct {
	repo   LeaderboardRepository
	logger *zap.Logger
}

func NewLeaderboardEngine(repo LeaderboardRepository, logger *zap.Logger) *LeaderboardEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardEngine{repo: repo, logger: logger}
}

// RecordPerfectAttempt folds a perfect attempt into the article's
// ranking and returns the attempt owner's resulting 1-based rank.
// A slower duplicate perfect run is discarded and the user's existing
// rank returned unchanged.
func (e *LeaderboardEngine) RecordPerfectAttempt(ctx context.Context, attempt domain.Attempt) (int, error) {
	if !attempt.Perfect() {
		return 0, domain.ErrNotPerfect
	}

	entries, err := e.repo.Entries(ctx, attempt.ArticleID)
	if err != nil {
		return 0, fmt.Errorf("load leaderboard: %w", err)
	}

	idx := -1
	for i := range entries {
		if entries[i].UserID == attempt.UserID {
			idx = i
			break
		}
	}

	switch {
	case idx >= 0 && entries[idx].TimeSpentSecs <= attempt.TimeSpentSecs:
		// Existing entry is already as fast or faster; nothing to write.
		return entries[idx].Rank, nil
	case idx >= 0:
		entries[idx].TimeSpentSecs = attempt.TimeSpentSecs
		entries[idx].CompletedAt = attempt.CompletedAt
	default:
		entries = append(entries, domain.LeaderboardEntry{
			UserID:         attempt.UserID,
			ArticleID:      attempt.ArticleID,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			TimeSpentSecs:  attempt.TimeSpentSecs,
			CompletedAt:    attempt.CompletedAt,
		})
	}

	rankEntries(entries)

	if err := e.repo.ReplaceAll(ctx, attempt.ArticleID, entries); err != nil {
		return 0, fmt.Errorf("write leaderboard: %w", err)
	}

	rank := 0
	for i := range entries {
		if entries[i].UserID == attempt.UserID {
			rank = entries[i].Rank
			break
		}
	}
	e.logger.Info("leaderboard updated",
		zap.String("article_id", attempt.ArticleID),
		zap.String("user_id", attempt.UserID),
		zap.Int("rank", rank),
		zap.Int("entries", len(entries)))
	return rank, nil
}

// Leaderboard returns the article's entries ordered by rank, truncated
// to limit (limit <= 0 means no truncation). The read path re-sorts with
// the same keys as the write path so both always agree.
func (e *LeaderboardEngine) Leaderboard(ctx context.Context, articleID string, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := e.repo.Entries(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	rankEntries(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// rankEntries sorts by score descending then time spent ascending and
// reassigns 1-based ranks. Ties in time keep stable input order and
// still receive distinct successive ranks.
func rankEntries(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TimeSpentSecs < entries[j].TimeSpentSecs
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/budd9442/edify.lk-sub000/internal/app"
	"github.com/budd9442/edify.lk-sub000/internal/domain"
	"github.com/budd9442/edify.lk-sub000/internal/infra/memory"
)

func perfectAttempt(userID string, timeSpent int) domain.Attempt {
	return domain.Attempt{
		UserID:         userID,
		QuizID:         "quiz-1",
		ArticleID:      "article-1",
		Score:          3,
		TotalQuestions: 3,
		TimeSpentSecs:  timeSpent,
		CompletedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordPerfectAttemptRejectsImperfect(t *testing.T) {
	engine := app.NewLeaderboardEngine(memory.NewLeaderboardStore(), nil)

	attempt := perfectAttempt("user-1", 30)
	attempt.Score = 2

	_, err := engine.RecordPerfectAttempt(context.Background(), attempt)
	require.ErrorIs(t, err, domain.ErrNotPerfect)
}

func TestRecordPerfectAttemptRanksByTime(t *testing.T) {
	engine := app.NewLeaderboardEngine(memory.NewLeaderboardStore(), nil)
	ctx := context.Background()

	rank, err := engine.RecordPerfectAttempt(ctx, perfectAttempt("alice", 50))
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	rank, err = engine.RecordPerfectAttempt(ctx, perfectAttempt("bob", 30))
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	rank, err = engine.RecordPerfectAttempt(ctx, perfectAttempt("carol", 40))
	require.NoError(t, err)
	require.Equal(t, 2, rank)

	entries, err := engine.Leaderboard(ctx, "article-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"bob", "carol", "alice"}, userOrder(entries))
	for i, entry := range entries {
		require.Equal(t, i+1, entry.Rank)
	}
}

func TestRecordPerfectAttemptKeepsOneEntryPerUser(t *testing.T) {
	engine := app.NewLeaderboardEngine(memory.NewLeaderboardStore(), nil)
	ctx := context.Background()

	_, err := engine.RecordPerfectAttempt(ctx, perfectAttempt("alice", 50))
	require.NoError(t, err)

	// Faster rerun replaces the entry.
	rank, err := engine.RecordPerfectAttempt(ctx, perfectAttempt("alice", 20))
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	entries, err := engine.Leaderboard(ctx, "article-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 20, entries[0].TimeSpentSecs)

	// Slower rerun is discarded, existing rank comes back unchanged.
	rank, err = engine.RecordPerfectAttempt(ctx, perfectAttempt("alice", 45))
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	entries, err = engine.Leaderboard(ctx, "article-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 20, entries[0].TimeSpentSecs)
}

func TestTiedTimesKeepDistinctRanks(t *testing.T) {
	engine := app.NewLeaderboardEngine(memory.NewLeaderboardStore(), nil)
	ctx := context.Background()

	_, err := engine.RecordPerfectAttempt(ctx, perfectAttempt("alice", 30))
	require.NoError(t, err)
	_, err = engine.RecordPerfectAttempt(ctx, perfectAttempt("bob", 30))
	require.NoError(t, err)

	entries, err := engine.Leaderboard(ctx, "article-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Earlier entry keeps the better rank on a tie.
	require.Equal(t, []string{"alice", "bob"}, userOrder(entries))
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardTruncatesToLimit(t *testing.T) {
	engine := app.NewLeaderboardEngine(memory.NewLeaderboardStore(), nil)
	ctx := context.Background()

	for i, user := range []string{"alice", "bob", "carol", "dave"} {
		_, err := engine.RecordPerfectAttempt(ctx, perfectAttempt(user, 10+i))
		require.NoError(t, err)
	}

	entries, err := engine.Leaderboard(ctx, "article-1", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, userOrder(entries))
}

func TestFailedRewriteLeavesPreviousRanking(t *testing.T) {
	store := memory.NewLeaderboardStore()
	ctx := context.Background()

	engine := app.NewLeaderboardEngine(store, nil)
	_, err := engine.RecordPerfectAttempt(ctx, perfectAttempt("alice", 50))
	require.NoError(t, err)

	broken := &failingLeaderboardRepo{LeaderboardStore: store, err: context.DeadlineExceeded}
	_, err = app.NewLeaderboardEngine(broken, nil).RecordPerfectAttempt(ctx, perfectAttempt("bob", 30))
	require.Error(t, err)

	entries, err := engine.Leaderboard(ctx, "article-1", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, userOrder(entries))
	require.Equal(t, 1, entries[0].Rank)
}

func userOrder(entries []domain.LeaderboardEntry) []string {
	users := make([]string, len(entries))
	for i, entry := range entries {
		users[i] = entry.UserID
	}
	return users
}

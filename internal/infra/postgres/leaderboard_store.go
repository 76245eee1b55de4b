package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// LeaderboardStore persists ranked entries in Postgres. ReplaceAll runs
// delete-and-insert inside one transaction, so a failed re-rank leaves
// the previous ranking fully visible.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) Entries(ctx context.Context, articleID string) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, article_id, score, total_questions, time_spent_secs, completed_at, rank
		FROM leaderboard_entries
		WHERE article_id=$1
		ORDER BY rank`, articleID)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.ArticleID, &e.Score, &e.TotalQuestions,
			&e.TimeSpentSecs, &e.CompletedAt, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return entries, nil
}

func (s *LeaderboardStore) ReplaceAll(ctx context.Context, articleID string, entries []domain.LeaderboardEntry) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin leaderboard tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM leaderboard_entries WHERE article_id=$1`, articleID); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO leaderboard_entries (user_id, article_id, score, total_questions, time_spent_secs, completed_at, rank)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.UserID, e.ArticleID, e.Score, e.TotalQuestions, e.TimeSpentSecs, e.CompletedAt, e.Rank,
		); err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit leaderboard tx: %w", err)
	}
	return nil
}

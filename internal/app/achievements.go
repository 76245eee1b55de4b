package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// BadgeRepository is the per-user granted-badge set. AddIfAbsent must be
// conditional on non-membership (SADD-style), which makes grant safe to
// call from racing triggers.
type BadgeRepository interface {
	AddIfAbsent(ctx context.Context, userID, badgeID string) (bool, error)
	Badges(ctx context.Context, userID string) ([]string, error)
}

// Notifier emits badge notifications. Delivery is fire-and-forget; a
// failed emit never fails the grant.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// thresholdRule grants a badge once a monotonic counter reaches Min.
type thresholdRule struct {
	Min     int
	BadgeID string
}

// Rule tables per trigger, ascending. The full table is re-evaluated on
// every trigger because counters may skip values (a jump from 0 to 150
// followers must land all three tiers in one pass); already-granted
// badges fall out as no-ops through the idempotent grant.
var (
	publishRules = []thresholdRule{
		{1, domain.BadgeFirstInk},
		{5, domain.BadgeProlificAuthor},
		{10, domain.BadgeVeteranAuthor},
	}
	followerRules = []thresholdRule{
		{10, domain.BadgeRisingStar},
		{100, domain.BadgeCrowdFavorite},
		{1000, domain.BadgeInfluencer},
	}
	commentRules = []thresholdRule{
		{1, domain.BadgeFirstWord},
		{50, domain.BadgeConversationalist},
	}
	readRules = []thresholdRule{
		{10, domain.BadgeCuriousReader},
	}
	articleViewRules = []thresholdRule{
		{1000, domain.BadgeThousandViews},
	}
	articleLikeRules = []thresholdRule{
		{100, domain.BadgeWellLoved},
	}
	quizAttemptRules = []thresholdRule{
		{10, domain.BadgeQuizEnthusiast},
	}
)

// AchievementEngine evaluates threshold rules against caller-supplied
// counter values and grants badges idempotently. It never reads or
// computes the counters itself.
type AchievementEngine struct {
	badges   BadgeRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewAchievementEngine(badges BadgeRepository, notifier Notifier, logger *zap.Logger) *AchievementEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AchievementEngine{badges: badges, notifier: notifier, logger: logger}
}

// ArticlePublished evaluates writer badges against the author's total
// published count.
func (e *AchievementEngine) ArticlePublished(ctx context.Context, authorID string, publishedCount int) ([]string, error) {
	return e.evaluate(ctx, authorID, publishRules, publishedCount)
}

// FollowerGained evaluates community badges against the target user's
// follower count.
func (e *AchievementEngine) FollowerGained(ctx context.Context, userID string, followerCount int) ([]string, error) {
	return e.evaluate(ctx, userID, followerRules, followerCount)
}

// CommentPosted evaluates community badges against the author's total
// comment count.
func (e *AchievementEngine) CommentPosted(ctx context.Context, userID string, commentCount int) ([]string, error) {
	return e.evaluate(ctx, userID, commentRules, commentCount)
}

// ArticleRead evaluates reader badges against the viewer's distinct
// articles-read count.
func (e *AchievementEngine) ArticleRead(ctx context.Context, userID string, distinctReadCount int) ([]string, error) {
	return e.evaluate(ctx, userID, readRules, distinctReadCount)
}

// ArticleViewsReached evaluates the author-facing view badge against an
// article's total view count.
func (e *AchievementEngine) ArticleViewsReached(ctx context.Context, authorID string, viewCount int) ([]string, error) {
	return e.evaluate(ctx, authorID, articleViewRules, viewCount)
}

// ArticleLikesReached evaluates the author-facing like badge against an
// article's total like count.
func (e *AchievementEngine) ArticleLikesReached(ctx context.Context, authorID string, likeCount int) ([]string, error) {
	return e.evaluate(ctx, authorID, articleLikeRules, likeCount)
}

// QuizAttemptSubmitted evaluates the quiz badge against the user's total
// attempt count.
func (e *AchievementEngine) QuizAttemptSubmitted(ctx context.Context, userID string, attemptCount int) ([]string, error) {
	return e.evaluate(ctx, userID, quizAttemptRules, attemptCount)
}

// LeaderboardRankAchieved grants rank badges for the attempt's resulting
// rank: top ten for rank <= 10 and the stricter champion tier for rank 1.
func (e *AchievementEngine) LeaderboardRankAchieved(ctx context.Context, userID string, rank int) ([]string, error) {
	if rank < 1 {
		return nil, nil
	}
	var granted []string
	var errs []error
	if rank <= 10 {
		if ok, err := e.grant(ctx, userID, domain.BadgeTopTen); err != nil {
			errs = append(errs, err)
		} else if ok {
			granted = append(granted, domain.BadgeTopTen)
		}
	}
	if rank == 1 {
		if ok, err := e.grant(ctx, userID, domain.BadgeQuizChampion); err != nil {
			errs = append(errs, err)
		} else if ok {
			granted = append(granted, domain.BadgeQuizChampion)
		}
	}
	return granted, errors.Join(errs...)
}

// Badges returns the user's granted badge ids.
func (e *AchievementEngine) Badges(ctx context.Context, userID string) ([]string, error) {
	return e.badges.Badges(ctx, userID)
}

// evaluate walks a rule table top to bottom and grants every badge whose
// threshold the counter has reached. Grant failures are collected and
// surfaced, but never stop the remaining rules: the next trigger for
// this user re-evaluates the whole table anyway.
func (e *AchievementEngine) evaluate(ctx context.Context, userID string, rules []thresholdRule, counter int) ([]string, error) {
	var granted []string
	var errs []error
	for _, rule := range rules {
		if counter < rule.Min {
			break // rules are ascending; nothing further can match
		}
		ok, err := e.grant(ctx, userID, rule.BadgeID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			granted = append(granted, rule.BadgeID)
		}
	}
	return granted, errors.Join(errs...)
}

// grant adds the badge if absent and emits one notification on a new
// grant. A persistence failure leaves the badge ungranted for the next
// trigger to pick up.
func (e *AchievementEngine) grant(ctx context.Context, userID, badgeID string) (bool, error) {
	badge, ok := domain.Badges[badgeID]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownBadge, badgeID)
	}

	added, err := e.badges.AddIfAbsent(ctx, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("grant %s: %w", badgeID, err)
	}
	if !added {
		return false, nil
	}

	e.logger.Info("badge granted",
		zap.String("user_id", userID),
		zap.String("badge_id", badgeID),
		zap.String("category", string(badge.Category)))

	if err := e.notifier.Notify(ctx, domain.Notification{
		UserID:  userID,
		Kind:    domain.NotificationKindBadge,
		BadgeID: badgeID,
	}); err != nil {
		e.logger.Warn("badge notification dropped",
			zap.String("user_id", userID),
			zap.String("badge_id", badgeID),
			zap.Error(err))
	}
	return true, nil
}

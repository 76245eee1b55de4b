package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// BadgeStore keeps each user's granted badges in a Redis set:
// SADD profile:{userID}:badges {badgeID}
// SADD's return value makes the grant a conditional write keyed on
// non-membership, so racing triggers cannot double-grant.
type BadgeStore struct {
	client *redis.Client
}

func NewBadgeStore(client *redis.Client) *BadgeStore {
	return &BadgeStore{client: client}
}

func (s *BadgeStore) AddIfAbsent(ctx context.Context, userID, badgeID string) (bool, error) {
	added, err := s.client.SAdd(ctx, s.key(userID), badgeID).Result()
	if err != nil {
		return false, fmt.Errorf("add badge: %w", err)
	}
	return added == 1, nil
}

func (s *BadgeStore) Badges(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	return ids, nil
}

func (s *BadgeStore) key(userID string) string {
	return "profile:" + userID + ":badges"
}

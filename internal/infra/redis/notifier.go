package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// Notifier publishes badge notifications on a per-user Redis channel for
// the notification UI to pick up. Delivery is fire-and-forget: nobody
// listening means the message is simply gone, which matches the
// non-fatal notification contract.
type Notifier struct {
	client *redis.Client
	clock  func() time.Time
}

func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client, clock: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, notification domain.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.clock()
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel(notification.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (n *Notifier) channel(userID string) string {
	return "notifications:" + userID
}

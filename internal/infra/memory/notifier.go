package memory

import (
	"context"
	"sync"
	"time"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// Notifier records notifications in memory. It backs tests and the
// no-Redis server mode, where emitted notifications only need to exist
// long enough for the surrounding app to drain them.
type Notifier struct {
	mu    sync.Mutex
	clock func() time.Time
	sent  []domain.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{clock: time.Now}
}

func (n *Notifier) Notify(_ context.Context, notification domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.clock()
	}
	n.sent = append(n.sent, notification)
	return nil
}

// Sent returns a copy of every recorded notification in emit order.
func (n *Notifier) Sent() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QueueMessage is what a mail worker pops from the outbound queue.
type QueueMessage struct {
	ID           string                `json:"id"`
	EnqueuedAt   string                `json:"enqueued_at"`
	Notification entities.Notification `json:"notification"`
}

// QueueNotifier pushes notifications onto a Redis list for an external sender.
type QueueNotifier struct {
	client redis.Cmdable
	key    string
	clock  clock.Clock
}

var _ interfaces.INotifier = (*QueueNotifier)(nil)

func NewQueueNotifier(client redis.Cmdable, key string, clk clock.Clock) *QueueNotifier {
	if key == "" {
		key = "portal:notifications"
	}
	return &QueueNotifier{client: client, key: key, clock: clk}
}

func (n *QueueNotifier) Notify(ctx context.Context, msg entities.Notification) error {
	payload, err := json.Marshal(QueueMessage{
		ID:           uuid.NewString(),
		EnqueuedAt:   n.clock.Now().Format("2006-01-02T15:04:05.000Z07:00"),
		Notification: msg,
	})
	if err != nil {
		return err
	}
	if err := n.client.LPush(ctx, n.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

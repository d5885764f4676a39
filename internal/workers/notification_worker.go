package workers

import (
	"context"
	"fmt"
	"time"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/services"

	"golang.org/x/sync/errgroup"
)

const broadcastConsumerGroup = "notification-workers"

// NotificationWorker drains the broadcast stream and materializes each job
// into per-user notification rows. Several consumers may run in parallel:
// the consumer group hands each message to exactly one of them.
type NotificationWorker struct {
	workerID      string
	queue         *common.RedisQueueService
	notifications *services.NotificationService
}

func NewNotificationWorker(workerID string, queue *common.RedisQueueService, notifications *services.NotificationService) *NotificationWorker {
	return &NotificationWorker{
		workerID:      workerID,
		queue:         queue,
		notifications: notifications,
	}
}

// Start launches numWorkers consumers and blocks until the context ends or
// a consumer fails hard.
func (w *NotificationWorker) Start(ctx context.Context, numWorkers int) error {
	if err := w.queue.CreateConsumerGroup(ctx, broadcastConsumerGroup); err != nil {
		return fmt.Errorf("notification worker: %w", err)
	}

	logging.Info("Notification workers starting", "count", numWorkers)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		consumerName := fmt.Sprintf("%s-%d", w.workerID, i)
		g.Go(func() error {
			return w.consume(ctx, consumerName)
		})
	}

	return g.Wait()
}

func (w *NotificationWorker) consume(ctx context.Context, consumerName string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		item, messageID, err := w.queue.DequeueBroadcast(ctx, broadcastConsumerGroup, consumerName, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.Warn("Broadcast dequeue failed", "consumer", consumerName, "error", err)
			time.Sleep(2 * time.Second)
			continue
		}
		if item == nil {
			continue
		}

		if err := w.notifications.DeliverBroadcast(ctx, item); err != nil {
			// Leave the message unacked: the group redelivers it later.
			logging.Error("Broadcast delivery failed", "consumer", consumerName, "message_id", messageID, "error", err)
			continue
		}

		if err := w.queue.AckBroadcast(ctx, broadcastConsumerGroup, messageID); err != nil {
			logging.Warn("Broadcast ack failed", "message_id", messageID, "error", err)
		}
	}
}

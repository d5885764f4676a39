package services

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

// BroadcastQueue is the outbound side of the notification fan-out queue.
type BroadcastQueue interface {
	EnqueueBroadcast(ctx context.Context, item *common.BroadcastItem) error
}

// NotificationService creates in-app notifications. Single-user deliveries
// are written directly; broadcasts go through the Redis queue so the HTTP
// request does not pay for the fan-out.
type NotificationService struct {
	notifRepo *repositories.NotificationRepository
	userRepo  *repositories.UserRepository
	queue     BroadcastQueue
	metrics   *metrics.MetricsRegistry
}

func NewNotificationService(
	notifRepo *repositories.NotificationRepository,
	userRepo *repositories.UserRepository,
	queue BroadcastQueue,
	reg *metrics.MetricsRegistry,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		queue:     queue,
		metrics:   reg,
	}
}

// Notify writes one notification for one user
func (s *NotificationService) Notify(ctx context.Context, userID, nType, title, message string, link, icon *string) error {
	notification := gormModels.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
		Link:    link,
		Icon:    icon,
	}

	if err := s.notifRepo.Create(ctx, &notification); err != nil {
		return fmt.Errorf("notify user %s: %w", userID, err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsSentTotal.WithLabelValues(nType).Inc()
	}

	return nil
}

// Broadcast enqueues a fan-out to every user. The worker picks it up.
func (s *NotificationService) Broadcast(ctx context.Context, item *common.BroadcastItem) error {
	if s.queue == nil {
		// No queue configured (tests, degraded mode): deliver inline.
		return s.DeliverBroadcast(ctx, item)
	}

	if err := s.queue.EnqueueBroadcast(ctx, item); err != nil {
		logging.Warn("Broadcast enqueue failed, delivering inline", "error", err)
		return s.DeliverBroadcast(ctx, item)
	}

	return nil
}

// DeliverBroadcast materializes a broadcast into per-user rows. Called by the
// queue worker, or inline when no queue is available.
func (s *NotificationService) DeliverBroadcast(ctx context.Context, item *common.BroadcastItem) error {
	ids, err := s.userRepo.ListAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("deliver broadcast: %w", err)
	}

	excluded := make(map[string]bool, len(item.ExcludeUserIDs))
	for _, id := range item.ExcludeUserIDs {
		excluded[id] = true
	}

	notifications := make([]gormModels.Notification, 0, len(ids))
	for _, id := range ids {
		if excluded[id] {
			continue
		}
		notifications = append(notifications, gormModels.Notification{
			UserID:  id,
			Type:    item.Type,
			Title:   item.Title,
			Message: item.Message,
			Link:    item.Link,
			Icon:    item.Icon,
		})
	}

	if err := s.notifRepo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("deliver broadcast: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsSentTotal.WithLabelValues(item.Type).Add(float64(len(notifications)))
	}

	logging.Info("Broadcast delivered", "type", item.Type, "recipients", len(notifications))
	return nil
}

// ListForUser returns the polling payload: unread count plus recent items
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) (*dtos.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	notifications, err := s.notifRepo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dtos.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dtos.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Icon:      n.Icon,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return &dtos.NotificationListResponse{
		UnreadCount:   unread,
		Notifications: items,
	}, nil
}

// MarkRead marks one notification read, scoped to the owner
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	return s.notifRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks all of the user's notifications read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, userID)
}

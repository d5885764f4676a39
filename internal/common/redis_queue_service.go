package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BroadcastStream is the Redis stream carrying fan-out notification jobs.
const BroadcastStream = "notifications:broadcast"

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
}

// NewRedisQueueService creates a new Redis queue service
func NewRedisQueueService(client *redis.Client) *RedisQueueService {
	return &RedisQueueService{
		client: client,
	}
}

// BroadcastItem is one pending fan-out: a notification to be created for
// every user except those excluded.
type BroadcastItem struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	Link           *string  `json:"link,omitempty"`
	Icon           *string  `json:"icon,omitempty"`
	ExcludeUserIDs []string `json:"exclude_user_ids,omitempty"`
}

// EnqueueBroadcast adds a broadcast job to the stream.
func (s *RedisQueueService) EnqueueBroadcast(ctx context.Context, item *BroadcastItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast item: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: BroadcastStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// DequeueBroadcast reads the next broadcast job using a consumer group.
// Returns (nil, "", nil) on timeout.
func (s *RedisQueueService) DequeueBroadcast(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*BroadcastItem, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{BroadcastStream, ">"}, // ">" means new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, "", fmt.Errorf("invalid message format: data field missing")
	}

	var item BroadcastItem
	if err := json.Unmarshal([]byte(dataStr), &item); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal broadcast item: %w", err)
	}

	return &item, msg.ID, nil
}

// AckBroadcast acknowledges successful processing of a message
func (s *RedisQueueService) AckBroadcast(ctx context.Context, groupName, messageID string) error {
	return s.client.XAck(ctx, BroadcastStream, groupName, messageID).Err()
}

// CreateConsumerGroup creates a consumer group for the stream if it doesn't exist
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context, groupName string) error {
	err := s.client.XGroupCreateMkStream(ctx, BroadcastStream, groupName, "0").Err()
	if err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists" {
		return nil
	}
	return err
}

// QueueLength returns the number of messages in the stream
func (s *RedisQueueService) QueueLength(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, BroadcastStream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

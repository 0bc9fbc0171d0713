package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ReviewEventsChannel carries committed review actions between instances.
const ReviewEventsChannel = "review-events"

const publishTimeout = 2 * time.Second

func encodeNotification(notification model.ReviewNotification) ([]byte, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return nil, fmt.Errorf("encode review notification: %w", err)
	}
	return payload, nil
}

func decodeNotification(payload string) (model.ReviewNotification, error) {
	var notification model.ReviewNotification
	if err := json.Unmarshal([]byte(payload), &notification); err != nil {
		return notification, fmt.Errorf("decode review notification: %w", err)
	}
	return notification, nil
}

// NotifyReview publishes the notification. Failures are logged only; the
// review itself is already committed.
func (c *Client) NotifyReview(notification model.ReviewNotification) {
	payload, err := encodeNotification(notification)
	if err != nil {
		logger.Error("Failed to encode review notification", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := c.rdb.Publish(ctx, ReviewEventsChannel, payload).Err(); err != nil {
		logger.Error("Failed to publish review notification", err, map[string]interface{}{
			"registration_id": notification.RegistrationID,
			"event_id":        notification.EventID,
		})
	}
}

// SubscribeReviews delivers every notification published on the review
// channel to handle until ctx is cancelled.
func (c *Client) SubscribeReviews(ctx context.Context, handle func(model.ReviewNotification)) error {
	sub := c.rdb.Subscribe(ctx, ReviewEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", ReviewEventsChannel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				dispatch(msg, handle)
			}
		}
	}()

	logger.Info("Subscribed to review events", map[string]interface{}{
		"channel": ReviewEventsChannel,
	})
	return nil
}

func dispatch(msg *redis.Message, handle func(model.ReviewNotification)) {
	notification, err := decodeNotification(msg.Payload)
	if err != nil {
		logger.Warn("Dropping malformed review notification", map[string]interface{}{
			"channel": msg.Channel,
			"error":   err.Error(),
		})
		return
	}
	handle(notification)
}

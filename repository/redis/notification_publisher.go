package redis

import (
	"context"
	"encoding/json"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/consistency/domain"
)

// NotificationPublisher fans notifications out on a per-user Redis channel
// ("<channel>:<user id>") for any listening frontend.
type NotificationPublisher struct {
	client  *redislib.Client
	channel string
}

func NewNotificationPublisher(client *redislib.Client, channel string) *NotificationPublisher {
	if channel == "" {
		channel = "notifications"
	}
	return &NotificationPublisher{client: client, channel: channel}
}

// Publish sends the notification. Zero subscribers is not an error.
func (p *NotificationPublisher) Publish(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.Channel(n.UserID), payload).Err()
}

// Channel returns the channel notifications for userID are published on.
func (p *NotificationPublisher) Channel(userID string) string {
	return fmt.Sprintf("%s:%s", p.channel, userID)
}

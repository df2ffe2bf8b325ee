package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/notification"
)

// NotificationConsumer replays notifications published by other instances
// into the local feed so every instance serves a complete view.
type NotificationConsumer struct {
	consumer *Consumer
	feed     *MemoryFeed
	source   string
	logger   *zap.Logger
}

// NewNotificationConsumer creates a consumer for the notifications topic.
// Events originating from source itself are skipped: the local publish path
// already delivered them.
func NewNotificationConsumer(
	brokers []string,
	groupID string,
	feed *MemoryFeed,
	source string,
	logger *zap.Logger,
) *NotificationConsumer {
	consumer := NewConsumer(brokers, groupID, TopicNotifications, logger)
	return &NotificationConsumer{
		consumer: consumer,
		feed:     feed,
		source:   source,
		logger:   logger,
	}
}

// Start begins consuming. This blocks until the context is cancelled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotificationConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from notifications topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if cloudEvent.Source == c.source {
		return nil
	}

	switch cloudEvent.Type {
	case TypeHospitalNotified:
		return c.handleHospitalNotified(cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled notification event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotificationConsumer) handleHospitalNotified(cloudEvent CloudEvent) error {
	var n notification.Notification
	if err := cloudEvent.ParseData(&n); err != nil {
		c.logger.Error("failed to parse hospital notification data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("replaying hospital notification from bus",
		zap.String("notification_id", n.ID),
		zap.String("hospital_id", n.HospitalID),
	)
	return c.feed.Publish(&n)
}

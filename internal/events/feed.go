package events

import (
	"context"
	"sync"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/notification"
)

// MemoryFeed is an in-process notification.Channel. New notifications are
// prepended so the feed reads newest-first, and subscribers are invoked
// synchronously on publish.
type MemoryFeed struct {
	mu          sync.RWMutex
	items       []*notification.Notification
	subscribers map[int]func(*notification.Notification)
	nextSubID   int
}

// NewMemoryFeed creates an empty feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		subscribers: make(map[int]func(*notification.Notification)),
	}
}

// Publish prepends n to the feed and notifies every subscriber.
func (f *MemoryFeed) Publish(n *notification.Notification) error {
	if n == nil {
		return apperr.NewValidationError("notification is required")
	}

	f.mu.Lock()
	f.items = append([]*notification.Notification{n}, f.items...)
	subs := make([]func(*notification.Notification), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return nil
}

// Feed returns notifications newest-first. A non-empty hospitalID filters
// the feed to that hospital. Entries are copied under the lock so readers
// never observe a concurrent MarkSeen write.
func (f *MemoryFeed) Feed(hospitalID string) []*notification.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]*notification.Notification, 0, len(f.items))
	for _, n := range f.items {
		if hospitalID != "" && n.HospitalID != hospitalID {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}
	return out
}

// Subscribe registers fn for future notifications and returns a removal
// function.
func (f *MemoryFeed) Subscribe(fn func(*notification.Notification)) func() {
	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

// MarkSeen flags the notification with the given id as acknowledged.
func (f *MemoryFeed) MarkSeen(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.items {
		if n.ID == id {
			n.Seen = true
			return nil
		}
	}
	return apperr.NewNotFoundError("notification", id)
}

// KafkaChannel is a notification.Channel that mirrors every publish onto a
// Kafka topic while serving reads from a local feed. Publishing to Kafka is
// best effort: a broker outage never blocks the local alert path.
type KafkaChannel struct {
	feed     *MemoryFeed
	producer *Producer
}

// NewKafkaChannel wraps feed with a Kafka producer.
func NewKafkaChannel(feed *MemoryFeed, producer *Producer) *KafkaChannel {
	return &KafkaChannel{feed: feed, producer: producer}
}

// Publish delivers n locally, then mirrors it to the bus.
func (c *KafkaChannel) Publish(n *notification.Notification) error {
	if err := c.feed.Publish(n); err != nil {
		return err
	}
	return c.producer.Publish(context.Background(), TypeHospitalNotified, n.HospitalID, n)
}

// Feed returns notifications newest-first from the local feed.
func (c *KafkaChannel) Feed(hospitalID string) []*notification.Notification {
	return c.feed.Feed(hospitalID)
}

// Subscribe registers fn on the local feed.
func (c *KafkaChannel) Subscribe(fn func(*notification.Notification)) func() {
	return c.feed.Subscribe(fn)
}

// MarkSeen flags a local feed entry as acknowledged.
func (c *KafkaChannel) MarkSeen(id string) error {
	return c.feed.MarkSeen(id)
}

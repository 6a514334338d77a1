package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Broker fans messages out to live subscribers. Delivery is at-least-once
// for connected subscribers and best-effort overall: a subscriber that
// connects after a publish does not see it.
type Broker interface {
	// Publish sends a payload to every current subscriber of the channel
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a message channel and a cancel function. The
	// message channel is closed when cancel is called or the context ends.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// TicketChannel returns the channel name carrying a ticket's messages
func TicketChannel(ticketID uuid.UUID) string {
	return "ticket:" + ticketID.String() + ":messages"
}

// RedisBroker implements Broker over Redis pub/sub, so messages reach
// subscribers connected to any instance.
type RedisBroker struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBroker creates a broker on an existing Redis client
func NewRedisBroker(client *redis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

// Publish sends a payload over Redis pub/sub
func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe opens a Redis subscription and pumps messages into a channel
func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := b.client.Subscribe(ctx, channel)

	// Confirm the subscription before handing it out
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		src := sub.Channel()
		for {
			select {
			case msg, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					// Slow subscriber, drop rather than block the pump
					b.logger.Warn("dropping realtime message for slow subscriber",
						zap.String("channel", channel))
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	return out, cancel, nil
}

var _ Broker = (*RedisBroker)(nil)

// InMemoryBroker implements Broker for tests and single-instance
// deployments without Redis.
type InMemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan []byte
	next int
}

// NewInMemoryBroker creates a new in-memory broker
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{subs: make(map[string]map[int]chan []byte)}
}

// Publish delivers to all current subscribers of the channel
func (b *InMemoryBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
			// Slow subscriber, drop
		}
	}
	return nil
}

// Subscribe registers a new subscriber channel
func (b *InMemoryBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]chan []byte)
	}
	id := b.next
	b.next++
	ch := make(chan []byte, 16)
	b.subs[channel][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[channel], id)
			close(ch)
		})
	}

	return ch, cancel, nil
}

var _ Broker = (*InMemoryBroker)(nil)

package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketChannel(t *testing.T) {
	id := uuid.MustParse("3fb1f7f2-46c5-4e35-a4e5-0cfb126b3ecb")
	assert.Equal(t, "ticket:3fb1f7f2-46c5-4e35-a4e5-0cfb126b3ecb:messages", TicketChannel(id))
}

func TestInMemoryBrokerDelivers(t *testing.T) {
	b := NewInMemoryBroker()
	ctx := context.Background()

	ch, cancel, err := b.Subscribe(ctx, "ticket:1:messages")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, b.Publish(ctx, "ticket:1:messages", []byte("hello")))

	select {
	case msg := <-ch:
		assert.Equal(t, "hello", string(msg))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestInMemoryBrokerChannelIsolation(t *testing.T) {
	b := NewInMemoryBroker()
	ctx := context.Background()

	ch, cancel, err := b.Subscribe(ctx, "ticket:1:messages")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, b.Publish(ctx, "ticket:2:messages", []byte("other")))

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInMemoryBrokerMultipleSubscribers(t *testing.T) {
	b := NewInMemoryBroker()
	ctx := context.Background()

	ch1, cancel1, err := b.Subscribe(ctx, "c")
	require.NoError(t, err)
	defer cancel1()
	ch2, cancel2, err := b.Subscribe(ctx, "c")
	require.NoError(t, err)
	defer cancel2()

	require.NoError(t, b.Publish(ctx, "c", []byte("fanout")))

	for _, ch := range []<-chan []byte{ch1, ch2} {
		select {
		case msg := <-ch:
			assert.Equal(t, "fanout", string(msg))
		case <-time.After(time.Second):
			t.Fatal("message not delivered to all subscribers")
		}
	}
}

func TestInMemoryBrokerCancel(t *testing.T) {
	b := NewInMemoryBroker()
	ctx := context.Background()

	ch, cancel, err := b.Subscribe(ctx, "c")
	require.NoError(t, err)

	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic
	require.NoError(t, b.Publish(ctx, "c", []byte("late")))
}

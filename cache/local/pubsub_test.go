package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvOne(t *testing.T, ch <-chan *LocalMessage) *LocalMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "chat.global")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "chat.global", "hello"))
	msg := recvOne(t, ch)
	assert.Equal(t, "chat.global", msg.Channel)
	assert.Equal(t, "hello", msg.Payload)
}

func TestSubscribeMultipleChannels(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "a", "b")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "b", "via-b"))
	assert.Equal(t, "via-b", recvOne(t, ch).Payload)

	require.NoError(t, ps.Publish(ctx, "a", "via-a"))
	assert.Equal(t, "via-a", recvOne(t, ch).Payload)
}

func TestCancelStopsDelivery(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "events")
	require.NoError(t, err)
	cancel()

	require.NoError(t, ps.Publish(ctx, "events", "late"))
	// The channel was closed by cancel; nothing buffered.
	msg, open := <-ch
	assert.Nil(t, msg)
	assert.False(t, open)
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	ps := NewPubSub(1)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "busy")
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = ps.Publish(ctx, "busy", "x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
	assert.Equal(t, "x", recvOne(t, ch).Payload)
}

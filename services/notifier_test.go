package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierDeliversToSubscribers(t *testing.T) {
	n := NewNotifier()
	events, cancel := n.Subscribe()
	defer cancel()

	n.Emit(EventPantryOrderCreated, map[string]any{"orderId": 7})

	select {
	case ev := <-events:
		assert.Equal(t, EventPantryOrderCreated, ev.Name)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestNotifierCancelStopsDelivery(t *testing.T) {
	n := NewNotifier()
	events, cancel := n.Subscribe()
	cancel()

	n.Emit(EventKitchenOrderCreated, nil)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event after cancel: %v", ev.Name)
	default:
	}
}

func TestNotifierDropsWhenSubscriberFull(t *testing.T) {
	n := NewNotifier()
	events, cancel := n.Subscribe()
	defer cancel()

	// Buffer is 16; the extras must be dropped without blocking Emit.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			n.Emit(EventPantryOrderUpdated, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}
	assert.Len(t, events, 16)
}

func TestNotifierCloseDisconnectsSubscribers(t *testing.T) {
	n := NewNotifier()
	events, _ := n.Subscribe()

	n.Close()

	_, ok := <-events
	require.False(t, ok, "channel should be closed")

	// Emitting after close must not panic.
	n.Emit(EventPantryOrderCreated, nil)
}

package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Event names emitted by the transfer services.
const (
	EventPantryOrderCreated  = "pantry-order-created"
	EventPantryOrderUpdated  = "pantry-order-updated"
	EventKitchenOrderCreated = "kitchen-order-created"
)

// Event is a named real-time notification carrying the mutated entity.
type Event struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Notifier fans events out to subscribers. Delivery is fire-and-forget: a
// subscriber that cannot keep up has the event dropped rather than blocking
// the emitting request.
type Notifier struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan Event]struct{})}
}

// Emit publishes an event to all current subscribers without blocking.
func (n *Notifier) Emit(name string, payload any) {
	ev := Event{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: payload,
		At:      time.Now(),
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("event", name).Msg("notifier: slow subscriber, event dropped")
		}
	}
}

// Subscribe registers a listener and returns its channel plus a cancel func.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.subs, ch)
		n.mu.Unlock()
	}
	return ch, cancel
}

// Close disconnects every subscriber. Used on shutdown.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		close(ch)
		delete(n.subs, ch)
	}
}

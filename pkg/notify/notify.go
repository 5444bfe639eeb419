// Package notify broadcasts system-wide change notifications to
// interested subscribers inside the process.
package notify

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// KindColorSettingsChanged announces that the active color theme
// settings were rewritten. The notification carries no payload; receivers
// re-read the settings store.
const KindColorSettingsChanged = "color-settings-changed"

// Notification is a broadcast message.
type Notification struct {
	Kind string
}

// Handler receives published notifications.
type Handler func(Notification)

// Broadcaster fans a notification out to every subscriber. Delivery is
// synchronous and best-effort: a panicking handler is logged and skipped,
// never allowed to break the publisher or other subscribers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]Handler
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]Handler)}
}

// Subscribe registers a handler and returns its subscription id.
func (b *Broadcaster) Subscribe(h Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subs[id] = h
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Publish delivers the notification to all current subscribers.
func (b *Broadcaster) Publish(n Notification) {
	// Copy handlers so delivery happens without holding the lock;
	// handlers may themselves subscribe or unsubscribe.
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, n)
	}
}

func deliver(h Handler, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Notification handler panicked", "kind", n.Kind, "panic", r)
		}
	}()
	h(n)
}

// Package bus provides the in-process realtime event bus. Instances are
// constructed and injected explicitly; there is no package-level bus.
package bus

import (
	"sync"

	"guardhq/internal/realtime/models"
)

// Handler receives events. Handlers run synchronously on the emitter's
// goroutine; long work belongs on the subscriber's own goroutine.
type Handler func(event models.RealtimeEvent)

type subscriber struct {
	token   uint64
	handler Handler
}

// Bus fans events out to subscribers. Exact-type subscribers are invoked
// before wildcard subscribers, each group in subscription order, and every
// subscriber observes events in Emit order.
type Bus struct {
	mu        sync.RWMutex
	nextToken uint64
	subs      map[string][]subscriber
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers a handler for an event type, or for every event when
// eventType is models.EventAny. The returned function removes exactly this
// handler; other subscriptions for the same type stay live. Unsubscribing
// twice is harmless.
func (b *Bus) Subscribe(eventType string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextToken++
	token := b.nextToken
	b.subs[eventType] = append(b.subs[eventType], subscriber{token: token, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[eventType]
		for i, sub := range subs {
			if sub.token == token {
				b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers an event synchronously: first to subscribers of the exact
// type, then to wildcard subscribers. A handler subscribed to both sees
// the event twice.
func (b *Bus) Emit(event models.RealtimeEvent) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event.Type])+len(b.subs[models.EventAny]))
	for _, sub := range b.subs[event.Type] {
		handlers = append(handlers, sub.handler)
	}
	if event.Type != models.EventAny {
		for _, sub := range b.subs[models.EventAny] {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// SubscriberCount reports the live subscriptions for an event type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}

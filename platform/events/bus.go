package events

import (
	"context"
	"sync"

	"crm_backend/platform/logger"
)

// InMemoryBus is an in-process implementation of Bus. Handlers registered
// for an event name receive every published event with that name.
// Asynchronous handlers run on their own goroutine; a panic or error in
// one handler never affects the publisher or other handlers.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	for _, h := range b.handlersFor(event.EventName()) {
		handler := h
		go func() {
			defer b.recoverPanic(event.EventName())
			if err := handler.Handle(context.WithoutCancel(ctx), event); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}()
	}
}

// PublishSync dispatches the event and waits for all handlers.
// The first handler error is returned; remaining handlers still run.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var firstErr error
	for _, handler := range b.handlersFor(event.EventName()) {
		if err := handler.Handle(ctx, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}
	}
	return firstErr
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	out := make([]Handler, len(registered))
	copy(out, registered)
	return out
}

func (b *InMemoryBus) recoverPanic(eventName string) {
	if r := recover(); r != nil && b.log != nil {
		b.log.Error("event handler panicked", "event", eventName, "panic", r)
	}
}

var _ Bus = (*InMemoryBus)(nil)

package event

import (
	"context"
	"sync"

	"gigstage/pkg/logger"
)

// Handler reacts to a published event. Handlers run on the bus
// goroutine, so they must not block for long.
type Handler func(ctx context.Context, e Event)

// Bus is the in-process domain event bus. Usecases publish, the
// notification dispatcher and websocket layer subscribe.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	queue    chan Event
	done     chan struct{}
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
		queue:    make(chan Event, 256),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for one event type. Must be called
// before Start.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type seen on the bus.
func (b *Bus) SubscribeAll(h Handler) {
	b.Subscribe(typeWildcard, h)
}

const typeWildcard Type = "*"

// Publish enqueues an event for asynchronous delivery. If the queue is
// full the event is dropped with a warning rather than blocking the
// publishing request.
func (b *Bus) Publish(e Event) {
	select {
	case b.queue <- e:
	default:
		logger.Warn("Event bus queue full, dropping %s", e.EventType())
	}
}

// Start runs the delivery loop until ctx is cancelled.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-b.queue:
				b.dispatch(ctx, e)
			}
		}
	}()
	logger.Info("Event bus started")
}

// Wait blocks until the delivery loop has exited.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := append([]Handler{}, b.handlers[e.EventType()]...)
	handlers = append(handlers, b.handlers[typeWildcard]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event handler panic on %s: %v", e.EventType(), r)
				}
			}()
			h(ctx, e)
		}()
	}
}

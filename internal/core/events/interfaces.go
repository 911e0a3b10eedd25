package events

import "time"

// Bus is a thread-safe, in-process pub/sub bus for composition changes.
//
// Delivery is synchronous: Publish calls every matching handler in the
// caller goroutine and joins their errors. Handlers subscribed with
// SubscribeAll receive every event type.
type Bus interface {
	Publisher
	Subscribe(eventType string, handler Handler) (Subscription, error)
	SubscribeAll(handler Handler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is a no-op.
	Unsubscribe(Subscription) error
	// PublishAsync publishes in a separate goroutine. The returned channel
	// receives the joined handler error (or nil) and is then closed.
	PublishAsync(event Event) <-chan error
	Metrics() Metrics
}

// Publisher is the write side of the bus handed to the composition.
type Publisher interface {
	Publish(event Event) error
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// Handler is invoked once per delivered event.
	Handler func(event Event) error
	// Filter decides whether an event reaches a handler.
	Filter func(event Event) bool
)

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Metrics is a snapshot of delivery counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

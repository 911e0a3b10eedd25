package events

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// all is the routing key of SubscribeAll handlers.
const all = "*"

type simpleEvent struct {
	typ    string
	source string
	ts     time.Time
	data   any
}

func (e simpleEvent) Type() string         { return e.typ }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a plain Event for callers without their own event types.
func NewEvent(typ, source string, data any) Event {
	return simpleEvent{typ: typ, source: source, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   Handler
	active    atomic.Bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.CompareAndSwap(true, false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: eventType -> subID -> subscription
	handlers map[string]map[string]*subscription

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
}

// New creates an empty in-memory bus.
func New() Bus {
	return &inMemoryBus{handlers: make(map[string]map[string]*subscription)}
}

func (b *inMemoryBus) Publish(event Event) error {
	if event == nil {
		return nil
	}

	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.handlers[event.Type()])+len(b.handlers[all]))
	for _, s := range b.handlers[event.Type()] {
		subs = append(subs, s)
	}
	for _, s := range b.handlers[all] {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	b.published.Add(1)

	var errs error
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		b.delivered.Add(1)
		if err := s.handler(event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		b.errors.Add(1)
	}
	return errs
}

func (b *inMemoryBus) PublishAsync(event Event) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- b.Publish(event)
		close(ch)
	}()
	return ch
}

func (b *inMemoryBus) Subscribe(eventType string, handler Handler) (Subscription, error) {
	if eventType == "" {
		return nil, ErrEmptyEventType
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]*subscription)
	}
	id := uuid.NewString()
	s := &subscription{id: id, eventType: eventType, handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if m, ok := b.handlers[eventType]; ok {
			delete(m, id)
			if len(m) == 0 {
				delete(b.handlers, eventType)
			}
		}
	}
	b.handlers[eventType][id] = s
	return s, nil
}

func (b *inMemoryBus) SubscribeAll(handler Handler) (Subscription, error) {
	return b.Subscribe(all, handler)
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) Metrics() Metrics {
	b.mu.RLock()
	var active uint64
	for _, m := range b.handlers {
		active += uint64(len(m))
	}
	b.mu.RUnlock()

	return Metrics{
		Published:         b.published.Load(),
		DeliveredHandlers: b.delivered.Load(),
		Errors:            b.errors.Load(),
		SubscribersActive: active,
	}
}

// Filtered wraps a handler so it only sees events accepted by every filter.
func Filtered(handler Handler, filters ...Filter) Handler {
	return func(event Event) error {
		for _, f := range filters {
			if !f(event) {
				return nil
			}
		}
		return handler(event)
	}
}

// OfKind accepts change events touching the given collection.
func OfKind(kind string) Filter {
	return func(event Event) bool {
		c, ok := ChangeOf(event)
		if !ok {
			return false
		}
		for _, k := range c.Kinds {
			if string(k) == kind {
				return true
			}
		}
		return false
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }

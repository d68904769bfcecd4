package ecs

import (
	"fmt"
	"log"
	"slices"
	"time"
)

// EventKind tags one category of event.
type EventKind string

// Event is a payload published on the bus. Each concrete event type reports a
// fixed kind; implementations should use value receivers so the kind can be
// read from the zero value.
type Event interface {
	EventKind() EventKind
}

// Envelope is what handlers receive: the event plus emission metadata.
// Every handler of one emission gets the same envelope.
type Envelope struct {
	Kind      EventKind
	EmittedAt time.Time
	Event     Event
}

// Handler reacts to an emitted event.
type Handler func(Envelope)

// Subscription identifies one registered handler so it can be removed later.
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler Handler
}

// EventBus is a synchronous publish/subscribe channel keyed by event kind.
// Handlers run on the emitter's call stack in subscription order. A handler may
// emit again; the nested emission completes before the outer one continues.
type EventBus struct {
	subscribers map[EventKind][]subscriber
	nextId      Subscription
	clock       func() time.Time
	logger      *log.Logger
	failures    int64
	emitted     int64
}

// NewEventBus creates an event bus stamping envelopes with clock and reporting
// handler failures to logger.
func NewEventBus(clock func() time.Time, logger *log.Logger) *EventBus {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = defaultLogger()
	}
	return &EventBus{
		subscribers: make(map[EventKind][]subscriber),
		clock:       clock,
		logger:      logger,
	}
}

// Subscribe appends handler to the list for kind.
func (b *EventBus) Subscribe(kind EventKind, handler Handler) Subscription {
	b.nextId++
	id := b.nextId
	b.subscribers[kind] = append(b.subscribers[kind], subscriber{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler. Removing one that is not subscribed is a no-op
// and returns false.
func (b *EventBus) Unsubscribe(kind EventKind, sub Subscription) bool {
	subs := b.subscribers[kind]
	idx := slices.IndexFunc(subs, func(s subscriber) bool { return s.id == sub })
	if idx < 0 {
		return false
	}

	// Build a new slice so in-flight emissions keep iterating their snapshot.
	remaining := make([]subscriber, 0, len(subs)-1)
	remaining = append(remaining, subs[:idx]...)
	remaining = append(remaining, subs[idx+1:]...)
	if len(remaining) == 0 {
		delete(b.subscribers, kind)
	} else {
		b.subscribers[kind] = remaining
	}
	return true
}

// Emit delivers ev to every handler subscribed to its kind at the moment of the
// call. A handler that panics is logged and skipped; the rest still run.
func (b *EventBus) Emit(ev Event) {
	if ev == nil {
		return
	}
	b.emitted++

	kind := ev.EventKind()
	subs := b.subscribers[kind]
	if len(subs) == 0 {
		return
	}
	snapshot := slices.Clone(subs)

	env := Envelope{
		Kind:      kind,
		EmittedAt: b.clock(),
		Event:     ev,
	}
	for _, s := range snapshot {
		b.dispatch(s, env)
	}
}

func (b *EventBus) dispatch(s subscriber, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			b.failures++
			b.logger.Printf("event handler %d for %q panicked: %v", s.id, env.Kind, r)
		}
	}()
	s.handler(env)
}

// HandlerCount returns the number of handlers subscribed to kind.
func (b *EventBus) HandlerCount(kind EventKind) int {
	return len(b.subscribers[kind])
}

// Failures returns how many handler invocations have panicked.
func (b *EventBus) Failures() int64 {
	return b.failures
}

// Emitted returns how many events have been emitted.
func (b *EventBus) Emitted() int64 {
	return b.emitted
}

// On subscribes a typed handler for event type T. The kind is taken from T's
// zero value.
func On[T Event](b *EventBus, handler func(T, Envelope)) Subscription {
	var zero T
	return b.Subscribe(zero.EventKind(), func(env Envelope) {
		typed, ok := env.Event.(T)
		if !ok {
			panic(fmt.Sprintf("event of kind %q has type %T", env.Kind, env.Event))
		}
		handler(typed, env)
	})
}

// Package bus implements synchronous typed fan-out of lifecycle events and
// log entries.
//
// The bus has no queue, no backpressure and no persistence: Publish invokes
// every subscriber for the event's kind in registration order before
// returning. A subscriber that panics is recovered and logged, and delivery
// continues to the remaining subscribers.
//
// Like the kernel that owns it, the bus follows a single-writer discipline:
// all calls happen from the caller's goroutine with no internal locking.
package bus

import (
	"log/slog"

	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/logstore"
)

// Handler receives lifecycle events for one subscribed kind.
type Handler func(event.Event)

// LogHandler receives every log entry the kernel persists.
type LogHandler func(logstore.Entry)

// subscription wraps a handler so unsubscribe can match by identity
// (func values are not comparable).
type subscription struct {
	handler Handler
}

type logSubscription struct {
	handler LogHandler
}

// Bus is the typed pub/sub fan-out.
type Bus struct {
	handlers    map[event.Kind][]*subscription
	logHandlers []*logSubscription
	logger      *slog.Logger
}

// New creates an empty bus. Recovered subscriber faults are reported through
// logger; pass nil to use slog.Default().
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[event.Kind][]*subscription),
		logger:   logger,
	}
}

// Subscribe registers h for events of the given kind and returns an
// unsubscribe closure. The closure is idempotent and remains safe to call
// after ClearAll.
func (b *Bus) Subscribe(kind event.Kind, h Handler) func() {
	sub := &subscription{handler: h}
	b.handlers[kind] = append(b.handlers[kind], sub)

	done := false
	return func() {
		if done {
			return
		}
		done = true
		b.remove(kind, sub)
	}
}

// SubscribeLogs registers h for every persisted log entry and returns an
// idempotent unsubscribe closure.
func (b *Bus) SubscribeLogs(h LogHandler) func() {
	sub := &logSubscription{handler: h}
	b.logHandlers = append(b.logHandlers, sub)

	done := false
	return func() {
		if done {
			return
		}
		done = true
		for i, s := range b.logHandlers {
			if s == sub {
				b.logHandlers = append(b.logHandlers[:i], b.logHandlers[i+1:]...)
				break
			}
		}
	}
}

// remove deletes sub from its kind bucket, dropping the bucket entirely when
// it empties. An index bucket is never left empty.
func (b *Bus) remove(kind event.Kind, sub *subscription) {
	subs := b.handlers[kind]
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(b.handlers, kind)
	} else {
		b.handlers[kind] = subs
	}
}

// Publish delivers ev to every subscriber of ev.Kind in registration order.
// A panicking subscriber does not prevent delivery to the rest.
func (b *Bus) Publish(ev event.Event) {
	// Snapshot: a subscriber may unsubscribe itself mid-dispatch.
	subs := b.handlers[ev.Kind]
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)

	for _, sub := range snapshot {
		b.deliver(sub, ev)
	}
}

// PublishLog delivers entry to every log subscriber in registration order
// with the same fault isolation as Publish.
func (b *Bus) PublishLog(entry logstore.Entry) {
	snapshot := make([]*logSubscription, len(b.logHandlers))
	copy(snapshot, b.logHandlers)

	for _, sub := range snapshot {
		b.deliverLog(sub, entry)
	}
}

func (b *Bus) deliver(sub *subscription, ev event.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked",
				"kind", ev.Kind,
				"component_id", ev.ComponentID,
				"panic", r,
			)
		}
	}()
	sub.handler(ev)
}

func (b *Bus) deliverLog(sub *logSubscription, entry logstore.Entry) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("log subscriber panicked",
				"entry_id", entry.ID,
				"kind", entry.Event.Kind,
				"panic", r,
			)
		}
	}()
	sub.handler(entry)
}

// SubscriberCount returns the number of subscribers for a kind.
// Used for testing and introspection.
func (b *Bus) SubscriberCount(kind event.Kind) int {
	return len(b.handlers[kind])
}

// LogSubscriberCount returns the number of log subscribers.
func (b *Bus) LogSubscriberCount() int {
	return len(b.logHandlers)
}

// ClearAll drops every subscription. Outstanding unsubscribe closures stay
// safe to call afterwards.
func (b *Bus) ClearAll() {
	b.handlers = make(map[event.Kind][]*subscription)
	b.logHandlers = nil
}

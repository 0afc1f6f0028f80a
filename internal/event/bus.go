// Package event provides the notification bus connecting the engine to its
// host. The engine publishes document change, error, and render events;
// hosts subscribe by topic. Dispatch is synchronous and in publish order,
// matching the engine's single-threaded cooperative model.
package event

import (
	"sync"
	"time"
)

// Topic names an event stream.
type Topic string

// Topics published by the engine.
const (
	TopicChange Topic = "document.change"
	TopicError  Topic = "document.error"
	TopicRender Topic = "render.lines"
)

// Event is one published notification.
type Event struct {
	Topic   Topic
	Payload any
	Time    time.Time
}

// Handler receives events for a subscription.
type Handler func(Event)

// SubscriptionID identifies a subscription for removal.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus is a topic-keyed synchronous publish/subscribe hub.
type Bus struct {
	mu     sync.Mutex
	nextID SubscriptionID
	subs   map[Topic][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers a handler for a topic and returns its id.
func (b *Bus) Subscribe(topic Topic, h Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscription{id: b.nextID, handler: h})
	return b.nextID
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subs := range b.subs {
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers an event to every handler subscribed to its topic, in
// subscription order, on the caller's goroutine.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.Unlock()

	ev := Event{Topic: topic, Payload: payload, Time: time.Now()}
	for _, s := range subs {
		s.handler(ev)
	}
}

// SubscriberCount returns the number of handlers on a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

// Package events is a named-topic publish/subscribe registry that lets storefront
// surfaces signal each other without sharing a parent.
package events

import (
	"sort"
	"sync"
)

// Well-known topics.
const (
	TopicCartOpen    = "cartOpen"
	TopicCartChanged = "cartChanged"
)

// Handler receives a published payload. Handlers run on the publisher's goroutine
// and must not panic.
type Handler func(payload interface{})

type subscription struct {
	id      uint64
	handler Handler
}

// Channel is safe for concurrent use. Create one per process and pass it to the
// components that need it.
type Channel struct {
	mu     sync.Mutex
	nextID uint64
	topics map[string][]subscription
}

func NewChannel() *Channel {
	return &Channel{topics: make(map[string][]subscription)}
}

// Subscribe registers handler for topic, creating the topic on first use. The
// returned function removes the handler; calling it more than once is a no-op.
func (ch *Channel) Subscribe(topic string, handler Handler) (unsubscribe func()) {
	ch.mu.Lock()
	ch.nextID++
	id := ch.nextID
	ch.topics[topic] = append(ch.topics[topic], subscription{id: id, handler: handler})
	ch.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { ch.remove(topic, id) })
	}
}

func (ch *Channel) remove(topic string, id uint64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	subs := ch.topics[topic]
	for i, s := range subs {
		if s.id == id {
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			// The topic entry stays even when empty.
			ch.topics[topic] = kept
			return
		}
	}
}

// Publish calls every handler currently subscribed to topic, in subscription order.
// Handlers are called without the lock held, so they may subscribe, unsubscribe or
// publish themselves.
func (ch *Channel) Publish(topic string, payload interface{}) {
	ch.mu.Lock()
	subs := ch.topics[topic]
	ch.mu.Unlock()

	for _, s := range subs {
		s.handler(payload)
	}
}

// Topics lists every topic that has ever had a subscriber, sorted.
func (ch *Channel) Topics() []string {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	names := make([]string, 0, len(ch.topics))
	for name := range ch.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ch *Channel) SubscriberCount(topic string) int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.topics[topic])
}

// Package pubsub provides the in-process event bus the engine uses to
// surface layout progress and camera state changes to the rendering
// layer. Delivery is best-effort: a subscriber that falls behind loses
// events rather than blocking the publisher.
package pubsub

import (
	"sync"
)

// Well-known topics published by the engine
const (
	TopicLayoutProgress = "layout.progress"
	TopicLayoutDone     = "layout.done"
	TopicCameraState    = "camera.state"
	TopicSnapshot       = "graph.snapshot"
)

// Bus provides publish/subscribe delivery of engine events
type Bus struct {
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	closed      bool
}

// Subscription represents one subscriber's interest in a topic
type Subscription struct {
	topic     string
	channel   chan any
	bus       *Bus
	closeOnce sync.Once
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]map[*Subscription]bool),
	}
}

// Subscribe registers interest in a topic. The returned subscription's
// channel is buffered; slow consumers drop events instead of blocking
// publishers.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic:   topic,
		channel: make(chan any, 64),
		bus:     b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.close()
		return sub
	}
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]bool)
	}
	b.subscribers[topic][sub] = true
	return sub
}

// Publish sends an event to all subscribers of a topic.
// Subscriber channels are sent to outside the lock, non-blocking.
func (b *Bus) Publish(topic string, event any) {
	b.mu.RLock()
	if b.closed || len(b.subscribers[topic]) == 0 {
		b.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(b.subscribers[topic]))
	for sub := range b.subscribers[topic] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.channel <- event:
		default:
			// Subscriber buffer full, drop
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes every subscription and stops further delivery
func (b *Bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
}

// Channel returns the subscription's event channel
func (s *Subscription) Channel() <-chan any {
	return s.channel
}

// Unsubscribe removes the subscription and closes its channel
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	if s.bus.subscribers[s.topic] != nil {
		delete(s.bus.subscribers[s.topic], s)
		if len(s.bus.subscribers[s.topic]) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}
	s.bus.mu.Unlock()

	s.close()
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}

// Package msgbus is the in-process publish/subscribe bus shared by actors and strategies.
//
// Delivery is run-to-completion: a message published from inside a handler is queued
// and delivered after the current message reached every subscriber. Subscriptions made
// from inside a handler apply from the next delivery on.
package msgbus

import (
	"sort"

	evbus "github.com/asaskevich/EventBus"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"go.uber.org/zap"
)

// Handler receives published messages.
type Handler func(msg any)

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

type envelope struct {
	topic string
	msg   any
}

// MessageBus routes messages by topic. It is not safe for concurrent use; the backtest
// engine drives it from a single goroutine.
type MessageBus struct {
	bus        evbus.Bus
	handlers   map[string][]subscription
	registered map[string]bool
	pending    []string
	queue      []envelope
	delivering bool
	nextID     SubscriptionID
	published  int
	log        *logger.Logger
}

// NewMessageBus creates an empty bus.
func NewMessageBus(log *logger.Logger) *MessageBus {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &MessageBus{
		bus:        evbus.New(),
		handlers:   make(map[string][]subscription),
		registered: make(map[string]bool),
		log:        log.Named("MessageBus"),
	}
}

// Subscribe registers a handler for a topic and returns its subscription id.
func (m *MessageBus) Subscribe(topic string, handler Handler) (SubscriptionID, error) {
	if topic == "" {
		return 0, errors.New(errors.ErrCodeSubscriptionFailed, "topic cannot be empty")
	}

	if handler == nil {
		return 0, errors.Newf(errors.ErrCodeSubscriptionFailed, "handler for topic %s cannot be nil", topic)
	}

	m.nextID++
	id := m.nextID
	m.handlers[topic] = append(m.handlers[topic], subscription{id: id, handler: handler})

	if !m.registered[topic] {
		if m.delivering {
			m.pending = append(m.pending, topic)
		} else if err := m.register(topic); err != nil {
			return 0, err
		}
	}

	m.log.Debug("Subscribed", zap.String("topic", topic), zap.Uint64("id", uint64(id)))

	return id, nil
}

// register binds a dispatcher for the topic to the underlying event bus. It must not be
// called while the event bus is delivering.
func (m *MessageBus) register(topic string) error {
	if m.registered[topic] {
		return nil
	}

	dispatch := func(msg any) {
		// snapshot so handlers added or removed during delivery apply next time
		subs := append([]subscription(nil), m.handlers[topic]...)
		for _, s := range subs {
			s.handler(msg)
		}
	}

	if err := m.bus.Subscribe(topic, dispatch); err != nil {
		return errors.Wrapf(errors.ErrCodeSubscriptionFailed, err, "failed to subscribe to %s", topic)
	}

	m.registered[topic] = true

	return nil
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (m *MessageBus) Unsubscribe(topic string, id SubscriptionID) {
	subs := m.handlers[topic]
	for i, s := range subs {
		if s.id == id {
			m.handlers[topic] = append(subs[:i:i], subs[i+1:]...)

			break
		}
	}

	if len(m.handlers[topic]) == 0 {
		delete(m.handlers, topic)
	}
}

// Publish sends a message to every subscriber of the topic, in subscription order.
func (m *MessageBus) Publish(topic string, msg any) {
	m.queue = append(m.queue, envelope{topic: topic, msg: msg})
	if m.delivering {
		return
	}

	m.delivering = true
	defer func() { m.delivering = false }()

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.published++

		if m.registered[next.topic] {
			m.bus.Publish(next.topic, next.msg)
		}

		for len(m.pending) > 0 {
			topic := m.pending[0]
			m.pending = m.pending[1:]

			if err := m.register(topic); err != nil {
				m.log.Error("Failed to register topic", zap.String("topic", topic), zap.Error(err))
			}
		}
	}
}

// HasSubscribers reports whether a topic has at least one subscriber.
func (m *MessageBus) HasSubscribers(topic string) bool {
	return len(m.handlers[topic]) > 0
}

// Topics returns the topics with subscribers, sorted.
func (m *MessageBus) Topics() []string {
	out := make([]string, 0, len(m.handlers))
	for topic := range m.handlers {
		out = append(out, topic)
	}

	sort.Strings(out)

	return out
}

// PublishedCount returns the number of messages delivered since creation.
func (m *MessageBus) PublishedCount() int {
	return m.published
}

// BarsTopic is the topic of bars of a bar type.
func BarsTopic(barType string) string {
	return "data.bars." + barType
}

// DataTopic is the topic of custom data of a data type.
func DataTopic(dataType string) string {
	return "data." + dataType
}

// SignalTopic is the topic of a named signal.
func SignalTopic(name string) string {
	return "data.signal." + name
}

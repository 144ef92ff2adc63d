package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Event[T] wraps a topic name and provides type-safe publishing.
type Event[T any] struct {
	topicName string
}

// EventInfo describes a registered event for documentation and tooling.
type EventInfo struct {
	Name        string
	Description string
}

var (
	catalogMu sync.RWMutex
	catalog   = make(map[string]EventInfo)
)

// NewEvent creates a typed event and records it in the event catalog.
// It panics if name is already registered, since events are declared at
// package level and a clash is a programming error.
func NewEvent[T any](name, description string) Event[T] {
	catalogMu.Lock()
	defer catalogMu.Unlock()

	if _, exists := catalog[name]; exists {
		panic("pubsub: event already registered: " + name)
	}
	catalog[name] = EventInfo{Name: name, Description: description}

	return Event[T]{topicName: name}
}

// Events returns every registered event sorted by name.
func Events() []EventInfo {
	catalogMu.RLock()
	defer catalogMu.RUnlock()

	out := make([]EventInfo, 0, len(catalog))
	for _, info := range catalog {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Publish sends a typed event. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		UserID:  userID,
		Payload: data,
	})
}

// Decode unmarshals msg's payload into the event's payload type.
func Decode[T any](event Event[T], msg Message) (T, error) {
	var payload T
	if msg.Topic != "" && msg.Topic != event.Name() {
		return payload, fmt.Errorf("decode: message topic %q is not %q", msg.Topic, event.Name())
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", event.Name(), err)
	}
	return payload, nil
}

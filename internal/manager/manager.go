package manager

import (
	"context"
	"sync"

	"pinterest-forwarder/internal/model"
)

// Listener handles one event occurrence.
type Listener func(ctx context.Context, event model.Event)

// Manager is the in-process event runtime: components subscribe by event
// type and ingestion surfaces emit into it.
type Manager struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{listeners: make(map[string][]Listener)}
}

// AddEventListener subscribes fn to events of the given type.
func (m *Manager) AddEventListener(eventType string, fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[eventType] = append(m.listeners[eventType], fn)
}

// Emit runs every listener subscribed to event.Type and returns how many ran.
func (m *Manager) Emit(ctx context.Context, event model.Event) int {
	m.mu.RLock()
	listeners := m.listeners[event.Type]
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, event)
	}
	return len(listeners)
}

// EventTypes lists the event types that have at least one listener.
func (m *Manager) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.listeners))
	for name := range m.listeners {
		out = append(out, name)
	}
	return out
}

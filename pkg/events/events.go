// Package events is the local event bus between a protocol component and
// the application that owns it.
//
// Requests flow from the owner into a component through a static table of
// {event name -> Handler}, registered once when the component is attached.
// Notifications flow the other way: components Emit named events which the
// owner observes with On. Payloads crossing the bus are JSON, mirroring a
// socket-style client connection.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Well known event names
const (
	// ClientErrorEvent carries a ClientError for requests that had no
	// callback to report it to.
	ClientErrorEvent = "xmpp.error.client"
)

var (
	// ErrUnknownEvent is returned when no handler is registered for an event
	ErrUnknownEvent = errors.New("events: no handler for event")
	// ErrDuplicateEvent is returned when a handler table overlaps an
	// existing registration
	ErrDuplicateEvent = errors.New("events: handler already registered")
)

// Callback is the optional continuation supplied with a request. The
// meaning of args is defined per event.
type Callback func(err error, args ...any)

// Handler serves one request event.
type Handler func(payload json.RawMessage, cb Callback)

// Listener observes one notification event.
type Listener func(payload any)

// Notifier emits notifications to the owner.
type Notifier interface {
	Emit(event string, payload any)
}

// ClientError reports a locally rejected request.
type ClientError struct {
	Type        string `json:"type"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	Request     any    `json:"request"`
}

// NewClientError creates the error the owner sees for a malformed request
func NewClientError(description string, request any) *ClientError {
	return &ClientError{
		Type:        "modify",
		Condition:   "client-error",
		Description: description,
		Request:     request,
	}
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %s", e.Condition, e.Description)
}

// Bus connects an owner with protocol components.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[string]Handler
	listeners map[string][]Listener
	logger    *slog.Logger
}

// NewBus creates an empty bus
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers:  make(map[string]Handler),
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Register installs a component's handler table. The whole table is
// rejected if any event is already taken.
func (b *Bus) Register(table map[string]Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name := range table {
		if _, exists := b.handlers[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateEvent, name)
		}
	}
	for name, h := range table {
		b.handlers[name] = h
	}
	return nil
}

// Send delivers a request from the owner. payload is marshalled to JSON
// unless it already is a json.RawMessage or []byte. cb may be nil.
func (b *Bus) Send(event string, payload any, cb Callback) error {
	b.mu.RLock()
	h, ok := b.handlers[event]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}

	var raw json.RawMessage
	switch p := payload.(type) {
	case json.RawMessage:
		raw = p
	case []byte:
		raw = p
	case nil:
		raw = json.RawMessage("{}")
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding %s payload: %w", event, err)
		}
		raw = data
	}

	b.logger.Debug("dispatching event", slog.String("event", event))
	h(raw, cb)
	return nil
}

// On subscribes l to notifications named event
func (b *Bus) On(event string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[event] = append(b.listeners[event], l)
}

// Emit notifies every listener of event. Listeners run synchronously in
// subscription order.
func (b *Bus) Emit(event string, payload any) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event]...)
	b.mu.RUnlock()

	if len(listeners) == 0 {
		b.logger.Debug("no listeners for event", slog.String("event", event))
		return
	}
	for _, l := range listeners {
		l(payload)
	}
}

package correlation

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-disco/pkg/stanza"
)

var (
	// ErrTimeout is passed to a handler whose response did not arrive in time
	ErrTimeout = errors.New("correlation: response timed out")
	// ErrClosed is passed to handlers still pending when the tracker closes,
	// and returned by Track afterwards
	ErrClosed = errors.New("correlation: tracker closed")
	// ErrDuplicateID is returned when an identifier is already pending
	ErrDuplicateID = errors.New("correlation: identifier already tracked")
	// ErrNilHandler is returned when Track is called without a handler
	ErrNilHandler = errors.New("correlation: nil handler")
)

// Handler receives the correlated response stanza, or a nil stanza and
// the reason no response will arrive.
type Handler func(resp *etree.Element, err error)

// Config holds tracker settings
type Config struct {
	// Timeout bounds how long a correlation waits. Zero waits forever.
	Timeout time.Duration
	// DuplicateWindow is how long resolved identifiers are remembered.
	DuplicateWindow time.Duration
	Logger          *slog.Logger
}

type pendingEntry struct {
	handler   Handler
	trackedAt time.Time
	timer     *time.Timer
}

// Tracker is the correlation table. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	pending   map[string]*pendingEntry
	resolved  map[string]time.Time
	lastPrune time.Time
	closed    bool

	timeout         time.Duration
	duplicateWindow time.Duration
	logger          *slog.Logger
}

// NewTracker creates an empty tracker
func NewTracker(cfg Config) *Tracker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		pending:         make(map[string]*pendingEntry),
		resolved:        make(map[string]time.Time),
		lastPrune:       time.Now(),
		timeout:         cfg.Timeout,
		duplicateWindow: cfg.DuplicateWindow,
		logger:          logger,
	}
}

// Track registers handler for the response carrying id.
func (t *Tracker) Track(id string, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	if id == "" {
		return fmt.Errorf("correlation: empty identifier")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if _, exists := t.pending[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	t.pruneLocked()

	entry := &pendingEntry{
		handler:   handler,
		trackedAt: time.Now(),
	}
	if t.timeout > 0 {
		entry.timer = time.AfterFunc(t.timeout, func() { t.expire(id, entry) })
	}
	t.pending[id] = entry
	return nil
}

// Resolve routes a response stanza to its pending handler. It reports
// whether the stanza was consumed, either by a handler or as a late
// duplicate of an already resolved correlation. Only iq stanzas of type
// result or error are considered.
func (t *Tracker) Resolve(resp *etree.Element) bool {
	if !stanza.Is(resp, stanza.KindIQ) {
		return false
	}
	switch stanza.Type(resp) {
	case stanza.TypeResult, stanza.TypeError:
	default:
		return false
	}
	id := stanza.ID(resp)
	if id == "" {
		return false
	}

	t.mu.Lock()
	entry, ok := t.pending[id]
	if !ok {
		at, seen := t.resolved[id]
		dup := seen && time.Since(at) < t.duplicateWindow
		t.pruneLocked()
		t.mu.Unlock()
		if dup {
			t.logger.Debug("dropping duplicate response", slog.String("id", id))
		}
		return dup
	}
	t.finishLocked(id, entry)
	t.mu.Unlock()

	t.logger.Debug("correlated response",
		slog.String("id", id),
		slog.String("type", stanza.Type(resp)),
		slog.Duration("elapsed", time.Since(entry.trackedAt)))
	entry.handler(resp, nil)
	return true
}

// Cancel forgets a pending correlation without invoking its handler.
func (t *Tracker) Cancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.pending[id]
	if !ok {
		return false
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(t.pending, id)
	return true
}

// IsPending reports whether id awaits a response
func (t *Tracker) IsPending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[id]
	return ok
}

// Pending returns the number of outstanding correlations
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Close stops all timers and fails outstanding correlations with ErrClosed.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	handlers := make([]Handler, 0, len(t.pending))
	for id, entry := range t.pending {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		handlers = append(handlers, entry.handler)
		delete(t.pending, id)
	}
	t.mu.Unlock()

	for _, h := range handlers {
		h(nil, ErrClosed)
	}
}

func (t *Tracker) expire(id string, entry *pendingEntry) {
	t.mu.Lock()
	// The entry may have been resolved, cancelled or replaced meanwhile.
	if current, ok := t.pending[id]; !ok || current != entry {
		t.mu.Unlock()
		return
	}
	t.finishLocked(id, entry)
	t.mu.Unlock()

	t.logger.Warn("correlation timed out",
		slog.String("id", id),
		slog.Duration("timeout", t.timeout))
	entry.handler(nil, ErrTimeout)
}

func (t *Tracker) finishLocked(id string, entry *pendingEntry) {
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(t.pending, id)
	if t.duplicateWindow > 0 {
		t.resolved[id] = time.Now()
	}
	t.pruneLocked()
}

// pruneLocked drops resolved identifiers older than the duplicate window.
// It runs at most once per window.
func (t *Tracker) pruneLocked() {
	now := time.Now()
	if now.Sub(t.lastPrune) < t.duplicateWindow {
		return
	}
	for id, at := range t.resolved {
		if now.Sub(at) > t.duplicateWindow {
			delete(t.resolved, id)
		}
	}
	t.lastPrune = now
}

package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/beevik/etree"
)

// ErrClosed is returned by senders that have been closed
var ErrClosed = errors.New("transport: sender closed")

// Sender transmits a stanza. Implementations must not retain el after
// Send returns.
type Sender interface {
	Send(el *etree.Element) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(el *etree.Element) error

// Send calls f
func (f SenderFunc) Send(el *etree.Element) error {
	return f(el)
}

// StreamSender writes each stanza to an io.Writer, one after another,
// as it would appear inside an open XMPP stream.
type StreamSender struct {
	mu       sync.Mutex
	w        io.Writer
	settings etree.WriteSettings
	closed   bool
}

// NewStreamSender creates a sender writing to w
func NewStreamSender(w io.Writer) *StreamSender {
	return &StreamSender{
		w:        w,
		settings: etree.WriteSettings{CanonicalEndTags: false, CanonicalText: true, CanonicalAttrVal: true},
	}
}

// Send serializes el to the stream
func (s *StreamSender) Send(el *etree.Element) error {
	doc := etree.NewDocument()
	doc.WriteSettings = s.settings
	doc.SetRoot(el.Copy())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := doc.WriteTo(s.w); err != nil {
		return fmt.Errorf("writing stanza: %w", err)
	}
	return nil
}

// Close stops further sends. The writer is left open.
func (s *StreamSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Recorder keeps a copy of every stanza sent through it. It is mostly
// useful in tests and for loopback wiring.
type Recorder struct {
	mu      sync.Mutex
	stanzas []*etree.Element
	next    Sender
}

// NewRecorder creates a recorder that forwards to next when it is non-nil
func NewRecorder(next Sender) *Recorder {
	return &Recorder{next: next}
}

// Send records el and forwards it
func (r *Recorder) Send(el *etree.Element) error {
	r.mu.Lock()
	r.stanzas = append(r.stanzas, el.Copy())
	next := r.next
	r.mu.Unlock()

	if next != nil {
		return next.Send(el)
	}
	return nil
}

// Stanzas returns the recorded stanzas in send order
func (r *Recorder) Stanzas() []*etree.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*etree.Element, len(r.stanzas))
	copy(out, r.stanzas)
	return out
}

// Len returns the number of recorded stanzas
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stanzas)
}

// Last returns the most recently recorded stanza, or nil
func (r *Recorder) Last() *etree.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stanzas) == 0 {
		return nil
	}
	return r.stanzas[len(r.stanzas)-1]
}

// Reset forgets recorded stanzas
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stanzas = nil
}

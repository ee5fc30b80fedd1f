package correlation

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource issues correlation identifiers. Identifiers must be unique for
// the lifetime of a Tracker.
type IDSource interface {
	NextID() string
}

// UUIDSource issues random UUIDs
type UUIDSource struct{}

// NewUUIDSource creates a UUID based id source
func NewUUIDSource() *UUIDSource {
	return &UUIDSource{}
}

// NextID returns a new random UUID string
func (UUIDSource) NextID() string {
	return uuid.NewString()
}

// SequenceSource issues prefix + an increasing counter
type SequenceSource struct {
	prefix string
	n      atomic.Uint64
}

// NewSequenceSource creates a counter based id source
func NewSequenceSource(prefix string) *SequenceSource {
	return &SequenceSource{prefix: prefix}
}

// NextID returns the next identifier in the sequence
func (s *SequenceSource) NextID() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1), 10)
}

// IDSourceFunc adapts a function to IDSource
type IDSourceFunc func() string

// NextID calls f
func (f IDSourceFunc) NextID() string {
	return f()
}

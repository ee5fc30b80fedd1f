package disco

import (
	"log/slog"

	"github.com/sirosfoundation/go-disco/pkg/events"
	"github.com/sirosfoundation/go-disco/pkg/stanza"
)

// Subscriber is the part of an event bus the responder listens on
type Subscriber interface {
	On(event string, l events.Listener)
}

// StaticResponder answers inbound info queries from a fixed feature list.
// Queries for a node without an entry are answered with item-not-found.
type StaticResponder struct {
	disco    *Disco
	features []Feature
	nodes    map[string][]Feature
	logger   *slog.Logger
}

// NewStaticResponder creates a responder advertising features at the
// root node
func NewStaticResponder(d *Disco, features []Feature) *StaticResponder {
	return &StaticResponder{
		disco:    d,
		features: features,
		nodes:    make(map[string][]Feature),
		logger:   d.logger.With(slog.String("responder", "static")),
	}
}

// WithNode advertises features under node
func (r *StaticResponder) WithNode(node string, features []Feature) *StaticResponder {
	r.nodes[node] = features
	return r
}

// Listen subscribes the responder to inbound query notifications
func (r *StaticResponder) Listen(bus Subscriber) {
	bus.On(EventClient, func(p any) {
		q, ok := p.(InboundQuery)
		if !ok {
			return
		}
		if err := r.Answer(q); err != nil {
			r.logger.Error("answering info query failed",
				slog.String("from", q.From),
				slog.String("id", q.ID),
				slog.String("error", err.Error()))
		}
	})
}

// Answer replies to one inbound query
func (r *StaticResponder) Answer(q InboundQuery) error {
	features := r.features
	if q.Node != "" {
		var ok bool
		if features, ok = r.nodes[q.Node]; !ok {
			return r.disco.SendError(q.From, q.ID, stanza.ErrorCancel, "item-not-found")
		}
	}
	return r.disco.SendResult(InfoResponse{
		To:       q.From,
		ID:       q.ID,
		Node:     q.Node,
		Features: features,
	})
}

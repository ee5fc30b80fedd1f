// Package dispatch routes inbound stanzas. Responses to our own requests
// go to the correlation tracker; everything else is offered to the
// protocol handlers registered for the stanza's kind (iq, message,
// presence) in registration order.
package dispatch

import (
	"errors"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-disco/pkg/stanza"
)

// ErrNoHandler is returned by Route when nothing consumed a stanza
var ErrNoHandler = errors.New("dispatch: no handler for stanza")

// Handler is the capability a protocol component exposes to the router.
type Handler interface {
	// Handles classifies a stanza without side effects.
	Handles(el *etree.Element) bool
	// Handle processes a stanza Handles accepted and reports whether it
	// was consumed.
	Handle(el *etree.Element) bool
}

// Resolver consumes correlated responses
type Resolver interface {
	Resolve(el *etree.Element) bool
}

// Route binds a handler to a stanza kind
type Route struct {
	Kind    string
	Handler Handler
}

// Router is built once and is read-only afterwards.
type Router struct {
	resolver Resolver
	table    map[string][]Handler
	logger   *slog.Logger
}

// NewRouter builds the dispatch table. resolver may be nil.
func NewRouter(resolver Resolver, logger *slog.Logger, routes ...Route) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	table := make(map[string][]Handler)
	for _, r := range routes {
		table[r.Kind] = append(table[r.Kind], r.Handler)
	}
	return &Router{
		resolver: resolver,
		table:    table,
		logger:   logger,
	}
}

// Route delivers one inbound stanza.
func (r *Router) Route(el *etree.Element) error {
	if el == nil {
		return ErrNoHandler
	}
	if r.resolver != nil && r.resolver.Resolve(el) {
		return nil
	}
	for _, h := range r.table[el.Tag] {
		if !h.Handles(el) {
			continue
		}
		if h.Handle(el) {
			return nil
		}
	}
	r.logger.Debug("unhandled stanza",
		slog.String("kind", el.Tag),
		slog.String("type", stanza.Type(el)),
		slog.String("from", stanza.From(el)))
	return ErrNoHandler
}

// RouteBytes parses data and routes the resulting stanza
func (r *Router) RouteBytes(data []byte) error {
	el, err := stanza.Parse(data)
	if err != nil {
		return err
	}
	return r.Route(el)
}

package disco

import (
	"errors"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-disco/pkg/correlation"
	"github.com/sirosfoundation/go-disco/pkg/events"
	"github.com/sirosfoundation/go-disco/pkg/stanza"
	"github.com/sirosfoundation/go-disco/pkg/transport"
)

// Tracker registers correlations for outbound queries
type Tracker interface {
	Track(id string, handler correlation.Handler) error
	Cancel(id string) bool
}

// Config holds the collaborators of a Disco component
type Config struct {
	Sender  transport.Sender
	Tracker Tracker
	// IDs issues correlation identifiers. Defaults to UUIDs.
	IDs correlation.IDSource
	// Notifier receives InboundQuery and ClientError notifications.
	Notifier events.Notifier
	Logger   *slog.Logger
	Metrics  *Metrics
}

// Disco is the service discovery component of one session. Its only state
// is its collaborators; correlations are owned by the Tracker.
type Disco struct {
	sender   transport.Sender
	tracker  Tracker
	ids      correlation.IDSource
	notifier events.Notifier
	logger   *slog.Logger
	metrics  *Metrics

	events map[string]events.Handler
}

// New creates a Disco component
func New(cfg Config) (*Disco, error) {
	if cfg.Sender == nil {
		return nil, errors.New("disco: sender is required")
	}
	if cfg.Tracker == nil {
		return nil, errors.New("disco: tracker is required")
	}
	if cfg.IDs == nil {
		cfg.IDs = correlation.NewUUIDSource()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Disco{
		sender:   cfg.Sender,
		tracker:  cfg.Tracker,
		ids:      cfg.IDs,
		notifier: cfg.Notifier,
		logger:   logger.With(slog.String("component", "disco")),
		metrics:  cfg.Metrics,
	}
	d.events = map[string]events.Handler{
		EventItems:  d.onItems,
		EventInfo:   d.onInfo,
		EventClient: d.onClient,
	}
	return d, nil
}

// Handles reports whether el is an iq get whose query child is in the
// disco#info namespace. disco#items queries are not answered here, and
// neither are results or errors.
func (d *Disco) Handles(el *etree.Element) bool {
	if !stanza.Is(el, stanza.KindIQ) || stanza.Type(el) != stanza.TypeGet {
		return false
	}
	query := stanza.Query(el)
	return query != nil && query.NamespaceURI() == NSInfo
}

// Handle forwards an inbound info query to the owner, who answers later
// through SendResult. It always consumes the stanza.
func (d *Disco) Handle(el *etree.Element) bool {
	q := InboundQuery{
		From: stanza.From(el),
		ID:   stanza.ID(el),
	}
	if query := stanza.Query(el); query != nil {
		q.Node = query.SelectAttrValue("node", "")
	}

	d.logger.Debug("inbound info query",
		slog.String("from", q.From),
		slog.String("id", q.ID),
		slog.String("node", q.Node))
	d.metrics.inbound()
	d.emit(EventClient, q)
	return true
}

func (d *Disco) emit(event string, payload any) {
	if d.notifier == nil {
		d.logger.Warn("no notifier configured, dropping event", slog.String("event", event))
		return
	}
	d.notifier.Emit(event, payload)
}

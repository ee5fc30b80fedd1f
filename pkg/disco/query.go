package disco

import (
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-disco/pkg/rsm"
	"github.com/sirosfoundation/go-disco/pkg/stanza"
)

// GetItems sends a disco#items query. See the package documentation for
// the error and callback contract.
func (d *Disco) GetItems(req Request, cb ItemsCallback) error {
	if err := d.validateQuery(req, cb == nil); err != nil {
		return err
	}
	return d.query(NSItems, req, func(resp *etree.Element, err error) {
		if err != nil {
			d.metrics.response(NSItems, OutcomeFailure)
			cb(nil, nil, err)
			return
		}
		items, set, perr := ParseItems(resp)
		d.metrics.response(NSItems, outcome(perr))
		cb(items, set, perr)
	}, func(err error) {
		cb(nil, nil, err)
	})
}

// GetFeatures sends a disco#info query. See the package documentation for
// the error and callback contract.
func (d *Disco) GetFeatures(req Request, cb InfoCallback) error {
	if err := d.validateQuery(req, cb == nil); err != nil {
		return err
	}
	return d.query(NSInfo, req, func(resp *etree.Element, err error) {
		if err != nil {
			d.metrics.response(NSInfo, OutcomeFailure)
			cb(nil, nil, err)
			return
		}
		entries, set, perr := ParseInfo(resp)
		d.metrics.response(NSInfo, outcome(perr))
		cb(entries, set, perr)
	}, func(err error) {
		cb(nil, nil, err)
	})
}

func (d *Disco) validateQuery(req Request, noCallback bool) error {
	var err error
	switch {
	case req.Of == "":
		err = missingField("of")
	case noCallback:
		err = ErrMissingCallback
	}
	if err != nil {
		d.metrics.clientError(errorField(err))
	}
	return err
}

// query builds, registers and sends one query. A send failure cancels the
// correlation and is delivered through fail, unless the correlation already
// fired while Send was running.
func (d *Disco) query(ns string, req Request, onResponse func(*etree.Element, error), fail func(error)) error {
	id := d.ids.NextID()
	iq, query := stanza.NewQuery(stanza.TypeGet, req.Of, id, ns)
	if req.Node != "" {
		query.CreateAttr("node", req.Node)
	}
	if req.RSM != nil {
		rsm.Build(query, req.RSM)
	}

	if err := d.tracker.Track(id, onResponse); err != nil {
		return fmt.Errorf("tracking query %s: %w", id, err)
	}

	log := d.logger.With(
		slog.String("id", id),
		slog.String("to", req.Of),
		slog.String("namespace", ns))

	if err := d.sender.Send(iq); err != nil {
		log.Error("sending query failed", slog.String("error", err.Error()))
		if d.tracker.Cancel(id) {
			d.metrics.response(ns, OutcomeFailure)
			fail(fmt.Errorf("sending query: %w", err))
		}
		return nil
	}
	log.Debug("query sent", slog.String("node", req.Node))
	d.metrics.querySent(ns)
	return nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeResult
}

package disco

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/sirosfoundation/go-disco/pkg/events"
	"github.com/sirosfoundation/go-disco/pkg/rsm"
)

// Event names
const (
	EventItems  = "xmpp.discover.items"
	EventInfo   = "xmpp.discover.info"
	EventClient = "xmpp.discover.client"
)

// Events returns the component's request handlers keyed by event name,
// for registration on an events.Bus.
func (d *Disco) Events() map[string]events.Handler {
	out := make(map[string]events.Handler, len(d.events))
	for name, h := range d.events {
		out[name] = h
	}
	return out
}

func (d *Disco) onItems(payload json.RawMessage, cb events.Callback) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		d.reject(malformedField("request"), payload, cb)
		return
	}
	var itemsCb ItemsCallback
	if cb != nil {
		itemsCb = func(items []Attributes, set *rsm.Result, err error) {
			if err != nil {
				cb(err)
				return
			}
			cb(nil, items, set)
		}
	}
	if err := d.GetItems(req, itemsCb); err != nil {
		d.clientError(err, payload, cb)
	}
}

func (d *Disco) onInfo(payload json.RawMessage, cb events.Callback) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		d.reject(malformedField("request"), payload, cb)
		return
	}
	var infoCb InfoCallback
	if cb != nil {
		infoCb = func(entries []Entry, set *rsm.Result, err error) {
			if err != nil {
				cb(err)
				return
			}
			cb(nil, entries, set)
		}
	}
	if err := d.GetFeatures(req, infoCb); err != nil {
		d.clientError(err, payload, cb)
	}
}

// clientPayload defers decoding of features so that a value of the wrong
// shape is reported against the features key.
type clientPayload struct {
	To       string          `json:"to"`
	ID       string          `json:"id"`
	Node     string          `json:"node"`
	Features json.RawMessage `json:"features"`
}

func (d *Disco) onClient(payload json.RawMessage, cb events.Callback) {
	var p clientPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		d.reject(malformedField("request"), payload, cb)
		return
	}
	resp := InfoResponse{To: p.To, ID: p.ID, Node: p.Node}

	switch {
	case resp.To == "":
		d.reject(missingField("to"), payload, cb)
		return
	case resp.ID == "":
		d.reject(missingField("id"), payload, cb)
		return
	}
	if len(p.Features) > 0 && !bytes.Equal(p.Features, []byte("null")) {
		if err := json.Unmarshal(p.Features, &resp.Features); err != nil {
			d.reject(malformedField("features"), payload, cb)
			return
		}
	}

	if err := d.SendResult(resp); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			d.clientError(err, payload, cb)
			return
		}
		if cb != nil {
			cb(err)
		}
		return
	}
	if cb != nil {
		cb(nil, true)
	}
}

// reject counts and reports a request rejected by the event adapter itself.
func (d *Disco) reject(err error, payload json.RawMessage, cb events.Callback) {
	d.metrics.clientError(errorField(err))
	d.clientError(err, payload, cb)
}

// clientError reports a locally rejected request: to the callback when
// one was supplied, otherwise on the client error channel. A missing
// callback always goes to the channel.
func (d *Disco) clientError(err error, payload json.RawMessage, cb events.Callback) {
	ce := events.NewClientError(description(err), requestValue(payload))
	d.logger.Info("rejected request", slog.String("error", ce.Description))

	if cb != nil && !errors.Is(err, ErrMissingCallback) {
		cb(ce)
		return
	}
	d.emit(events.ClientErrorEvent, ce)
}

// requestValue decodes payload for echoing back in a ClientError.
func requestValue(payload json.RawMessage) any {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return string(payload)
	}
	return v
}

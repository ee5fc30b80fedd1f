package disco

import (
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-disco/pkg/stanza"
)

// BuildInfoResponse builds the result stanza answering an info query.
// Features without a Kind are skipped; the others become one child each,
// carrying only the recognized attributes.
func BuildInfoResponse(resp InfoResponse) (*etree.Element, error) {
	if resp.To == "" {
		return nil, missingField("to")
	}
	if resp.ID == "" {
		return nil, missingField("id")
	}

	iq, query := stanza.NewQuery(stanza.TypeResult, resp.To, resp.ID, NSInfo)
	if resp.Node != "" {
		query.CreateAttr("node", resp.Node)
	}
	for _, f := range resp.Features {
		if f.Kind == "" {
			continue
		}
		Recognized.Apply(query.CreateElement(f.Kind), f.attr)
	}
	return iq, nil
}

// SendResult answers an inbound info query.
func (d *Disco) SendResult(resp InfoResponse) error {
	iq, err := BuildInfoResponse(resp)
	if err != nil {
		d.metrics.clientError(errorField(err))
		return err
	}
	if err := d.sender.Send(iq); err != nil {
		return fmt.Errorf("sending info response: %w", err)
	}
	d.logger.Debug("info response sent",
		slog.String("to", resp.To),
		slog.String("id", resp.ID),
		slog.Int("features", len(resp.Features)))
	return nil
}

// SendError answers an inbound query with a stanza error.
func (d *Disco) SendError(to, id, typ, condition string) error {
	if to == "" {
		return missingField("to")
	}
	if id == "" {
		return missingField("id")
	}
	iq := stanza.NewErrorTo(to, id, typ, condition, "")
	if err := d.sender.Send(iq); err != nil {
		return fmt.Errorf("sending error response: %w", err)
	}
	return nil
}

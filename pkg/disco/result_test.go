package disco

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-disco/pkg/correlation"
	"github.com/sirosfoundation/go-disco/pkg/events"
	"github.com/sirosfoundation/go-disco/pkg/stanza"
	"github.com/sirosfoundation/go-disco/pkg/transport"
)

func TestClientEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		field   string
	}{
		{"missing to", `{}`, "Missing 'to' key", "to"},
		{"missing id", `{"to":"romeo@shakespeare.lit/desktop"}`, "Missing 'id' key", "id"},
		{"features not a list", `{"to":"romeo@shakespeare.lit/desktop","id":"555:info","features":true}`, "Badly formatted 'features' key", "features"},
		{"features of wrong shape", `{"to":"romeo@shakespeare.lit/desktop","id":"555:info","features":[1]}`, "Badly formatted 'features' key", "features"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			require.NoError(t, h.bus.Send(EventClient, []byte(tt.payload), nil))

			require.Len(t, h.clientErrors, 1)
			ce := h.clientErrors[0]
			assert.Equal(t, "modify", ce.Type)
			assert.Equal(t, "client-error", ce.Condition)
			assert.Equal(t, tt.want, ce.Description)
			assert.NotNil(t, ce.Request)
			assert.Equal(t, 0, h.sent.Len())
			assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ClientErrors.WithLabelValues(tt.field)))
		})
	}
}

func TestClientEvent_ValidationToCallback(t *testing.T) {
	h := newHarness(t)
	var replies []reply

	require.NoError(t, h.bus.Send(EventClient, map[string]any{"to": "romeo@shakespeare.lit/desktop"}, capture(&replies)))

	require.Len(t, replies, 1)
	var ce *events.ClientError
	require.ErrorAs(t, replies[0].err, &ce)
	assert.Equal(t, "Missing 'id' key", ce.Description)
	assert.Equal(t, map[string]any{"to": "romeo@shakespeare.lit/desktop"}, ce.Request)
	assert.Empty(t, h.clientErrors)
	assert.Equal(t, 0, h.sent.Len())
}

func TestClientEvent_NoFeatures(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.bus.Send(EventClient, map[string]any{
		"to": "romeo@shakespeare.lit/desktop",
		"id": "555:info",
	}, nil))

	require.Equal(t, 1, h.sent.Len())
	iq := h.sent.Last()
	assert.True(t, stanza.Is(iq, stanza.KindIQ))
	assert.Equal(t, "romeo@shakespeare.lit/desktop", stanza.To(iq))
	assert.Equal(t, "555:info", stanza.ID(iq))
	assert.Equal(t, stanza.TypeResult, stanza.Type(iq))
	query := queryOf(t, iq, NSInfo)
	assert.Empty(t, query.ChildElements())
	assert.Empty(t, h.clientErrors)
}

func TestClientEvent_WithFeatures(t *testing.T) {
	h := newHarness(t)
	var replies []reply

	require.NoError(t, h.bus.Send(EventClient, map[string]any{
		"to": "romeo@shakespeare.lit/desktop",
		"id": "555:info",
		"features": []map[string]any{
			{"kind": "kind1", "name": "name1", "category": "cat1", "var": "var1", "jid": "jid1", "node": "node1"},
			{"kind": "kind2"},
			{},
		},
	}, capture(&replies)))

	require.Equal(t, 1, h.sent.Len())
	children := queryOf(t, h.sent.Last(), NSInfo).ChildElements()
	require.Len(t, children, 2)

	assert.Equal(t, "kind1", children[0].Tag)
	assert.Equal(t, "name1", children[0].SelectAttrValue("name", ""))
	assert.Equal(t, "cat1", children[0].SelectAttrValue("category", ""))
	assert.Equal(t, "var1", children[0].SelectAttrValue("var", ""))
	assert.Equal(t, "jid1", children[0].SelectAttrValue("jid", ""))
	assert.Equal(t, "node1", children[0].SelectAttrValue("node", ""))
	assert.Nil(t, children[0].SelectAttr("type"))

	assert.Equal(t, "kind2", children[1].Tag)
	assert.Empty(t, children[1].Attr)

	require.Len(t, replies, 1)
	assert.NoError(t, replies[0].err)
	assert.Equal(t, []any{true}, replies[0].args)
}

func TestClientEvent_SendFailure(t *testing.T) {
	tracker := correlation.NewTracker(correlation.Config{})
	defer tracker.Close()
	d, err := New(Config{
		Sender:  transport.SenderFunc(func(*etree.Element) error { return errors.New("stream closed") }),
		Tracker: tracker,
	})
	require.NoError(t, err)
	bus := events.NewBus(nil)
	require.NoError(t, bus.Register(d.Events()))

	var replies []reply
	require.NoError(t, bus.Send(EventClient, map[string]any{"to": "a", "id": "b"}, capture(&replies)))

	require.Len(t, replies, 1)
	assert.ErrorContains(t, replies[0].err, "stream closed")
}

func TestBuildInfoResponse_SkipsKindless(t *testing.T) {
	iq, err := BuildInfoResponse(InfoResponse{
		To: "romeo@shakespeare.lit",
		ID: "1",
		Features: []Feature{
			{Name: "no kind"},
			{Kind: "feature", Var: "urn:a"},
			{Var: "urn:b"},
		},
	})
	require.NoError(t, err)

	children := stanza.Query(iq).ChildElements()
	require.Len(t, children, 1)
	assert.Equal(t, "urn:a", children[0].SelectAttrValue("var", ""))
}

func TestBuildInfoResponse_Node(t *testing.T) {
	iq, err := BuildInfoResponse(InfoResponse{To: "a", ID: "1", Node: "http://example.com#caps"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com#caps", stanza.Query(iq).SelectAttrValue("node", ""))
}

func TestSendResult_TypedErrors(t *testing.T) {
	h := newHarness(t)

	err := h.disco.SendResult(InfoResponse{ID: "1"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, `missing field: "to"`, err.Error())

	err = h.disco.SendResult(InfoResponse{To: "a"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "id", fe.Field)

	assert.Equal(t, 0, h.sent.Len())
}

// Every recognized attribute written by the response builder is read back
// by the response interpreter, and nothing else is.
func TestInfoResponse_RoundTrip(t *testing.T) {
	features := []Feature{
		{Kind: "identity", Category: "client", Type: "pc", Name: "Gabber"},
		{Kind: "feature", Var: "http://jabber.org/protocol/disco#info"},
		{Kind: "item", Type: "t", Name: "n", Category: "c", Var: "v", JID: "j", Node: "nd"},
		{Kind: "feature"},
	}
	iq, err := BuildInfoResponse(InfoResponse{To: "romeo@shakespeare.lit", ID: "1", Features: features})
	require.NoError(t, err)

	data, err := stanza.Marshal(iq)
	require.NoError(t, err)
	parsed, err := stanza.Parse(data)
	require.NoError(t, err)

	entries, set, err := ParseInfo(parsed)
	require.NoError(t, err)
	assert.Nil(t, set)
	require.Len(t, entries, len(features))
	for i, f := range features {
		assert.Equal(t, Kind(f.Kind), entries[i].Kind)
		assert.Equal(t, Recognized.Project(f.attr), entries[i].Attributes)
	}
	assert.Empty(t, entries[3].Attributes)
}

func TestSendError(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.disco.SendError("romeo@shakespeare.lit", "7", stanza.ErrorCancel, "item-not-found"))
	iq := h.sent.Last()
	require.True(t, stanza.IsError(iq))
	assert.Equal(t, "item-not-found", stanza.ParseError(iq).Condition)

	assert.ErrorIs(t, h.disco.SendError("", "7", stanza.ErrorCancel, "x"), ErrMissingField)
	assert.ErrorIs(t, h.disco.SendError("a", "", stanza.ErrorCancel, "x"), ErrMissingField)
}

package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SendMarshalsPayload(t *testing.T) {
	bus := NewBus(nil)

	var got json.RawMessage
	var gotCb Callback
	require.NoError(t, bus.Register(map[string]Handler{
		"xmpp.test": func(payload json.RawMessage, cb Callback) {
			got = payload
			gotCb = cb
		},
	}))

	require.NoError(t, bus.Send("xmpp.test", map[string]string{"of": "wonderland.lit"}, nil))
	assert.JSONEq(t, `{"of":"wonderland.lit"}`, string(got))
	assert.Nil(t, gotCb)

	require.NoError(t, bus.Send("xmpp.test", json.RawMessage(`{"a":1}`), func(error, ...any) {}))
	assert.JSONEq(t, `{"a":1}`, string(got))
	assert.NotNil(t, gotCb)

	require.NoError(t, bus.Send("xmpp.test", nil, nil))
	assert.JSONEq(t, `{}`, string(got))
}

func TestBus_SendUnknownEvent(t *testing.T) {
	bus := NewBus(nil)
	assert.ErrorIs(t, bus.Send("xmpp.missing", nil, nil), ErrUnknownEvent)
}

func TestBus_SendUnencodable(t *testing.T) {
	bus := NewBus(nil)
	require.NoError(t, bus.Register(map[string]Handler{"e": func(json.RawMessage, Callback) {}}))
	assert.Error(t, bus.Send("e", make(chan int), nil))
}

func TestBus_RegisterRejectsOverlap(t *testing.T) {
	bus := NewBus(nil)
	noop := func(json.RawMessage, Callback) {}

	require.NoError(t, bus.Register(map[string]Handler{"a": noop}))
	err := bus.Register(map[string]Handler{"a": noop, "b": noop})
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	// The rejected table is not partially installed.
	assert.ErrorIs(t, bus.Send("b", nil, nil), ErrUnknownEvent)
}

func TestBus_Emit(t *testing.T) {
	bus := NewBus(nil)
	var order []string

	bus.On("n", func(p any) { order = append(order, "first:"+p.(string)) })
	bus.On("n", func(p any) { order = append(order, "second:"+p.(string)) })
	bus.Emit("n", "x")
	bus.Emit("unobserved", "y")

	assert.Equal(t, []string{"first:x", "second:x"}, order)
}

func TestClientError(t *testing.T) {
	req := map[string]any{"of": "example.com"}
	err := NewClientError("Missing callback", req)

	assert.Equal(t, "modify", err.Type)
	assert.Equal(t, "client-error", err.Condition)
	assert.Equal(t, req, err.Request)
	assert.Equal(t, "client-error: Missing callback", err.Error())

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"type":"modify","condition":"client-error","description":"Missing callback","request":{"of":"example.com"}}`, string(data))
}

package stanza

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want Error
	}{
		{
			name: "defined condition",
			xml: `<iq type="error" id="1"><error type="cancel">` +
				`<item-not-found xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"/></error></iq>`,
			want: Error{Type: "cancel", Condition: "item-not-found"},
		},
		{
			name: "condition without namespace",
			xml:  `<iq type="error"><error type="cancel"><error-condition/></error></iq>`,
			want: Error{Type: "cancel", Condition: "error-condition"},
		},
		{
			name: "text and application condition",
			xml: `<iq type="error"><error type="modify">` +
				`<bad-request xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"/>` +
				`<text xmlns="urn:ietf:params:xml:ns:xmpp-stanzas">Try again</text>` +
				`<unexpected-request xmlns="urn:xmpp:custom"/></error></iq>`,
			want: Error{Type: "modify", Condition: "bad-request", Description: "Try again", Application: "unexpected-request"},
		},
		{
			name: "missing error element",
			xml:  `<iq type="error"/>`,
			want: Error{Type: "cancel", Condition: "undefined-condition"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseError(MustParse(tt.xml))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNewError(t *testing.T) {
	req := MustParse(`<iq type="get" id="q1" from="alice@wonderland.lit" to="rabbit@wonderland.lit"/>`)

	reply := NewError(req, ErrorWait, "resource-constraint", "busy")
	assert.True(t, IsError(reply))
	assert.Equal(t, "q1", ID(reply))
	assert.Equal(t, "alice@wonderland.lit", To(reply))
	assert.Equal(t, "rabbit@wonderland.lit", From(reply))

	parsed := ParseError(reply)
	assert.Equal(t, Error{Type: ErrorWait, Condition: "resource-constraint", Description: "busy"}, *parsed)
	assert.Equal(t, "stanza error: wait/resource-constraint: busy", parsed.Error())
}
